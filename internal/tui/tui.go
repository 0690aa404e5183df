// Package tui implements the interactive OAuth wizard for the client
// binary: scope review, authorize URL hand-off to the browser, a spinner
// while the loopback callback server waits for the code, the token
// exchange, and result summaries.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-hook-gate/internal/config"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/oauth"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUserQuit reports that the user left the wizard before obtaining a
// token.
var ErrUserQuit = errors.New("user quit")

type TUI struct {
	flow   *oauth.Flow
	cfg    *config.ClientConfig
	logger *logger.Logger
}

func New(flow *oauth.Flow, cfg *config.ClientConfig, logger *logger.Logger) *TUI {
	return &TUI{flow: flow, cfg: cfg, logger: logger}
}

// RunWizard drives the full authorization flow and blocks until the user
// finishes or quits. The callback server lives exactly as long as the
// wizard does.
func (t *TUI) RunWizard(ctx context.Context) error {
	state, err := oauth.NewState()
	if err != nil {
		return err
	}

	scopes := oauth.SplitScopes(t.cfg.OAuth.Scopes)
	if len(scopes) == 0 {
		scopes = oauth.DefaultScopes
	}

	authorizeURL := oauth.AuthorizeURL("", t.cfg.OAuth.ClientID, t.cfg.OAuth.RedirectURI, state, scopes)

	callback, err := oauth.NewCallbackServer(t.cfg.OAuth.RedirectURI, state, t.logger)
	if err != nil {
		return err
	}
	if err := callback.Start(); err != nil {
		return err
	}
	defer callback.Close()

	model := newWizardModel(ctx, t.flow, callback.Wait, authorizeURL, scopes, t.cfg.LocationID)

	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(wizardModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}

	return result.err
}
