package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-hook-gate/internal/adapter"
	"github.com/MKhiriev/go-hook-gate/internal/config"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/oauth"
	"github.com/MKhiriev/go-hook-gate/internal/tui"
)

type App struct {
	flow   *oauth.Flow
	ui     *tui.TUI
	logger *logger.Logger
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	ghl, err := adapter.NewGHLClient(adapter.GHLConfig{
		BaseURL:      cfg.OAuth.BaseURL,
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURI:  cfg.OAuth.RedirectURI,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create platform client: %w", err)
	}

	store := oauth.NewTokenStore("", cfg.Vault.Passphrase)
	flow := oauth.NewFlow(ghl, store, log)
	ui := tui.New(flow, cfg, log)

	return &App{flow: flow, ui: ui, logger: log}, nil
}

// Run reuses or refreshes a stored agency token when it can, and runs the
// interactive wizard otherwise.
func (a *App) Run() error {
	ctx := context.Background()

	bundle, err := a.flow.Store().LoadAgency()
	switch {
	case err == nil:
		fresh, refreshErr := a.flow.EnsureFresh(ctx, bundle)
		if refreshErr == nil {
			a.logger.Info().
				Str("user_type", fresh.UserType).
				Str("expires_at", fresh.ExpiresAt).
				Str("path", a.flow.Store().AgencyPath()).
				Msg("stored token is ready")
			return nil
		}
		a.logger.Warn().Err(refreshErr).Msg("stored token unusable, starting authorization")
	case errors.Is(err, oauth.ErrNoStoredToken):
		a.logger.Info().Msg("no stored token, starting authorization")
	default:
		return fmt.Errorf("load stored token: %w", err)
	}

	return a.ui.RunWizard(ctx)
}
