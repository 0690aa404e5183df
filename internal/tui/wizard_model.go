package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/oauth"
	"github.com/MKhiriev/go-hook-gate/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenScopes screen = iota
	screenAuthorize
	screenWaiting
	screenExchanging
	screenSummary
	screenLocationForm
	screenMinting
	screenLocationSummary
)

// waitForCode abstracts the callback server so the model stays testable.
type waitForCode func(ctx context.Context) (string, error)

type wizardModel struct {
	ctx           context.Context
	flow          *oauth.Flow
	wait          waitForCode
	currentScreen screen

	authorizeURL      string
	scopes            []string
	defaultLocationID string

	waiting      waitingModel
	locationForm locationFormModel

	agency   models.TokenBundle
	location models.TokenBundle

	status     string
	showError  bool
	errMessage string
	fatal      bool

	quitByUser bool
	err        error
}

func newWizardModel(ctx context.Context, flow *oauth.Flow, wait waitForCode, authorizeURL string, scopes []string, defaultLocationID string) wizardModel {
	return wizardModel{
		ctx:               ctx,
		flow:              flow,
		wait:              wait,
		currentScreen:     screenScopes,
		authorizeURL:      authorizeURL,
		scopes:            scopes,
		defaultLocationID: defaultLocationID,
		waiting:           newWaitingModel("Waiting for the authorization callback..."),
	}
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showError {
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.showError = false
				m.errMessage = ""
				if m.fatal {
					return m, tea.Quit
				}
			}
			return m, nil
		}
	case codeReceivedMsg:
		if msg.err != nil {
			return m.failf("Authorization failed: %s", humanizeNetworkError(msg.err)), nil
		}
		m.currentScreen = screenExchanging
		m.waiting.label = "Exchanging the authorization code..."
		return m, tea.Batch(m.waiting.spinner.Tick, m.cmdExchange(msg.code))
	case exchangeDoneMsg:
		if msg.err != nil {
			return m.failf("Token exchange failed: %s", humanizeNetworkError(msg.err)), nil
		}
		m.agency = msg.bundle
		m.currentScreen = screenSummary
		return m, nil
	case locationDoneMsg:
		m.locationForm.submitting = false
		if msg.err != nil {
			m.showError = true
			m.errMessage = "Location token failed: " + humanizeNetworkError(msg.err)
			m.currentScreen = screenLocationForm
			return m, nil
		}
		m.location = msg.bundle
		m.currentScreen = screenLocationSummary
		return m, nil
	case browserOpenedMsg:
		if msg.err != nil {
			m.status = "Could not open the browser, copy the URL instead"
		} else {
			m.status = "Browser opened"
		}
		return m, cmdClearStatus()
	case copiedMsg:
		m.status = "Copied!"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case spinner.TickMsg:
		if m.currentScreen == screenWaiting || m.currentScreen == screenExchanging || m.currentScreen == screenMinting {
			var cmd tea.Cmd
			m.waiting.spinner, cmd = m.waiting.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}

	switch m.currentScreen {
	case screenScopes:
		return m.updateScopes(msg)
	case screenAuthorize:
		return m.updateAuthorize(msg)
	case screenSummary:
		return m.updateSummary(msg)
	case screenLocationForm:
		return m.updateLocationForm(msg)
	case screenLocationSummary:
		return m.updateLocationSummary(msg)
	}

	return m, nil
}

func (m wizardModel) View() string {
	var body string
	switch m.currentScreen {
	case screenScopes:
		body = m.viewScopes()
	case screenAuthorize:
		body = m.viewAuthorize()
	case screenWaiting, screenExchanging, screenMinting:
		body = m.waiting.View()
	case screenSummary:
		body = bundleSummary("Agency token", m.agency, m.flow.Store().AgencyPath())
		body += "\n" + helpStyle.Render("l mint a location token  q finish")
	case screenLocationForm:
		body = m.locationForm.View()
	case screenLocationSummary:
		body = bundleSummary("Location token", m.location, m.flow.Store().LocationPath())
		body += "\n" + helpStyle.Render("q finish")
	}

	if m.status != "" {
		body += "\n\n" + m.status
	}
	if m.showError {
		content := "Error\n\n" + m.errMessage + "\n\nenter / esc close"
		body += "\n\n" + overlayBoxStyle.Render(content)
	}

	return appStyle.Render(body)
}

func (m wizardModel) viewScopes() string {
	out := titleStyle.Render("GoHighLevel authorization") + "\n\n"
	out += "The app will request the following scopes:\n\n"
	for _, scope := range m.scopes {
		out += "  - " + scope + "\n"
	}
	out += "\n" + helpStyle.Render("enter continue  q quit")
	return out
}

func (m wizardModel) viewAuthorize() string {
	out := titleStyle.Render("Authorize the app") + "\n\n"
	out += "Open this URL in a browser and pick a location:\n\n"
	out += urlStyle.Render(m.authorizeURL) + "\n\n"
	out += helpStyle.Render("o open browser  c copy url  enter wait for callback  q quit")
	return out
}

func (m wizardModel) updateScopes(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.enter):
		m.currentScreen = screenAuthorize
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	}
	return m, nil
}

func (m wizardModel) updateAuthorize(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.open):
		return m, cmdOpenBrowser(m.authorizeURL)
	case key.Matches(keyMsg, keys.copy):
		return m, cmdCopyToClipboard(m.authorizeURL)
	case key.Matches(keyMsg, keys.enter):
		m.currentScreen = screenWaiting
		return m, tea.Batch(m.waiting.spinner.Tick, m.cmdWaitForCode())
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	}
	return m, nil
}

func (m wizardModel) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.mint):
		m.locationForm = newLocationFormModel(m.defaultLocationID, m.agency.CompanyID)
		m.currentScreen = screenLocationForm
	case key.Matches(keyMsg, keys.quit), key.Matches(keyMsg, keys.esc):
		return m, tea.Quit
	}
	return m, nil
}

func (m wizardModel) updateLocationForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenSummary
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.locationForm = focusNextLocation(m.locationForm)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.locationForm = focusPrevLocation(m.locationForm)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			locationID := strings.TrimSpace(m.locationForm.locationID())
			if locationID == "" {
				m.showError = true
				m.errMessage = "A location id is required"
				return m, nil
			}
			m.locationForm.submitting = true
			m.currentScreen = screenMinting
			m.waiting.label = "Minting the location token..."
			return m, tea.Batch(
				m.waiting.spinner.Tick,
				m.cmdMintLocation(strings.TrimSpace(m.locationForm.companyID()), locationID),
			)
		}
	}

	var cmd tea.Cmd
	m.locationForm.inputs[m.locationForm.focus], cmd = m.locationForm.inputs[m.locationForm.focus].Update(msg)
	return m, cmd
}

func (m wizardModel) updateLocationSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, keys.quit) || key.Matches(keyMsg, keys.enter) || key.Matches(keyMsg, keys.esc) {
		return m, tea.Quit
	}
	return m, nil
}

// failf records a fatal error and raises the overlay; closing it quits.
func (m wizardModel) failf(format string, args ...any) wizardModel {
	m.err = fmt.Errorf(format, args...)
	m.showError = true
	m.errMessage = m.err.Error()
	m.fatal = true
	return m
}

func (m wizardModel) cmdWaitForCode() tea.Cmd {
	ctx := m.ctx
	wait := m.wait
	return func() tea.Msg {
		code, err := wait(ctx)
		return codeReceivedMsg{code: code, err: err}
	}
}

func (m wizardModel) cmdExchange(code string) tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	return func() tea.Msg {
		bundle, err := flow.ExchangeCode(ctx, code)
		return exchangeDoneMsg{bundle: bundle, err: err}
	}
}

func (m wizardModel) cmdMintLocation(companyID, locationID string) tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	agency := m.agency
	return func() tea.Msg {
		bundle, err := flow.MintLocationToken(ctx, agency, companyID, locationID)
		return locationDoneMsg{bundle: bundle, err: err}
	}
}

func cmdOpenBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{err: openBrowser(url)}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return browserOpenedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func focusNextLocation(m locationFormModel) locationFormModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func focusPrevLocation(m locationFormModel) locationFormModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}
