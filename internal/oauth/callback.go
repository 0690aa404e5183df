// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
)

const callbackPage = `<html><body><h1>Authorization complete!</h1>` +
	`<p>You can close this tab now.</p></body></html>`

type callbackResult struct {
	code string
	err  error
}

// CallbackServer is the loopback HTTP server that receives the marketplace
// redirect. It serves exactly one successful callback; requests with a
// wrong state or no code are rejected and the server keeps waiting.
type CallbackServer struct {
	addr   string
	path   string
	state  string
	server *http.Server
	result chan callbackResult
	logger *logger.Logger
}

// NewCallbackServer builds a callback server listening on the host, port
// and path of redirectURI. The URI must match the marketplace app
// configuration exactly, so the listen address is derived from it rather
// than configured separately.
func NewCallbackServer(redirectURI, state string, logger *logger.Logger) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("parse redirect uri: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("redirect uri %q has no host", redirectURI)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return &CallbackServer{
		addr:   u.Host,
		path:   path,
		state:  state,
		result: make(chan callbackResult, 1),
		logger: logger,
	}, nil
}

// Start binds the listener and begins serving in the background. It returns
// once the port is bound, so the caller can safely open the browser.
func (c *CallbackServer) Start() error {
	listener, err := net.Listen("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", c.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(c.path, c.handle)

	c.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := c.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error().Err(err).Msg("callback server failed")
		}
	}()

	c.logger.Info().Str("address", c.addr).Str("path", c.path).Msg("waiting for oauth callback")
	return nil
}

// Wait blocks until the authorization code arrives, the provider reports an
// authorization error, or ctx is cancelled.
func (c *CallbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-c.result:
		return res.code, res.err
	}
}

// Close shuts the listener down. Safe to call before Start.
func (c *CallbackServer) Close() {
	if c.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.server.Shutdown(ctx)
}

func (c *CallbackServer) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") != c.state {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if errCode := query.Get("error"); errCode != "" {
		desc := query.Get("error_description")
		http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errCode, desc), http.StatusBadRequest)
		c.deliver(callbackResult{err: fmt.Errorf("authorization failed: %s: %s", errCode, desc)})
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(callbackPage))

	c.deliver(callbackResult{code: code})
}

// deliver hands the result to Wait at most once; late duplicate callbacks
// are dropped.
func (c *CallbackServer) deliver(res callbackResult) {
	select {
	case c.result <- res:
	default:
	}
}
