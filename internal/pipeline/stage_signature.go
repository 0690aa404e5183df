// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pipeline

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-hook-gate/internal/utils"
)

// SignatureStage verifies a shared-secret HMAC over the raw request body.
//
// Without a configured secret the stage passes everything through: signature
// enforcement is opt-in, and a half-configured validator that rejected all
// traffic would be worse than none. With a secret, a missing or mismatched
// signature terminates the chain with 401 before any downstream stage runs.
type SignatureStage struct {
	hasher     *utils.Hasher // nil when no secret is configured
	header     string
	algoPrefix string
	onReject   func()
}

// NewSignatureStage builds the stage. An empty secret yields a pass-through
// stage; an unsupported algorithm is a configuration error surfaced at
// startup, never per request.
func NewSignatureStage(secret, header, algo string) (*SignatureStage, error) {
	s := &SignatureStage{header: header}
	if secret == "" {
		return s, nil
	}

	hasher, err := utils.NewHasher(algo, secret)
	if err != nil {
		return nil, err
	}

	s.hasher = hasher
	s.algoPrefix = algo + "="
	return s, nil
}

// Enabled reports whether a secret is configured.
func (s *SignatureStage) Enabled() bool { return s.hasher != nil }

// OnReject registers a callback fired for every rejected signature. Used to
// feed the rejection counter without coupling the stage to the metrics
// registry.
func (s *SignatureStage) OnReject(fn func()) { s.onReject = fn }

func (s *SignatureStage) reject() {
	if s.onReject != nil {
		s.onReject()
	}
}

// Name implements [Stage].
func (s *SignatureStage) Name() string { return "signature" }

// Run implements [Stage]. The header value is accepted with or without the
// "<algo>=" prefix; comparison is constant-time over the hex digests.
func (s *SignatureStage) Run(rc *RequestContext) *Response {
	if s.hasher == nil {
		return nil
	}

	provided := rc.Req.Header.Get(s.header)
	if provided == "" {
		rc.Log.Warn().Str("header", s.header).Msg("missing signature")
		s.reject()
		return Error(http.StatusUnauthorized, "missing signature", rc.RID)
	}

	body, err := rc.Body()
	if err != nil {
		rc.Log.Error().Err(err).Msg("error reading request body")
		return Error(http.StatusBadRequest, "error reading request body", rc.RID)
	}

	provided = strings.TrimPrefix(provided, s.algoPrefix)

	want := s.hasher.HexSum(body)
	if !utils.SignatureEqual(provided, want) {
		rc.Log.Warn().Str("algo", s.hasher.Algo()).Msg("invalid signature")
		s.reject()
		return Error(http.StatusUnauthorized, "invalid signature", rc.RID)
	}

	return nil
}
