package tui

import (
	"github.com/MKhiriev/go-hook-gate/models"
)

type codeReceivedMsg struct {
	code string
	err  error
}

type exchangeDoneMsg struct {
	bundle models.TokenBundle
	err    error
}

type locationDoneMsg struct {
	bundle models.TokenBundle
	err    error
}

type browserOpenedMsg struct {
	err error
}

type copiedMsg struct{}

type clearStatusMsg struct{}
