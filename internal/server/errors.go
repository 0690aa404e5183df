package server

import "errors"

var (
	errNoRouter = errors.New("no http router is provided")
)
