package registry

import "errors"

// Configuration errors surfaced at startup. All of them are fatal: the
// service must not begin serving with a partially loaded or ambiguous
// route table.
var (
	// ErrUnknownModule indicates a specifier that matches no registered
	// module factory.
	ErrUnknownModule = errors.New("unknown handler module")

	// ErrDuplicateRouteID indicates two modules contributed the same route
	// id.
	ErrDuplicateRouteID = errors.New("duplicate route id")

	// ErrInvalidRoutesConfig indicates the route-enablement document exists
	// but cannot be parsed.
	ErrInvalidRoutesConfig = errors.New("invalid routes config")
)
