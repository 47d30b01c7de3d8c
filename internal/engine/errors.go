package engine

import (
	"errors"

	"github.com/tartampluch/go-analogclock/internal/config"
)

// Recoverable and fatal conditions of the clock core.
//
// ErrInvalidZone and ErrDegenerateViewport are handled locally and only reach logs.
// ErrAssetUnavailable is returned to the host at construction time.
var (
	ErrInvalidZone        = errors.New(config.ErrInvalidZone)
	ErrDegenerateViewport = errors.New(config.ErrDegenerateViewport)
	ErrAssetUnavailable   = errors.New(config.ErrAssetUnavailable)
)
