//go:build !cgo

package main

import (
	"errors"

	"zbuf-renderer/internal/session"
)

func runWindow(_ *session.Session, _ viewOptions) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
