package main

import (
	"errors"

	"github.com/sgaunet/auto-release/internal/lock"
	"github.com/sgaunet/auto-release/pkg/config"
	"github.com/sgaunet/auto-release/pkg/platform"
)

// Process exit codes.
const (
	exitOK               = 0
	exitFailure          = 1
	exitValidation       = 2
	exitNotFound         = 3
	exitConflict         = 4
	exitTransport        = 5
	exitAuth             = 6
	exitNothingToRelease = 7
	exitLockHeld         = 8
)

var errUsage = errors.New("invalid usage")

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errUsage) || errors.Is(err, config.ErrInvalid) || errors.Is(err, config.ErrReadConfig) {
		return exitValidation
	}
	if errors.Is(err, lock.ErrHeld) {
		return exitLockHeld
	}

	switch platform.KindOf(err) {
	case platform.KindValidation:
		return exitValidation
	case platform.KindNotFound:
		return exitNotFound
	case platform.KindConflict:
		return exitConflict
	case platform.KindTransport:
		return exitTransport
	case platform.KindAuth:
		return exitAuth
	case platform.KindNothingToRelease:
		return exitNothingToRelease
	default:
		return exitFailure
	}
}
