package main

import (
	"errors"

	"github.com/cortexmemory/cortex/internal/types"
)

// exitCodeFor maps a typed engine error to a stable, machine-readable exit
// code (spec §6: "non-zero on typed errors with machine-readable reason
// codes"). Codes are grouped by taxonomy position, not by severity, so a
// scripted caller can switch on them without string-matching messages.
func exitCodeFor(err error) int {
	var e *types.Error
	if !errors.As(err, &e) {
		return 1
	}
	switch e.Kind {
	case types.ErrNotFound:
		return 10
	case types.ErrDuplicate:
		return 11
	case types.ErrValidation:
		return 12
	case types.ErrCausalCycle:
		return 13
	case types.ErrBudgetExceeded:
		return 14
	case types.ErrDegradedMode:
		return 15
	case types.ErrStorage:
		return 16
	case types.ErrSerialization:
		return 17
	case types.ErrSyncFailed:
		return 18
	case types.ErrPermissionDenied:
		return 19
	case types.ErrQuotaExceeded:
		return 20
	default:
		return 1
	}
}
