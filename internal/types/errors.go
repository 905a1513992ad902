package types

import "fmt"

// ErrorKind is the closed taxonomy of recoverable error conditions the
// engine can surface. Unrecoverable invariant violations (e.g. a negative
// vector-clock entry) are programming errors and panic rather than
// returning through this type.
type ErrorKind string

const (
	ErrNotFound        ErrorKind = "not_found"
	ErrDuplicate       ErrorKind = "duplicate"
	ErrValidation      ErrorKind = "validation"
	ErrCausalCycle     ErrorKind = "causal_cycle"
	ErrBudgetExceeded  ErrorKind = "budget_exceeded"
	ErrDegradedMode    ErrorKind = "degraded_mode"
	ErrStorage         ErrorKind = "storage"
	ErrSerialization   ErrorKind = "serialization"
	ErrSyncFailed      ErrorKind = "sync_failed"
	ErrPermissionDenied ErrorKind = "permission_denied"
	ErrQuotaExceeded   ErrorKind = "quota_exceeded"
)

// Error is the engine's structured error: a kind, an operator-facing
// message, and optional context fields named in §7 of the design (path,
// needed/available, limit, etc).
type Error struct {
	Kind    ErrorKind
	Message string
	Context map[string]interface{}
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, &Error{Kind: ErrNotFound}) style comparisons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind ErrorKind, msg string, ctx map[string]interface{}) *Error {
	return &Error{Kind: kind, Message: msg, Context: ctx}
}

// NewNotFound builds an ErrNotFound error.
func NewNotFound(what, id string) *Error {
	return newErr(ErrNotFound, fmt.Sprintf("%s %q not found", what, id), map[string]interface{}{"id": id})
}

// NewDuplicate builds an ErrDuplicate error.
func NewDuplicate(what, id string) *Error {
	return newErr(ErrDuplicate, fmt.Sprintf("%s %q already exists", what, id), map[string]interface{}{"id": id})
}

// NewValidation builds an ErrValidation error.
func NewValidation(msg string) *Error {
	return newErr(ErrValidation, msg, nil)
}

// NewCausalCycle builds an ErrCausalCycle error carrying the offending path.
func NewCausalCycle(path []string) *Error {
	return newErr(ErrCausalCycle, fmt.Sprintf("edge would close cycle: %v", path),
		map[string]interface{}{"path": path})
}

// NewBudgetExceeded builds an ErrBudgetExceeded error.
func NewBudgetExceeded(needed, available int) *Error {
	return newErr(ErrBudgetExceeded,
		fmt.Sprintf("cannot pack required critical memories: need %d, have %d", needed, available),
		map[string]interface{}{"needed": needed, "available": available})
}

// NewDegradedMode builds an ErrDegradedMode notification (not fatal).
func NewDegradedMode(component, fallback string) *Error {
	return newErr(ErrDegradedMode, fmt.Sprintf("%s operating in degraded mode, using %s", component, fallback),
		map[string]interface{}{"component": component, "fallback": fallback})
}

// NewStorage wraps an underlying durable-store error.
func NewStorage(cause error) *Error {
	e := newErr(ErrStorage, cause.Error(), nil)
	e.Cause = cause
	return e
}

// NewSerialization builds an ErrSerialization error.
func NewSerialization(cause error) *Error {
	e := newErr(ErrSerialization, "malformed blob or delta payload", nil)
	e.Cause = cause
	return e
}

// NewSyncFailed builds an ErrSyncFailed error.
func NewSyncFailed(reason string) *Error {
	return newErr(ErrSyncFailed, reason, map[string]interface{}{"reason": reason})
}

// NewPermissionDenied builds an ErrPermissionDenied error.
func NewPermissionDenied(agent AgentID, namespace NamespaceID, permission string) *Error {
	return newErr(ErrPermissionDenied,
		fmt.Sprintf("agent %s denied %s on %s", agent, permission, namespace),
		map[string]interface{}{"agent": string(agent), "namespace": string(namespace), "permission": permission})
}

// NewQuotaExceeded builds an ErrQuotaExceeded error.
func NewQuotaExceeded(resource string, used, limit uint64) *Error {
	return newErr(ErrQuotaExceeded,
		fmt.Sprintf("quota exceeded for %s: %d/%d", resource, used, limit),
		map[string]interface{}{"resource": resource, "used": used, "limit": limit})
}
