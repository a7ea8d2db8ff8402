package main

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every decoder-level failure wraps one of these so
// callers can distinguish them with errors.Is regardless of the operation
// string or context attached.
var (
	ErrBadHeader         = errors.New("bad header")
	ErrShortRead         = errors.New("short read")
	ErrMalformedVarint   = errors.New("malformed varint")
	ErrMalformedPage     = errors.New("malformed page")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrUnknownSerialType = errors.New("unknown serial type")
	ErrUnparseableDDL    = errors.New("unparseable ddl")
	ErrCorruptTree       = errors.New("corrupt tree")
	ErrSqlParse          = errors.New("sql parse error")
	ErrUnresolved        = errors.New("unresolved reference")
	ErrUnsupported       = errors.New("unsupported")

	ErrTableNotFound  = errors.New("table not found")
	ErrColumnNotFound = errors.New("column not found")
)

// EngineError carries the sentinel kind alongside the operation that
// raised it and free-form context, and Unwraps to one of the sentinels
// above (or, when built by unresolvedErr, to an error wrapping two of
// them) so errors.Is keeps working through the wrapper.
type EngineError struct {
	Op      string
	Err     error
	Context map[string]interface{}
}

func (e *EngineError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v (%+v)", e.Op, e.Err, e.Context)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// wrapErr builds an *EngineError rooted at one of the sentinel kinds.
func wrapErr(op string, kind error, ctx map[string]interface{}) *EngineError {
	return &EngineError{Op: op, Err: kind, Context: ctx}
}

// ctxErr is a convenience for attaching a single key/value of context.
func ctxErr(op string, kind error, key string, val interface{}) *EngineError {
	return wrapErr(op, kind, map[string]interface{}{key: val})
}

// unresolvedErr builds an *EngineError for a name-binding failure: it
// wraps both ErrUnresolved (the general binding-failure kind) and a more
// specific sentinel (ErrTableNotFound, ErrColumnNotFound, ...), so
// callers can match on either with errors.Is.
func unresolvedErr(op string, specific error, key string, val interface{}) *EngineError {
	return wrapErr(op, fmt.Errorf("%w: %w", ErrUnresolved, specific), map[string]interface{}{key: val})
}
