package llm

import "fmt"

// ProtocolError reports model output that fails to parse into the Item
// or Action schema. It is not retried automatically; the caller decides
// whether to re-prompt or abort. A protocol failure on any part of a
// response fails the whole round atomically so a partial, ambiguous
// action sequence is never applied.
type ProtocolError struct {
	Reason string
	Cause  error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model protocol error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("model protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Cause }
