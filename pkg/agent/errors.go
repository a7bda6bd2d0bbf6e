package agent

import (
	"fmt"

	"github.com/entrhq/surf/pkg/computer"
	"github.com/entrhq/surf/pkg/types"
)

// UnsupportedActionError reports a model-issued action the current
// computer cannot perform, either because the action name is outside the
// supported set or because it needs a different environment kind. It is
// recovered locally: the loop converts it into a descriptive call output
// so the model can self-correct.
type UnsupportedActionError struct {
	Action      types.Action
	Environment computer.Environment
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("action %q is not supported in the %s environment", e.Action.Type, e.Environment)
}

// ActionExecutionError reports a failure inside the automation backend
// while performing an action. It is fatal for the current turn: the
// computer's state afterward is unverified, so the caller decides
// whether to retry with a fresh session.
type ActionExecutionError struct {
	Action types.Action
	Cause  error
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.Action, e.Cause)
}

func (e *ActionExecutionError) Unwrap() error { return e.Cause }

// TurnLimitExceededError reports that a turn used up its round budget
// without the model reaching a final message, signalling a likely
// non-converging loop.
type TurnLimitExceededError struct {
	MaxRounds int
}

func (e *TurnLimitExceededError) Error() string {
	return fmt.Sprintf("turn exceeded the maximum of %d model rounds", e.MaxRounds)
}
