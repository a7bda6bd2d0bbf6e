package agent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/types"
)

// turnState is the loop's position within one turn.
type turnState int

const (
	stateAwaitingModel turnState = iota
	stateExecutingCalls
	stateTerminal
)

// RunTurn runs one full turn: it sends the transcript plus the new input
// to the model, executes the calls the model returns in the exact order
// given, and repeats until the model yields a plain message with no
// pending calls.
//
// The transcript is never mutated; new items accumulate in the returned
// TurnResult for the caller to concatenate and persist. Cancellation is
// honored between state transitions only — a partially applied UI action
// would leave the session in a worse state than waiting for completion.
//
// Errors: *TurnLimitExceededError when the round budget runs out,
// *ActionExecutionError when the automation backend breaks mid-action,
// *llm.ProtocolError when the model response does not fit the item
// schema, and the context error on cancellation. In every error case the
// TurnResult carries the items produced up to the last fully processed
// step. Unsupported actions, blocked actions, and tool failures do not
// error: they become descriptive outputs in the transcript so the model
// can self-correct.
func (a *Agent) RunTurn(ctx context.Context, transcript []types.Item, input types.Item, cfg TurnConfig) (*TurnResult, error) {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = a.maxRounds
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	gate := NewSafetyGate(cfg.SafetyAcknowledgments, a.policy)

	items := make([]types.Item, 0, len(transcript)+1)
	items = append(items, transcript...)
	items = append(items, input)

	result := &TurnResult{}
	var pendingCalls []types.Item
	state := stateAwaitingModel

	for state != stateTerminal {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		switch state {
		case stateAwaitingModel:
			if result.Rounds >= maxRounds {
				return result, &TurnLimitExceededError{MaxRounds: maxRounds}
			}
			result.Rounds++

			if a.tokenizer != nil {
				a.log.Debugf("round %d: ~%d prompt tokens across %d items",
					result.Rounds, a.tokenizer.CountItemsTokens(items), len(items))
			}

			resp, err := a.client.CreateResponse(ctx, &llm.Request{
				Instructions: a.instructions,
				Input:        items,
				Tools:        a.toolSchemas(),
			})
			if err != nil {
				return result, err
			}
			if err := validateResponse(resp.Output); err != nil {
				return result, err
			}
			if resp.Usage != nil {
				result.Usage.InputTokens += resp.Usage.InputTokens
				result.Usage.OutputTokens += resp.Usage.OutputTokens
				result.Usage.TotalTokens += resp.Usage.TotalTokens
			}

			pendingCalls = pendingCalls[:0]
			for _, item := range resp.Output {
				items = append(items, item)
				result.Items = append(result.Items, retained(item, cfg.ShowIntermediateImages))
				if item.IsCall() {
					pendingCalls = append(pendingCalls, item)
				}
			}

			if len(pendingCalls) > 0 {
				state = stateExecutingCalls
			} else {
				state = stateTerminal
			}

		case stateExecutingCalls:
			// Calls run sequentially in the order the model returned
			// them; later calls may depend on the screen state earlier
			// ones produced.
			for _, call := range pendingCalls {
				var output types.Item
				var err error
				switch call.Type {
				case types.ItemTypeComputerCall:
					output, err = a.executeComputerCall(gate, call)
				case types.ItemTypeFunctionCall:
					output = a.executeFunctionCall(ctx, call)
				}
				if err != nil {
					return result, err
				}
				items = append(items, output)
				result.Items = append(result.Items, retained(output, cfg.ShowIntermediateImages))
			}
			pendingCalls = nil
			state = stateAwaitingModel
		}
	}

	return result, nil
}

// executeComputerCall gates and executes one model-issued action,
// producing exactly one output item for the call. A blocked action never
// touches a Computer primitive; its output describes the unresolved
// checks and acknowledges none of them. The unresolved checks also ride
// the output structurally, so callers can offer them for acknowledgment
// even when the gate synthesized them locally and no computer_call item
// carries them. A fatal backend failure is returned as-is with no
// output.
func (a *Agent) executeComputerCall(gate *SafetyGate, call types.Item) (types.Item, error) {
	decision := gate.Review(call)
	if !decision.Proceed {
		a.log.Warnf("call %s blocked: %d unresolved safety checks", call.CallID, len(decision.Unresolved))
		return types.Item{
			Type:                types.ItemTypeComputerCallOutput,
			CallID:              call.CallID,
			PendingSafetyChecks: decision.Unresolved,
			Error:               describeBlock(*call.Action, decision.Unresolved),
		}, nil
	}

	a.log.Infof("executing %s (call %s)", call.Action, call.CallID)
	execResult, err := a.executor.Execute(*call.Action)

	var unsupported *UnsupportedActionError
	if errors.As(err, &unsupported) {
		return types.Item{
			Type:   types.ItemTypeComputerCallOutput,
			CallID: call.CallID,
			Error:  fmt.Sprintf("action not executed: %v", unsupported),
		}, nil
	}
	if err != nil {
		a.log.Errorf("call %s failed: %v", call.CallID, err)
		return types.Item{}, err
	}

	return types.Item{
		Type:   types.ItemTypeComputerCallOutput,
		CallID: call.CallID,
		Screenshot: &types.ScreenshotOutput{
			Type:     types.ScreenshotOutputType,
			ImageURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(execResult.Screenshot),
		},
		CurrentURL:               execResult.CurrentURL,
		AcknowledgedSafetyChecks: call.PendingSafetyChecks,
	}, nil
}

// executeFunctionCall validates and runs one registered function tool.
// Every failure mode — unknown tool, malformed arguments, schema
// violation, tool error — is recoverable and lands in the output so the
// model can try again.
func (a *Agent) executeFunctionCall(ctx context.Context, call types.Item) types.Item {
	tool, ok := a.tools[call.Name]
	if !ok {
		return types.NewFunctionCallOutput(call.CallID,
			fmt.Sprintf("error: no tool named %q is registered", call.Name))
	}

	args, err := parseArguments(call.Arguments)
	if err != nil {
		return types.NewFunctionCallOutput(call.CallID,
			fmt.Sprintf("error: invalid arguments for %s: %v", call.Name, err))
	}
	if err := validateArguments(tool.Schema(), args); err != nil {
		return types.NewFunctionCallOutput(call.CallID,
			fmt.Sprintf("error: invalid arguments for %s: %v", call.Name, err))
	}

	a.log.Infof("executing tool %s (call %s)", call.Name, call.CallID)
	output, err := tool.Execute(ctx, args)
	if err != nil {
		return types.NewFunctionCallOutput(call.CallID,
			fmt.Sprintf("error: tool %s failed: %v", call.Name, err))
	}
	return types.NewFunctionCallOutput(call.CallID, output)
}

// validateResponse checks the structural invariants of a model response
// before any of it is acted on, so a malformed item fails the whole
// round atomically.
func validateResponse(output []types.Item) error {
	for i, item := range output {
		switch item.Type {
		case types.ItemTypeMessage:
			if item.Role == "" {
				return &llm.ProtocolError{Reason: fmt.Sprintf("output item %d: message has no role", i)}
			}
		case types.ItemTypeReasoning:
			// No required fields.
		case types.ItemTypeComputerCall:
			if item.CallID == "" {
				return &llm.ProtocolError{Reason: fmt.Sprintf("output item %d: computer_call has no call_id", i)}
			}
			if item.Action == nil {
				return &llm.ProtocolError{Reason: fmt.Sprintf("output item %d: computer_call has no action", i)}
			}
		case types.ItemTypeFunctionCall:
			if item.CallID == "" {
				return &llm.ProtocolError{Reason: fmt.Sprintf("output item %d: function_call has no call_id", i)}
			}
			if item.Name == "" {
				return &llm.ProtocolError{Reason: fmt.Sprintf("output item %d: function_call has no name", i)}
			}
		default:
			return &llm.ProtocolError{Reason: fmt.Sprintf("output item %d: unknown type %q", i, item.Type)}
		}
	}
	return nil
}

// describeBlock renders the block reason fed back to the model. It names
// every unresolved check so the model (or a human reading the
// transcript) can see exactly why the action did not happen.
func describeBlock(action types.Action, unresolved []types.SafetyCheck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "action %s was blocked pending safety acknowledgment:", action)
	for _, check := range unresolved {
		b.WriteString("\n- ")
		b.WriteString(check.ID)
		if check.Code != "" {
			fmt.Fprintf(&b, " (%s)", check.Code)
		}
		if check.Message != "" {
			b.WriteString(": ")
			b.WriteString(check.Message)
		}
	}
	b.WriteString("\nAsk the user to confirm, or choose a different action.")
	return b.String()
}

// retained returns the item as the caller will see it. When image
// payloads are not wanted, the screenshot data URL is replaced with an
// opaque reference derived from the call ID.
func retained(item types.Item, showImages bool) types.Item {
	if showImages || item.Screenshot == nil {
		return item
	}
	stripped := item
	stripped.Screenshot = &types.ScreenshotOutput{
		Type:     item.Screenshot.Type,
		ImageURL: "screenshot://" + item.CallID,
	}
	return stripped
}
