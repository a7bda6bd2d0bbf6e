// Package types defines the conversation transcript model shared by the
// agent loop, the model client, and callers.
//
// A conversation is an ordered, append-only list of Items. Items are
// created either by the model (messages, reasoning, computer and function
// calls) or by the executor (call outputs). Ordering is meaningful: it
// reconstructs causal turn history and must never be reordered or
// deduplicated. Callers own the transcript between turns and are
// responsible for persisting it.
package types

// ItemType discriminates the Item union.
type ItemType string

const (
	ItemTypeMessage            ItemType = "message"              // ItemTypeMessage is a user/developer/assistant message.
	ItemTypeComputerCall       ItemType = "computer_call"        // ItemTypeComputerCall is a model-issued UI action request.
	ItemTypeComputerCallOutput ItemType = "computer_call_output" // ItemTypeComputerCallOutput is the executor's result for a computer call.
	ItemTypeFunctionCall       ItemType = "function_call"        // ItemTypeFunctionCall is a model-issued call to a registered function tool.
	ItemTypeFunctionCallOutput ItemType = "function_call_output" // ItemTypeFunctionCallOutput is the result of a function tool call.
	ItemTypeReasoning          ItemType = "reasoning"            // ItemTypeReasoning is a model reasoning summary.
)

// Role identifies the author of a message item.
type Role string

const (
	RoleUser      Role = "user"
	RoleDeveloper Role = "developer"
	RoleAssistant Role = "assistant"
)

// SafetyCheck is a flagged concern the model attaches to a computer call,
// for example "this navigates off the allowed domain". A check is resolved
// only when the operator acknowledges it by ID; unresolved checks block
// execution of the associated action.
type SafetyCheck struct {
	ID      string `json:"id"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ScreenshotOutput carries the visual grounding for a computer call
// output. ImageURL is either a data URL with the PNG payload inline or an
// opaque reference when the caller asked for payload stripping.
type ScreenshotOutput struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

// ScreenshotOutputType is the only output payload type the computer-use
// schema accepts for screenshots.
const ScreenshotOutputType = "input_image"

// Item is one entry in the conversation transcript. The Type field
// selects the variant; only the fields belonging to that variant are
// populated, everything else stays at its zero value and is omitted from
// the wire form.
type Item struct {
	Type ItemType `json:"type"`

	// ID is the model-assigned item identifier, when present.
	ID string `json:"id,omitempty"`

	// Role and Content apply to message and reasoning items.
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content,omitempty"`

	// CallID links a computer or function call to its output. Every call
	// pairs with exactly one output bearing the same CallID.
	CallID string `json:"call_id,omitempty"`

	// Action applies to computer_call items. PendingSafetyChecks holds
	// the model-flagged checks on a computer_call; on a blocked
	// computer_call_output it holds the checks that remained unresolved,
	// including any the gate synthesized locally, so callers can offer
	// them for acknowledgment.
	Action              *Action       `json:"action,omitempty"`
	PendingSafetyChecks []SafetyCheck `json:"pending_safety_checks,omitempty"`

	// Name and Arguments apply to function_call items. Arguments is the
	// raw JSON argument object exactly as the model produced it.
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	// Output applies to function_call_output items.
	Output string `json:"output,omitempty"`

	// Screenshot, AcknowledgedSafetyChecks, CurrentURL, and Error apply
	// to computer_call_output items. Error carries the human-readable
	// description of a blocked or failed action so the model can
	// self-correct; it is never silently dropped.
	Screenshot               *ScreenshotOutput `json:"screenshot,omitempty"`
	AcknowledgedSafetyChecks []SafetyCheck     `json:"acknowledged_safety_checks,omitempty"`
	CurrentURL               string            `json:"current_url,omitempty"`
	Error                    string            `json:"error,omitempty"`
}

// NewUserMessage creates a user message item.
func NewUserMessage(content string) Item {
	return Item{Type: ItemTypeMessage, Role: RoleUser, Content: content}
}

// NewDeveloperMessage creates a developer (system instruction) message item.
func NewDeveloperMessage(content string) Item {
	return Item{Type: ItemTypeMessage, Role: RoleDeveloper, Content: content}
}

// NewAssistantMessage creates an assistant message item.
func NewAssistantMessage(content string) Item {
	return Item{Type: ItemTypeMessage, Role: RoleAssistant, Content: content}
}

// NewComputerCall creates a model-issued action call item.
func NewComputerCall(callID string, action Action, checks []SafetyCheck) Item {
	return Item{
		Type:                ItemTypeComputerCall,
		CallID:              callID,
		Action:              &action,
		PendingSafetyChecks: checks,
	}
}

// NewFunctionCall creates a model-issued function tool call item.
func NewFunctionCall(callID, name, argumentsJSON string) Item {
	return Item{
		Type:      ItemTypeFunctionCall,
		CallID:    callID,
		Name:      name,
		Arguments: argumentsJSON,
	}
}

// NewFunctionCallOutput creates the output item for a function call.
func NewFunctionCallOutput(callID, output string) Item {
	return Item{Type: ItemTypeFunctionCallOutput, CallID: callID, Output: output}
}

// IsCall reports whether the item requires the loop to produce an output
// before the next model round.
func (i Item) IsCall() bool {
	return i.Type == ItemTypeComputerCall || i.Type == ItemTypeFunctionCall
}

// IsMessage reports whether the item is a plain message from the given role.
func (i Item) IsMessage(role Role) bool {
	return i.Type == ItemTypeMessage && i.Role == role
}
