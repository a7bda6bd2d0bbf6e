package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/types"
)

// contentPart is one element of a wire message content array.
type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// wireItem is the Responses API item shape. Messages carry content as an
// array of typed parts; everything else maps closely onto types.Item.
type wireItem struct {
	Type    string        `json:"type,omitempty"`
	ID      string        `json:"id,omitempty"`
	Role    string        `json:"role,omitempty"`
	Content []contentPart `json:"content,omitempty"`
	Summary []contentPart `json:"summary,omitempty"`

	CallID              string              `json:"call_id,omitempty"`
	Action              json.RawMessage     `json:"action,omitempty"`
	PendingSafetyChecks []types.SafetyCheck `json:"pending_safety_checks,omitempty"`
	Status              string              `json:"status,omitempty"`

	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	Output                   json.RawMessage     `json:"output,omitempty"`
	AcknowledgedSafetyChecks []types.SafetyCheck `json:"acknowledged_safety_checks,omitempty"`
	CurrentURL               string              `json:"current_url,omitempty"`
}

// callOutputPayload is the output union for computer_call_output: a
// screenshot for executed actions, text for blocked or failed ones.
type callOutputPayload struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url,omitempty"`
	Text     string `json:"text,omitempty"`
}

// toWireItems converts transcript items to their request wire form,
// preserving order.
func toWireItems(items []types.Item) ([]wireItem, error) {
	wire := make([]wireItem, 0, len(items))
	for i, item := range items {
		w, err := toWireItem(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		wire = append(wire, w)
	}
	return wire, nil
}

func toWireItem(item types.Item) (wireItem, error) {
	switch item.Type {
	case types.ItemTypeMessage:
		partType := "input_text"
		if item.Role == types.RoleAssistant {
			partType = "output_text"
		}
		return wireItem{
			Type:    string(types.ItemTypeMessage),
			ID:      item.ID,
			Role:    string(item.Role),
			Content: []contentPart{{Type: partType, Text: item.Content}},
		}, nil

	case types.ItemTypeReasoning:
		w := wireItem{Type: string(types.ItemTypeReasoning), ID: item.ID}
		if item.Content != "" {
			w.Summary = []contentPart{{Type: "summary_text", Text: item.Content}}
		}
		return w, nil

	case types.ItemTypeComputerCall:
		if item.Action == nil {
			return wireItem{}, fmt.Errorf("computer_call %q has no action", item.CallID)
		}
		action, err := json.Marshal(item.Action)
		if err != nil {
			return wireItem{}, fmt.Errorf("failed to marshal action: %w", err)
		}
		return wireItem{
			Type:                string(types.ItemTypeComputerCall),
			ID:                  item.ID,
			CallID:              item.CallID,
			Action:              action,
			PendingSafetyChecks: item.PendingSafetyChecks,
			Status:              "completed",
		}, nil

	case types.ItemTypeComputerCallOutput:
		payload := callOutputPayload{}
		if item.Screenshot != nil {
			payload.Type = item.Screenshot.Type
			payload.ImageURL = item.Screenshot.ImageURL
		} else {
			// Blocked and failed actions carry text instead of a
			// screenshot; the description is what lets the model
			// self-correct.
			payload.Type = "input_text"
			payload.Text = item.Error
		}
		output, err := json.Marshal(payload)
		if err != nil {
			return wireItem{}, fmt.Errorf("failed to marshal call output: %w", err)
		}
		return wireItem{
			Type:                     string(types.ItemTypeComputerCallOutput),
			CallID:                   item.CallID,
			Output:                   output,
			AcknowledgedSafetyChecks: item.AcknowledgedSafetyChecks,
			CurrentURL:               item.CurrentURL,
		}, nil

	case types.ItemTypeFunctionCall:
		return wireItem{
			Type:      string(types.ItemTypeFunctionCall),
			ID:        item.ID,
			CallID:    item.CallID,
			Name:      item.Name,
			Arguments: item.Arguments,
			Status:    "completed",
		}, nil

	case types.ItemTypeFunctionCallOutput:
		output, err := json.Marshal(item.Output)
		if err != nil {
			return wireItem{}, fmt.Errorf("failed to marshal function output: %w", err)
		}
		return wireItem{
			Type:   string(types.ItemTypeFunctionCallOutput),
			CallID: item.CallID,
			Output: output,
		}, nil

	default:
		return wireItem{}, fmt.Errorf("unknown item type %q", item.Type)
	}
}

// fromWireItems parses the model's raw output items, preserving order.
// Any item that fails to parse fails the whole response so a partial,
// ambiguous sequence is never handed to the loop.
func fromWireItems(raw []json.RawMessage) ([]types.Item, error) {
	items := make([]types.Item, 0, len(raw))
	for i, r := range raw {
		var w wireItem
		if err := json.Unmarshal(r, &w); err != nil {
			return nil, &llm.ProtocolError{
				Reason: fmt.Sprintf("output item %d is not a valid item", i),
				Cause:  err,
			}
		}
		item, err := fromWireItem(w)
		if err != nil {
			return nil, &llm.ProtocolError{
				Reason: fmt.Sprintf("output item %d", i),
				Cause:  err,
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func fromWireItem(w wireItem) (types.Item, error) {
	switch w.Type {
	case string(types.ItemTypeMessage):
		role := types.Role(w.Role)
		if role == "" {
			role = types.RoleAssistant
		}
		return types.Item{
			Type:    types.ItemTypeMessage,
			ID:      w.ID,
			Role:    role,
			Content: joinParts(w.Content),
		}, nil

	case string(types.ItemTypeReasoning):
		return types.Item{
			Type:    types.ItemTypeReasoning,
			ID:      w.ID,
			Content: joinParts(w.Summary),
		}, nil

	case string(types.ItemTypeComputerCall):
		if w.CallID == "" {
			return types.Item{}, fmt.Errorf("computer_call has no call_id")
		}
		if len(w.Action) == 0 {
			return types.Item{}, fmt.Errorf("computer_call %q has no action", w.CallID)
		}
		var action types.Action
		if err := json.Unmarshal(w.Action, &action); err != nil {
			return types.Item{}, fmt.Errorf("computer_call %q action: %w", w.CallID, err)
		}
		return types.Item{
			Type:                types.ItemTypeComputerCall,
			ID:                  w.ID,
			CallID:              w.CallID,
			Action:              &action,
			PendingSafetyChecks: w.PendingSafetyChecks,
		}, nil

	case string(types.ItemTypeFunctionCall):
		if w.CallID == "" {
			return types.Item{}, fmt.Errorf("function_call has no call_id")
		}
		if w.Name == "" {
			return types.Item{}, fmt.Errorf("function_call %q has no name", w.CallID)
		}
		return types.Item{
			Type:      types.ItemTypeFunctionCall,
			ID:        w.ID,
			CallID:    w.CallID,
			Name:      w.Name,
			Arguments: w.Arguments,
		}, nil

	default:
		return types.Item{}, fmt.Errorf("unknown item type %q", w.Type)
	}
}

func joinParts(parts []contentPart) string {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
