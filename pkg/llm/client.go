// Package llm defines the model boundary consumed by the agent loop.
//
// A Client takes the full ordered item list plus the static action/tool
// schema and returns the ordered items the model produced. The loop
// treats the schema and transport as given; providers live in
// subpackages and handle serialization to their wire format.
package llm

import (
	"context"

	"github.com/entrhq/surf/pkg/types"
)

// Request is one model round-trip input.
type Request struct {
	// Instructions is the developer/system instruction text.
	Instructions string

	// Input is the full running item list, in order.
	Input []types.Item

	// Tools describes the computer-use surface and any registered
	// function tools, in the provider's JSON-schema-like shape.
	Tools []ToolSchema
}

// Response is the ordered sequence of items the model produced for one
// round-trip.
type Response struct {
	Output []types.Item
	Usage  *Usage
}

// Usage reports token accounting for one round-trip when the provider
// supplies it.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ToolSchema describes one tool made available to the model.
type ToolSchema struct {
	// Type is "computer_use_preview" for the action surface or
	// "function" for a registered function tool.
	Type string `json:"type"`

	// DisplayWidth, DisplayHeight, and Environment apply to the
	// computer-use tool.
	DisplayWidth  int    `json:"display_width,omitempty"`
	DisplayHeight int    `json:"display_height,omitempty"`
	Environment   string `json:"environment,omitempty"`

	// Name, Description, and Parameters apply to function tools.
	// Parameters is a JSON schema object for the arguments.
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// Client is the model boundary.
type Client interface {
	// CreateResponse sends one request and returns the model's ordered
	// output items. Implementations must preserve the model's item
	// order exactly.
	CreateResponse(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model name being used.
	Model() string
}
