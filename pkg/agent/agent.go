// Package agent implements the computer-use turn loop: it drives a
// model that emits UI actions, executes them against a Computer, and
// feeds the captured screen state back until the model settles on a
// plain message.
//
// Typical usage:
//
//	comp := playwright.New(playwright.Options{})
//	if err := comp.Start(); err != nil { ... }
//	defer comp.Close()
//
//	ag := agent.New(client, comp,
//	    agent.WithInstructions("You are a careful web-browsing assistant."),
//	    agent.WithMaxRounds(20),
//	)
//	result, err := ag.RunTurn(ctx, transcript, types.NewUserMessage("go to example.com"), agent.TurnConfig{})
package agent

import (
	"github.com/entrhq/surf/pkg/computer"
	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/llm/tokenizer"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/types"
)

// DefaultMaxRounds bounds the model round-trips in one turn when the
// caller does not supply a limit. Without a bound, a model that always
// requests another action loops forever.
const DefaultMaxRounds = 20

// Agent orchestrates turns for one conversation. It exclusively owns its
// Computer for the conversation's lifetime; turns are never interleaved
// because browser UI state is serial.
type Agent struct {
	client       llm.Client
	comp         computer.Computer
	executor     *Executor
	instructions string
	maxRounds    int
	policy       *URLPolicy

	tools     map[string]FunctionTool
	toolOrder []string

	tokenizer *tokenizer.Tokenizer
	log       *logging.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithInstructions sets the developer/system instruction text sent with
// every model request.
func WithInstructions(instructions string) Option {
	return func(a *Agent) {
		a.instructions = instructions
	}
}

// WithMaxRounds sets the default per-turn model round budget. A
// TurnConfig.MaxRounds overrides it per turn.
func WithMaxRounds(max int) Option {
	return func(a *Agent) {
		a.maxRounds = max
	}
}

// WithURLPolicy restricts goto navigation by host; violations surface as
// safety checks the operator can acknowledge.
func WithURLPolicy(policy *URLPolicy) Option {
	return func(a *Agent) {
		a.policy = policy
	}
}

// WithFunctionTool registers a function tool the model may call.
// Registration order is the order tools appear in the schema.
func WithFunctionTool(tool FunctionTool) Option {
	return func(a *Agent) {
		if _, exists := a.tools[tool.Name()]; !exists {
			a.toolOrder = append(a.toolOrder, tool.Name())
		}
		a.tools[tool.Name()] = tool
	}
}

// TurnConfig is the caller-supplied configuration for one turn.
type TurnConfig struct {
	// MaxRounds caps model round-trips for this turn. Zero means the
	// agent default.
	MaxRounds int

	// SafetyAcknowledgments pre-resolves safety checks by ID, typically
	// gathered from a human operator between turns.
	SafetyAcknowledgments map[string]bool

	// ShowIntermediateImages keeps screenshot payloads in the returned
	// items. When false they are replaced with an opaque reference,
	// purely a transport-size optimization.
	ShowIntermediateImages bool
}

// TurnResult is the ordered sequence of new items produced during one
// turn, to be concatenated onto the caller's running transcript. On a
// partial failure (round limit, cancellation, execution error) it holds
// the items generated up to the last fully processed step.
type TurnResult struct {
	Items  []types.Item
	Rounds int
	Usage  llm.Usage
}

// New creates an agent bound to one model client and one computer.
func New(client llm.Client, comp computer.Computer, opts ...Option) *Agent {
	log, err := logging.NewLogger("agent")
	if err != nil {
		log.Warnf("file logging unavailable, using stderr: %v", err)
	}

	a := &Agent{
		client:    client,
		comp:      comp,
		executor:  NewExecutor(comp),
		maxRounds: DefaultMaxRounds,
		tools:     make(map[string]FunctionTool),
		log:       log,
	}

	// Token counting is best effort; a missing encoding just disables it.
	if tok, err := tokenizer.New(); err == nil {
		a.tokenizer = tok
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// toolSchemas builds the static tool list for model requests: the
// computer-use surface first, then registered function tools in
// registration order.
func (a *Agent) toolSchemas() []llm.ToolSchema {
	width, height := a.comp.Dimensions()
	schemas := []llm.ToolSchema{{
		Type:          "computer_use_preview",
		DisplayWidth:  width,
		DisplayHeight: height,
		Environment:   string(a.comp.Environment()),
	}}
	for _, name := range a.toolOrder {
		tool := a.tools[name]
		schemas = append(schemas, llm.ToolSchema{
			Type:        "function",
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Schema(),
		})
	}
	return schemas
}
