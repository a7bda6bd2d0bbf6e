package agent

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/surf/pkg/types"
)

// GateDecision is the outcome of reviewing one action call. Proceed is
// true only when every safety concern is resolved; otherwise Unresolved
// lists the blocking checks in order.
type GateDecision struct {
	Proceed    bool
	Unresolved []types.SafetyCheck
}

// SafetyGate reviews model-issued action calls before execution. The
// posture is deny by default: a check counts as resolved only when the
// caller supplied an explicit acknowledgment keyed by the check's ID
// before the turn began. An optional URL policy adds locally synthesized
// checks for navigation outside the allowed domains.
type SafetyGate struct {
	acknowledgments map[string]bool
	policy          *URLPolicy
}

// NewSafetyGate creates a gate with the given pre-turn acknowledgments.
// Both arguments may be nil.
func NewSafetyGate(acknowledgments map[string]bool, policy *URLPolicy) *SafetyGate {
	return &SafetyGate{acknowledgments: acknowledgments, policy: policy}
}

// Review inspects one computer call and decides whether it may execute.
// Model-flagged checks keep the order the model gave them; a policy
// check, when triggered, comes last.
func (g *SafetyGate) Review(call types.Item) GateDecision {
	var unresolved []types.SafetyCheck
	for _, check := range call.PendingSafetyChecks {
		if !g.acknowledgments[check.ID] {
			unresolved = append(unresolved, check)
		}
	}

	if g.policy != nil && call.Action != nil && call.Action.Type == types.ActionGoto {
		if check := g.policy.CheckFor(call.Action.URL); check != nil {
			if !g.acknowledgments[check.ID] {
				unresolved = append(unresolved, *check)
			}
		}
	}

	if len(unresolved) > 0 {
		return GateDecision{Unresolved: unresolved}
	}
	return GateDecision{Proceed: true}
}

// URLPolicy restricts navigation by host. Blocked patterns take
// precedence; an empty allowed list permits every host not blocked.
// Patterns are glob syntax over the host, for example "*.example.com".
type URLPolicy struct {
	allowed []glob.Glob
	blocked []glob.Glob
}

// NewURLPolicy compiles host patterns into a policy.
func NewURLPolicy(allowed, blocked []string) (*URLPolicy, error) {
	p := &URLPolicy{}
	for _, pattern := range allowed {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed pattern %q: %w", pattern, err)
		}
		p.allowed = append(p.allowed, g)
	}
	for _, pattern := range blocked {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked pattern %q: %w", pattern, err)
		}
		p.blocked = append(p.blocked, g)
	}
	return p, nil
}

// Allows reports whether navigation to the URL's host is permitted.
// Unparseable URLs are not allowed.
func (p *URLPolicy) Allows(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	for _, pattern := range p.blocked {
		if pattern.Match(host) {
			return false
		}
	}
	if len(p.allowed) == 0 {
		return true
	}
	for _, pattern := range p.allowed {
		if pattern.Match(host) {
			return true
		}
	}
	return false
}

// CheckFor returns a safety check for navigation to the URL, or nil when
// the policy allows it. The check ID is deterministic per host
// ("domain-<host>") so an operator can acknowledge it out of band before
// the turn.
func (p *URLPolicy) CheckFor(rawURL string) *types.SafetyCheck {
	if p.Allows(rawURL) {
		return nil
	}
	host := hostOf(rawURL)
	if host == "" {
		host = rawURL
	}
	return &types.SafetyCheck{
		ID:      "domain-" + host,
		Code:    "domain_policy",
		Message: fmt.Sprintf("navigation to %s is outside the allowed domains", host),
	}
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
