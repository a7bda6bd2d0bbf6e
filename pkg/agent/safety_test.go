package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/surf/pkg/types"
)

func TestGateReviewDenyByDefault(t *testing.T) {
	checks := []types.SafetyCheck{
		{ID: "sc1", Code: "malicious-site"},
		{ID: "sc2", Code: "sensitive-data"},
	}
	call := types.NewComputerCall("call_1", types.Action{Type: types.ActionClick}, checks)

	gate := NewSafetyGate(nil, nil)
	decision := gate.Review(call)

	assert.False(t, decision.Proceed)
	assert.Equal(t, checks, decision.Unresolved, "unresolved checks keep model order")
}

func TestGateReviewPartialAcknowledgment(t *testing.T) {
	checks := []types.SafetyCheck{
		{ID: "sc1", Code: "malicious-site"},
		{ID: "sc2", Code: "sensitive-data"},
	}
	call := types.NewComputerCall("call_1", types.Action{Type: types.ActionClick}, checks)

	gate := NewSafetyGate(map[string]bool{"sc1": true}, nil)
	decision := gate.Review(call)

	assert.False(t, decision.Proceed)
	require.Len(t, decision.Unresolved, 1)
	assert.Equal(t, "sc2", decision.Unresolved[0].ID)
}

func TestGateReviewAllAcknowledged(t *testing.T) {
	call := types.NewComputerCall("call_1", types.Action{Type: types.ActionClick},
		[]types.SafetyCheck{{ID: "sc1"}})

	gate := NewSafetyGate(map[string]bool{"sc1": true}, nil)
	decision := gate.Review(call)

	assert.True(t, decision.Proceed)
	assert.Empty(t, decision.Unresolved)
}

func TestGateReviewNoChecks(t *testing.T) {
	call := types.NewComputerCall("call_1", types.Action{Type: types.ActionClick}, nil)
	decision := NewSafetyGate(nil, nil).Review(call)
	assert.True(t, decision.Proceed)
}

func TestGateReviewPolicyCheck(t *testing.T) {
	policy, err := NewURLPolicy([]string{"*.example.com", "example.com"}, nil)
	require.NoError(t, err)
	gate := NewSafetyGate(nil, policy)

	allowed := types.NewComputerCall("call_1",
		types.Action{Type: types.ActionGoto, URL: "https://www.example.com/search"}, nil)
	assert.True(t, gate.Review(allowed).Proceed)

	denied := types.NewComputerCall("call_2",
		types.Action{Type: types.ActionGoto, URL: "https://evil.test/login"}, nil)
	decision := gate.Review(denied)
	assert.False(t, decision.Proceed)
	require.Len(t, decision.Unresolved, 1)
	assert.Equal(t, "domain-evil.test", decision.Unresolved[0].ID)
	assert.Equal(t, "domain_policy", decision.Unresolved[0].Code)
}

func TestGateReviewPolicyAcknowledgedByID(t *testing.T) {
	policy, err := NewURLPolicy([]string{"example.com"}, nil)
	require.NoError(t, err)
	gate := NewSafetyGate(map[string]bool{"domain-evil.test": true}, policy)

	call := types.NewComputerCall("call_1",
		types.Action{Type: types.ActionGoto, URL: "https://evil.test/login"}, nil)
	assert.True(t, gate.Review(call).Proceed)
}

func TestGateReviewPolicyIgnoresNonNavigation(t *testing.T) {
	policy, err := NewURLPolicy([]string{"example.com"}, nil)
	require.NoError(t, err)
	gate := NewSafetyGate(nil, policy)

	call := types.NewComputerCall("call_1", types.Action{Type: types.ActionClick, X: 1, Y: 1}, nil)
	assert.True(t, gate.Review(call).Proceed)
}

func TestURLPolicyAllows(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		blocked []string
		url     string
		want    bool
	}{
		{"empty policy allows everything", nil, nil, "https://anywhere.test", true},
		{"allowed host", []string{"example.com"}, nil, "https://example.com/page", true},
		{"allowed wildcard", []string{"*.example.com"}, nil, "https://docs.example.com", true},
		{"host outside allowlist", []string{"example.com"}, nil, "https://other.test", false},
		{"blocked wins over allowed", []string{"*"}, []string{"evil.test"}, "https://evil.test", false},
		{"blocked wildcard", nil, []string{"*.ads.test"}, "https://tracker.ads.test", false},
		{"host matching is case insensitive", []string{"example.com"}, nil, "https://EXAMPLE.com", true},
		{"unparseable url denied", []string{"*"}, nil, "http://%zz", false},
		{"empty host denied", []string{"*"}, nil, "not-a-url", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := NewURLPolicy(tt.allowed, tt.blocked)
			require.NoError(t, err)
			assert.Equal(t, tt.want, policy.Allows(tt.url))
		})
	}
}

func TestNewURLPolicyInvalidPattern(t *testing.T) {
	_, err := NewURLPolicy([]string{"[invalid"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[invalid")
}

func TestCheckForDeterministicID(t *testing.T) {
	policy, err := NewURLPolicy([]string{"example.com"}, nil)
	require.NoError(t, err)

	first := policy.CheckFor("https://evil.test/a")
	second := policy.CheckFor("https://evil.test/b")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	assert.Nil(t, policy.CheckFor("https://example.com"))
}
