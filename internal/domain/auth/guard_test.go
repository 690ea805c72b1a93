package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		state  GuardState
		req    Requirement
		org    string
		expect Decision
	}{
		{
			name:   "loading shows indicator without redirect",
			state:  GuardState{Loading: true},
			req:    NewRequirement(),
			org:    "beta",
			expect: Decision{Action: ActionLoading},
		},
		{
			name:   "unauthenticated redirects to org login",
			state:  GuardState{},
			req:    NewRequirement(),
			org:    "beta",
			expect: Decision{Action: ActionRedirect, Target: "/beta/login"},
		},
		{
			name:   "unauthenticated without org redirects to generic login",
			state:  GuardState{},
			req:    NewRequirement(),
			expect: Decision{Action: ActionRedirect, Target: "/login"},
		},
		{
			name:   "fallback overrides login target",
			state:  GuardState{},
			req:    NewRequirement(WithFallback("/welcome")),
			org:    "beta",
			expect: Decision{Action: ActionRedirect, Target: "/welcome"},
		},
		{
			name:   "auth not required renders",
			state:  GuardState{},
			req:    NewRequirement(WithoutAuth()),
			org:    "beta",
			expect: Decision{Action: ActionRender},
		},
		{
			name:   "member denied admin page",
			state:  GuardState{Authenticated: true, Role: RoleMember},
			req:    NewRequirement(WithRoles(RoleAdmin, RoleManager)),
			org:    "beta",
			expect: Decision{Action: ActionRedirect, Target: "/beta/unauthorized"},
		},
		{
			name:   "role match ignores case",
			state:  GuardState{Authenticated: true, Role: "Admin"},
			req:    NewRequirement(WithRoles(RoleAdmin)),
			org:    "beta",
			expect: Decision{Action: ActionRender},
		},
		{
			name:   "no required roles accepts anyone authenticated",
			state:  GuardState{Authenticated: true, Role: "pharmacist"},
			req:    NewRequirement(),
			org:    "beta",
			expect: Decision{Action: ActionRender},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Evaluate(tt.state, tt.req, tt.org))
		})
	}
}

func TestGate_EmitsOncePerTransition(t *testing.T) {
	var g Gate
	redirect := Decision{Action: ActionRedirect, Target: "/beta/login"}

	target, ok := g.Observe(redirect)
	assert.True(t, ok)
	assert.Equal(t, "/beta/login", target)

	_, ok = g.Observe(redirect)
	assert.False(t, ok, "must not navigate again while the requirement stays unmet")

	_, ok = g.Observe(Decision{Action: ActionLoading})
	assert.False(t, ok)
	_, ok = g.Observe(redirect)
	assert.False(t, ok, "loading does not end the unmet condition")

	_, ok = g.Observe(Decision{Action: ActionRender})
	assert.False(t, ok)
	target, ok = g.Observe(redirect)
	assert.True(t, ok, "a new transition navigates again")
	assert.Equal(t, "/beta/login", target)

	target, ok = g.Observe(Decision{Action: ActionRedirect, Target: "/beta/unauthorized"})
	assert.True(t, ok)
	assert.Equal(t, "/beta/unauthorized", target)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/beta/dashboard", DashboardPath("beta"))
	assert.Equal(t, "/", DashboardPath(""))
	assert.Equal(t, "/unauthorized", UnauthorizedPath(" "))
	assert.Equal(t, "/main%20street/login", LoginPath("main street"))
}
