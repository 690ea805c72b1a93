package auth

// Package auth contains domain-level types for console sessions and memberships.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role is a membership role string as returned by the PanAI API.
// The set is open; comparisons are case-insensitive.
type Role string

// Well-known roles. Other values are accepted and compared verbatim (case-insensitively).
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Is reports whether r equals other ignoring case.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), strings.TrimSpace(string(other)))
}

// HasAnyRole reports whether r matches any of roles. An empty list accepts every role.
func (r Role) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, candidate := range roles {
		if r.Is(candidate) {
			return true
		}
	}
	return false
}

// User is the person behind a membership.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName prefers the first name and falls back to the local part of the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// Organization is a tenant (pharmacy) addressed in URLs by its name.
type Organization struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Type           string `json:"type,omitempty"`
	Email          string `json:"email,omitempty"`
	Website        string `json:"website,omitempty"`
	Description    string `json:"description,omitempty"`
	StreetAddress  string `json:"street_address,omitempty"`
	StreetAddress2 string `json:"street_address_2,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	PostalCode     string `json:"postal_code,omitempty"`
	Country        string `json:"country,omitempty"`
}

// Membership binds a user to an organization with a role.
type Membership struct {
	ID           string       `json:"id,omitempty"`
	Role         Role         `json:"role"`
	Organization Organization `json:"organization"`
	User         User         `json:"user"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	// Current is set by the API when this entry belongs to the caller.
	Current bool `json:"current,omitempty"`
}

// SelectCurrent picks the caller's membership from a members list.
// An entry flagged Current wins; otherwise the entry whose user email matches
// email (case-insensitively). The list position is never used.
func SelectCurrent(members []Membership, email string) (Membership, bool) {
	for _, m := range members {
		if m.Current {
			return m, true
		}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return Membership{}, false
	}
	for _, m := range members {
		if strings.EqualFold(strings.TrimSpace(m.User.Email), email) {
			return m, true
		}
	}
	return Membership{}, false
}

// Session is the server-side record persisted for a browser session.
// ID is the opaque identifier carried in the session cookie.
type Session struct {
	ID           string        `json:"id"`
	OrgName      string        `json:"org_name,omitempty"`
	Email        string        `json:"email,omitempty"`
	Loading      bool          `json:"loading"`
	LoadingSince time.Time     `json:"loading_since,omitzero"`
	User         *User         `json:"user,omitempty"`
	Membership   *Membership   `json:"membership,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
	RefreshedAt  time.Time     `json:"refreshed_at,omitzero"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

// IsAuthenticated is derived: a user and a membership are both present.
func (s Session) IsAuthenticated() bool { return s.User != nil && s.Membership != nil }

// IsLoading reports an in-flight login or refresh. A flag older than staleAfter
// is treated as finished so a crashed refresh cannot block pages forever.
func (s Session) IsLoading(now time.Time, staleAfter time.Duration) bool {
	if !s.Loading {
		return false
	}
	if staleAfter > 0 && !s.LoadingSince.IsZero() && now.Sub(s.LoadingSince) > staleAfter {
		return false
	}
	return true
}

// Role returns the current membership role or "" when there is none.
func (s Session) Role() Role {
	if s.Membership == nil {
		return ""
	}
	return s.Membership.Role
}

// Clear drops user, membership and organization.
func (s *Session) Clear() {
	s.User = nil
	s.Membership = nil
	s.Organization = nil
}
