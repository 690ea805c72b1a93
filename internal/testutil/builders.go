// Package testutil provides testing utilities and helpers for the PanAI console.
package testutil

import (
	"time"

	"github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
)

// SalesLeadRequestBuilder provides a fluent interface for building sales form submissions.
type SalesLeadRequestBuilder struct {
	req model.CreateSalesLeadRequest
}

// NewSalesLeadRequest creates a builder with every required field filled in.
func NewSalesLeadRequest() *SalesLeadRequestBuilder {
	return &SalesLeadRequestBuilder{
		req: model.CreateSalesLeadRequest{
			FirstName:     "Dana",
			LastName:      "Reyes",
			Email:         "dana@corner-rx.test",
			Role:          "owner",
			DecisionMaker: "yes",
			PharmacyName:  "Corner Rx",
			PharmacySize:  "independent",
		},
	}
}

// WithEmail sets the contact email.
func (b *SalesLeadRequestBuilder) WithEmail(email string) *SalesLeadRequestBuilder {
	b.req.Email = email
	return b
}

// WithPharmacy sets the pharmacy name and city.
func (b *SalesLeadRequestBuilder) WithPharmacy(name, city string) *SalesLeadRequestBuilder {
	b.req.PharmacyName = name
	b.req.PharmacyCity = city
	return b
}

// WithNotes sets free-form notes.
func (b *SalesLeadRequestBuilder) WithNotes(notes string) *SalesLeadRequestBuilder {
	b.req.Notes = notes
	return b
}

// Without blanks the named fields (firstName, lastName, email, role, decisionMaker, pharmacyName).
func (b *SalesLeadRequestBuilder) Without(fields ...string) *SalesLeadRequestBuilder {
	for _, f := range fields {
		switch f {
		case "firstName":
			b.req.FirstName = ""
		case "lastName":
			b.req.LastName = ""
		case "email":
			b.req.Email = ""
		case "role":
			b.req.Role = ""
		case "decisionMaker":
			b.req.DecisionMaker = ""
		case "pharmacyName":
			b.req.PharmacyName = ""
		}
	}
	return b
}

// Build returns the request.
func (b *SalesLeadRequestBuilder) Build() model.CreateSalesLeadRequest {
	return b.req
}

// MembershipBuilder builds memberships as the members endpoint returns them.
type MembershipBuilder struct {
	m auth.Membership
}

// NewMembership creates a membership of email in org with role.
func NewMembership(org, email string, role auth.Role) *MembershipBuilder {
	created := TestTime()
	return &MembershipBuilder{m: auth.Membership{
		ID:           "m-" + email,
		Role:         role,
		Organization: auth.Organization{ID: "org-" + org, Name: org, Type: "pharmacy"},
		User:         auth.User{ID: "u-" + email, Email: email},
		CreatedAt:    &created,
	}}
}

// Current flags the membership as the caller's.
func (b *MembershipBuilder) Current() *MembershipBuilder {
	b.m.Current = true
	return b
}

// Named sets the user's first and last name.
func (b *MembershipBuilder) Named(first, last string) *MembershipBuilder {
	b.m.User.FirstName = first
	b.m.User.LastName = last
	return b
}

// CreatedAt overrides the creation time.
func (b *MembershipBuilder) CreatedAt(t time.Time) *MembershipBuilder {
	b.m.CreatedAt = &t
	return b
}

// Build returns the membership.
func (b *MembershipBuilder) Build() auth.Membership {
	return b.m
}
