package model

import "strings"

// OrganizationSettingsUpdate is the body posted to the settings endpoint.
// Keys are camelCase as the API expects.
type OrganizationSettingsUpdate struct {
	PhoneNumber   string `json:"phoneNumber"   label:"Phone number" validate:"omitempty,max=32"`
	Email         string `json:"email"         label:"Email" validate:"omitempty,email"`
	Website       string `json:"website"       label:"Website" validate:"omitempty,website"`
	Description   string `json:"description"   label:"Description" validate:"omitempty,max=2000"`
	StreetAddress string `json:"streetAddress" label:"Street address" validate:"omitempty,max=255"`
	City          string `json:"city"          label:"City" validate:"omitempty,max=120"`
	State         string `json:"state"         label:"State" validate:"omitempty,max=120"`
	PostalCode    string `json:"postalCode"    label:"Postal code" validate:"omitempty,max=20"`
	Country       string `json:"country"       label:"Country" validate:"omitempty,max=120"`
}

// Normalize trims whitespace from every field.
func (u *OrganizationSettingsUpdate) Normalize() {
	for _, f := range []*string{
		&u.PhoneNumber, &u.Email, &u.Website, &u.Description,
		&u.StreetAddress, &u.City, &u.State, &u.PostalCode, &u.Country,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// NewMemberRequest is the body posted to add a member.
type NewMemberRequest struct {
	NewUser NewMember `json:"newUser"`
}

// NewMember identifies the invitee and their role.
type NewMember struct {
	Email string `json:"email" label:"Email" validate:"required,email"`
	Role  string `json:"role"  label:"Role"  validate:"required,oneof=member admin"`
}
