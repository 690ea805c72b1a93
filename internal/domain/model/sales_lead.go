package model

import (
	"strings"
	"time"
)

// SalesLead is a row of the sales_signups table.
type SalesLead struct {
	ID              string    `json:"id"                         db:"id"`
	FirstName       string    `json:"first_name"                 db:"first_name"`
	LastName        string    `json:"last_name"                  db:"last_name"`
	Email           string    `json:"email"                      db:"email"`
	Phone           *string   `json:"phone,omitempty"            db:"phone"`
	Role            string    `json:"role"                       db:"role"`
	DecisionMaker   string    `json:"decision_maker"             db:"decision_maker"`
	PharmacyName    string    `json:"pharmacy_name"              db:"pharmacy_name"`
	PharmacyAddress *string   `json:"pharmacy_address,omitempty" db:"pharmacy_address"`
	PharmacyCity    *string   `json:"pharmacy_city,omitempty"    db:"pharmacy_city"`
	PharmacyState   *string   `json:"pharmacy_state,omitempty"   db:"pharmacy_state"`
	PharmacyZip     *string   `json:"pharmacy_zip,omitempty"     db:"pharmacy_zip"`
	PharmacySize    *string   `json:"pharmacy_size,omitempty"    db:"pharmacy_size"`
	Notes           *string   `json:"notes,omitempty"            db:"notes"`
	CreatedAt       time.Time `json:"created_at"                 db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"                 db:"updated_at"`
}

// CreateSalesLeadRequest carries the sales form submission.
type CreateSalesLeadRequest struct {
	FirstName       string `json:"firstName"       label:"First name"             validate:"required"`
	LastName        string `json:"lastName"        label:"Last name"              validate:"required"`
	Email           string `json:"email"           label:"Email"                  validate:"required,email"`
	Phone           string `json:"phone"           label:"Phone"                  validate:"max=32"`
	Role            string `json:"role"            label:"Role selection"         validate:"required,oneof=owner pharmacist tech admin manager other"`
	DecisionMaker   string `json:"decisionMaker"   label:"Decision maker status"  validate:"required,oneof=yes influence no"`
	PharmacyName    string `json:"pharmacyName"    label:"Pharmacy name"          validate:"required,max=255"`
	PharmacyAddress string `json:"pharmacyAddress"`
	PharmacyCity    string `json:"pharmacyCity"`
	PharmacyState   string `json:"pharmacyState"`
	PharmacyZip     string `json:"pharmacyZip"`
	PharmacySize    string `json:"pharmacySize"    label:"Pharmacy size"          validate:"omitempty,oneof=independent small-chain regional-chain large-chain"`
	Notes           string `json:"notes"           label:"Notes"                  validate:"max=4000"`
}

// Normalize trims whitespace from every field.
func (r *CreateSalesLeadRequest) Normalize() {
	for _, f := range []*string{
		&r.FirstName, &r.LastName, &r.Email, &r.Phone, &r.Role, &r.DecisionMaker,
		&r.PharmacyName, &r.PharmacyAddress, &r.PharmacyCity, &r.PharmacyState,
		&r.PharmacyZip, &r.PharmacySize, &r.Notes,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Lead converts the request into a row; blank optional fields become NULL.
func (r *CreateSalesLeadRequest) Lead() SalesLead {
	return SalesLead{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           optional(r.Phone),
		Role:            r.Role,
		DecisionMaker:   r.DecisionMaker,
		PharmacyName:    r.PharmacyName,
		PharmacyAddress: optional(r.PharmacyAddress),
		PharmacyCity:    optional(r.PharmacyCity),
		PharmacyState:   optional(r.PharmacyState),
		PharmacyZip:     optional(r.PharmacyZip),
		PharmacySize:    optional(r.PharmacySize),
		Notes:           optional(r.Notes),
	}
}

// SalesLeadListOptions controls paging for listing leads.
type SalesLeadListOptions struct {
	Limit  int
	Offset int
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
