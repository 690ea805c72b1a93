//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// Priority of a conversation or fulfillment as reported by the API.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Normalized returns the lowercased priority.
func (p Priority) Normalized() Priority {
	return Priority(strings.ToLower(strings.TrimSpace(string(p))))
}

// FulfillmentType distinguishes prescription from over-the-counter requests.
type FulfillmentType string

const (
	FulfillmentTypePrescription FulfillmentType = "PRESCRIPTION"
	FulfillmentTypeOTC          FulfillmentType = "OTC"
)

// Normalized returns the uppercased fulfillment type.
func (t FulfillmentType) Normalized() FulfillmentType {
	return FulfillmentType(strings.ToUpper(strings.TrimSpace(string(t))))
}

// Patient is the caller a conversation or fulfillment is about.
type Patient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Conversation is an active patient call.
type Conversation struct {
	ID              string          `json:"id"`
	Medications     string          `json:"medication_s"`
	CallerPhone     string          `json:"caller_phone"`
	CallInAt        time.Time       `json:"call_in_at"`
	CallOutAt       *time.Time      `json:"call_out_at,omitempty"`
	Priority        Priority        `json:"priority"`
	FulfillmentType FulfillmentType `json:"fulfillment_type"`
	Patient         Patient         `json:"patient"`
}

// FulfillmentStatus is one entry of a fulfillment's status history.
type FulfillmentStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// FulfillmentConversation is the slice of the originating call kept on a fulfillment.
type FulfillmentConversation struct {
	CallerPhone string `json:"caller_phone"`
}

// Fulfillment is a medication request produced by a conversation.
type Fulfillment struct {
	ID              string                   `json:"id"`
	Medication      string                   `json:"medication"`
	Description     string                   `json:"description,omitempty"`
	FulfillmentType FulfillmentType          `json:"fulfillment_type"`
	Priority        Priority                 `json:"priority"`
	Patient         *Patient                 `json:"patient,omitempty"`
	Conversation    *FulfillmentConversation `json:"conversation,omitempty"`
	Statuses        []FulfillmentStatus      `json:"statuses"`
}

// LatestStatus returns the most recent status entry, if any.
func (f Fulfillment) LatestStatus() (FulfillmentStatus, bool) {
	if len(f.Statuses) == 0 {
		return FulfillmentStatus{}, false
	}
	latest := f.Statuses[0]
	for _, s := range f.Statuses[1:] {
		if s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	return latest, true
}

// SampleConversations is shown when the API cannot be reached.
func SampleConversations(now time.Time) []Conversation {
	return []Conversation{
		{
			ID:              "1",
			Medications:     "Ibuprofen 200mg",
			CallerPhone:     "+1234567890",
			CallInAt:        now.Add(-5 * time.Minute),
			Priority:        PriorityMedium,
			FulfillmentType: FulfillmentTypeOTC,
			Patient:         Patient{Name: "John Doe", Email: "john@example.com", Phone: "+1234567890"},
		},
		{
			ID:              "2",
			Medications:     "Prescription Refill - Metformin",
			CallerPhone:     "+1987654321",
			CallInAt:        now.Add(-15 * time.Minute),
			Priority:        PriorityHigh,
			FulfillmentType: FulfillmentTypePrescription,
			Patient:         Patient{Name: "Jane Smith", Email: "jane@example.com"},
		},
	}
}

// SampleFulfillments is shown when the API cannot be reached.
func SampleFulfillments(now time.Time) []Fulfillment {
	return []Fulfillment{
		{
			ID:              "1",
			Medication:      "Ibuprofen 200mg",
			Description:     "Pain relief medication",
			FulfillmentType: FulfillmentTypeOTC,
			Priority:        PriorityMedium,
			Patient:         &Patient{Name: "John Doe", Email: "john@example.com"},
			Conversation:    &FulfillmentConversation{CallerPhone: "+1234567890"},
			Statuses:        []FulfillmentStatus{{Status: "PENDING", Timestamp: now.Add(-10 * time.Minute)}},
		},
	}
}
