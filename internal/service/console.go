package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/http/validation"
	"github.com/panai/console/internal/ports"
)

// User-facing outcomes of console operations.
const (
	MsgLoadFailed          = "Failed to load data. Please try again."
	MsgSettingsLoadFailed  = "Failed to load organization settings"
	MsgSettingsSaved       = "Organization settings updated successfully!"
	MsgSettingsSaveFailed  = "Failed to save settings. Please try again."
	MsgMemberAdded         = "Member added successfully!"
	MsgMemberAddFailed     = "Failed to add member. Please try again."
	MsgSampleDataDisplayed = "Showing sample data because live data could not be loaded."
)

// Conversation page tabs.
const (
	TabConversations = "conversations"
	TabFulfillments  = "fulfillments"
)

// ConsoleServiceOptions groups dependencies for ConsoleService.
type ConsoleServiceOptions struct {
	// SampleDataFallback shows sample conversations when the API fails.
	SampleDataFallback bool
	Validator          *validation.Validator
	Logger             *slog.Logger
	Now                func() time.Time
}

// ConsoleService backs the organization pages. Every call goes to the API
// client bound to the caller's session.
type ConsoleService struct {
	sampleFallback bool
	validator      *validation.Validator
	logger         *slog.Logger
	now            func() time.Time
}

// NewConsoleService constructs a ConsoleService.
func NewConsoleService(opts ConsoleServiceOptions) *ConsoleService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := opts.Validator
	if v == nil {
		v = validation.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ConsoleService{
		sampleFallback: opts.SampleDataFallback,
		validator:      v,
		logger:         logger.With("component", "console"),
		now:            now,
	}
}

// DashboardSummary feeds the dashboard cards.
type DashboardSummary struct {
	MemberCount int
	// MembersLoaded is false when the member count could not be fetched.
	MembersLoaded bool
}

// Dashboard counts the organization's members. Failures are logged and leave
// the count at zero.
func (s *ConsoleService) Dashboard(ctx context.Context, api ports.ConsoleAPI, orgName string) DashboardSummary {
	members, err := api.ListMembers(ctx, orgName)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load member count", "org", orgName, "error", err)
		return DashboardSummary{}
	}
	return DashboardSummary{MemberCount: len(members), MembersLoaded: true}
}

// ConversationsView is the data of one conversations page tab.
type ConversationsView struct {
	Tab           string
	Conversations []model.Conversation
	Fulfillments  []model.Fulfillment
	// Error is set when the live data failed to load.
	Error string
	// Sample is true when the lists hold placeholder data.
	Sample bool
}

// NormalizeTab maps unknown tab names to the conversations tab.
func NormalizeTab(tab string) string {
	if strings.EqualFold(strings.TrimSpace(tab), TabFulfillments) {
		return TabFulfillments
	}
	return TabConversations
}

// Conversations loads the active conversations or fulfillments of the organization.
func (s *ConsoleService) Conversations(ctx context.Context, api ports.ConsoleAPI, orgName, tab string) ConversationsView {
	view := ConversationsView{Tab: NormalizeTab(tab)}

	var err error
	if view.Tab == TabFulfillments {
		view.Fulfillments, err = api.ActiveFulfillments(ctx, orgName)
	} else {
		view.Conversations, err = api.ActiveConversations(ctx, orgName)
	}
	if err == nil {
		return view
	}

	s.logger.WarnContext(ctx, "failed to load conversations", "org", orgName, "tab", view.Tab, "error", err)
	view.Error = MsgLoadFailed
	// A rejected token ends the session; sample data would hide that.
	if s.sampleFallback && !isUnauthorized(err) {
		view.Sample = true
		now := s.now()
		if view.Tab == TabFulfillments {
			view.Fulfillments = model.SampleFulfillments(now)
		} else {
			view.Conversations = model.SampleConversations(now)
		}
	}
	return view
}

// SettingsView is the data of the settings page.
type SettingsView struct {
	Organization *domainauth.Organization
	Members      []domainauth.Membership
	Error        string
}

// Settings loads the organization profile and its members.
func (s *ConsoleService) Settings(ctx context.Context, api ports.ConsoleAPI, orgName string) SettingsView {
	var view SettingsView
	org, err := api.GetSettings(ctx, orgName)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load organization settings", "org", orgName, "error", err)
		view.Error = MsgSettingsLoadFailed
	}
	view.Organization = org
	view.Members = s.Members(ctx, api, orgName)
	return view
}

// Members lists the organization's members; failures yield an empty list.
func (s *ConsoleService) Members(ctx context.Context, api ports.ConsoleAPI, orgName string) []domainauth.Membership {
	members, err := api.ListMembers(ctx, orgName)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load members", "org", orgName, "error", err)
		return nil
	}
	return members
}

// Outcome is the banner shown after a form submission.
type Outcome struct {
	Success string
	Error   string
	// Fields holds inline validation messages keyed by form field.
	Fields validation.FieldErrors
}

// OK reports whether the submission succeeded.
func (o Outcome) OK() bool { return o.Error == "" && len(o.Fields) == 0 }

// SaveSettings validates and posts the organization profile.
func (s *ConsoleService) SaveSettings(ctx context.Context, api ports.ConsoleAPI, orgName string, update model.OrganizationSettingsUpdate) Outcome {
	update.Normalize()
	if err := s.validator.Struct(update); err != nil {
		return Outcome{Error: MsgSettingsSaveFailed, Fields: validation.Fields(err)}
	}
	if err := api.UpdateSettings(ctx, orgName, update); err != nil {
		s.logger.ErrorContext(ctx, "failed to save settings", "org", orgName, "error", err)
		return Outcome{Error: MsgSettingsSaveFailed}
	}
	s.logger.InfoContext(ctx, "organization settings updated", "org", orgName)
	return Outcome{Success: MsgSettingsSaved}
}

// AddMember invites a member. A blank email is ignored.
func (s *ConsoleService) AddMember(ctx context.Context, api ports.ConsoleAPI, orgName string, member model.NewMember) Outcome {
	member.Email = strings.TrimSpace(member.Email)
	member.Role = strings.ToLower(strings.TrimSpace(member.Role))
	if member.Email == "" {
		return Outcome{}
	}
	if member.Role == "" {
		member.Role = string(domainauth.RoleMember)
	}
	if err := s.validator.Struct(member); err != nil {
		return Outcome{Error: MsgMemberAddFailed, Fields: validation.Fields(err)}
	}
	if err := api.AddMember(ctx, orgName, member); err != nil {
		s.logger.ErrorContext(ctx, "failed to add member", "org", orgName, "error", err)
		return Outcome{Error: MsgMemberAddFailed}
	}
	s.logger.InfoContext(ctx, "member added", "org", orgName, "role", member.Role)
	return Outcome{Success: MsgMemberAdded}
}
