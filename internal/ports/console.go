package ports

import (
	"context"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
)

// ConsoleAPI is the remote PanAI API as used by the console.
type ConsoleAPI interface {
	Login(ctx context.Context, orgName, email, password string) (string, error)
	ListMembers(ctx context.Context, orgName string) ([]domainauth.Membership, error)
	AddMember(ctx context.Context, orgName string, member model.NewMember) error
	GetSettings(ctx context.Context, orgName string) (*domainauth.Organization, error)
	UpdateSettings(ctx context.Context, orgName string, update model.OrganizationSettingsUpdate) error
	ActiveConversations(ctx context.Context, orgName string) ([]model.Conversation, error)
	ActiveFulfillments(ctx context.Context, orgName string) ([]model.Fulfillment, error)
}

// ConsoleAPIFactory binds the API client to a session's token.
type ConsoleAPIFactory func(tokens TokenSource) ConsoleAPI

// LeadStore persists sales leads.
type LeadStore interface {
	Create(ctx context.Context, lead *model.SalesLead) error
	List(ctx context.Context, opts model.SalesLeadListOptions) ([]model.SalesLead, error)
}

// LeadNotifier announces a newly captured lead.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead model.SalesLead) error
}
