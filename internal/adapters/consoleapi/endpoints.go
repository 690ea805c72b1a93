package consoleapi

import (
	"context"
	"net/http"
	"net/url"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/ports"
)

// API paths. Login takes orgName; every other endpoint takes org_name.
const (
	loginPath         = "/api/auth/login/"
	membersPath       = "/api/auth/members/"
	settingsPath      = "/api/auth/settings/"
	conversationsPath = "/api/organization/active_conversation/"
	fulfillmentsPath  = "/api/organization/active_fulfillment/"
)

var _ ports.ConsoleAPI = (*Client)(nil)

func withQuery(path, key, value string) string {
	return path + "?" + url.Values{key: {value}}.Encode()
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for an API token. An empty token is returned
// as-is; callers decide what a missing token means.
func (c *Client) Login(ctx context.Context, orgName, email, password string) (string, error) {
	var resp loginResponse
	err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     withQuery(loginPath, "orgName", orgName),
		Body:     loginBody{Email: email, Password: password},
		Endpoint: "auth.login",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListMembers returns the organization's memberships.
func (c *Client) ListMembers(ctx context.Context, orgName string) ([]domainauth.Membership, error) {
	var members []domainauth.Membership
	if err := c.getEnvelope(ctx, withQuery(membersPath, "org_name", orgName), "auth.members", c.envelopes.members, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember invites a user into the organization.
func (c *Client) AddMember(ctx context.Context, orgName string, member model.NewMember) error {
	return c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     withQuery(membersPath, "org_name", orgName),
		Body:     model.NewMemberRequest{NewUser: member},
		Endpoint: "auth.members.add",
	}, nil)
}

// GetSettings returns the organization profile, or nil when the envelope is empty.
func (c *Client) GetSettings(ctx context.Context, orgName string) (*domainauth.Organization, error) {
	var org *domainauth.Organization
	if err := c.getEnvelope(ctx, withQuery(settingsPath, "org_name", orgName), "auth.settings", c.envelopes.settings, &org); err != nil {
		return nil, err
	}
	return org, nil
}

// UpdateSettings posts the camelCase settings body.
func (c *Client) UpdateSettings(ctx context.Context, orgName string, update model.OrganizationSettingsUpdate) error {
	return c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     withQuery(settingsPath, "org_name", orgName),
		Body:     update,
		Endpoint: "auth.settings.update",
	}, nil)
}

// ActiveConversations lists the organization's open calls.
func (c *Client) ActiveConversations(ctx context.Context, orgName string) ([]model.Conversation, error) {
	var out []model.Conversation
	if err := c.getEnvelope(ctx, withQuery(conversationsPath, "org_name", orgName), "organization.conversations", c.envelopes.conversations, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveFulfillments lists the organization's open fulfillments.
func (c *Client) ActiveFulfillments(ctx context.Context, orgName string) ([]model.Fulfillment, error) {
	var out []model.Fulfillment
	if err := c.getEnvelope(ctx, withQuery(fulfillmentsPath, "org_name", orgName), "organization.fulfillments", c.envelopes.conversations, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getEnvelope(ctx context.Context, path, endpoint, expr string, out any) error {
	var envelope any
	if err := c.Do(ctx, Request{Path: path, Endpoint: endpoint}, &envelope); err != nil {
		return err
	}
	if err := unwrap(envelope, expr, out); err != nil {
		c.logger.ErrorContext(ctx, "unexpected api envelope", "endpoint", endpoint, "error", err)
		return ErrInvalidJSON
	}
	return nil
}
