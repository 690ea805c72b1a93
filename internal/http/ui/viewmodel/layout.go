package viewmodel

import (
	"net/url"

	domainauth "github.com/panai/console/internal/domain/auth"
)

// User represents the signed-in user exposed to templates.
type User struct {
	Email    string
	Name     string
	Role     string
	Initials string
}

// NavItem is one entry of the organization navigation bar.
type NavItem struct {
	Label  string
	Path   string
	Page   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	OrgName         string
	OrgDisplayName  string
	IsAuthenticated bool
	User            *User
	Nav             []NavItem
	// EventsPath is the session event stream the page subscribes to, if any.
	EventsPath string
}

// EditorRoles may change organization settings and add members. Everyone else
// sees those pages read-only.
var EditorRoles = []domainauth.Role{domainauth.RoleAdmin}

// OrgNav builds the navigation bar of an organization. Every member sees every page.
func OrgNav(orgName, currentPage string) []NavItem {
	base := "/" + url.PathEscape(orgName)
	items := []NavItem{
		{Label: "Dashboard", Path: base + "/dashboard", Page: "dashboard"},
		{Label: "Conversations", Path: base + "/conversations", Page: "conversations"},
		{Label: "Members", Path: base + "/members", Page: "members"},
		{Label: "Settings", Path: base + "/settings", Page: "settings"},
	}
	for i := range items {
		items[i].Active = items[i].Page == currentPage
	}
	return items
}
