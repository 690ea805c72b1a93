package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageHome          = "home"
	PageSales         = "sales"
	PageLogin         = "login"
	PageUnauthorized  = "unauthorized"
	PageLoading       = "loading"
	PageNotFound      = "not-found"
	PageError         = "error"
	PageDashboard     = "dashboard"
	PageConversations = "conversations"
	PageSettings      = "settings"
	PageMembers       = "members"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
	StaticPathFromTest   = "../../frontend/static"
)

// Form field names shared by templates and handlers.
const (
	fieldEmail    = "email"
	fieldPassword = "password"
	fieldOrgName  = "orgName"
	fieldTab      = "tab"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:          "home-content",
	PageSales:         "sales-content",
	PageLogin:         "login-content",
	PageUnauthorized:  "unauthorized-content",
	PageLoading:       "loading-content",
	PageNotFound:      "not-found-content",
	PageError:         "error-content",
	PageDashboard:     "dashboard-content",
	PageConversations: "conversations-content",
	PageSettings:      "settings-content",
	PageMembers:       "members-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages render the not-found content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "not-found-content"
}
