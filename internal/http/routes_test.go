package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/panai/console/internal/adapters/consoleapi"
	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
	apperrors "github.com/panai/console/internal/errors"
	"github.com/panai/console/internal/mocks"
	mockauth "github.com/panai/console/internal/mocks/auth"
	"github.com/panai/console/internal/ports"
	"github.com/panai/console/internal/service"
	"github.com/panai/console/internal/testutil"
)

const testCSRFToken = "test-csrf-token"

type fakeLeads struct {
	got []model.CreateSalesLeadRequest
	err error
}

func (f *fakeLeads) Submit(_ context.Context, req model.CreateSalesLeadRequest) (*model.SalesLead, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	lead := req.Lead()
	lead.ID = "lead-1"
	return &lead, nil
}

type routerFixture struct {
	api      *mocks.MockConsoleAPI
	sessions *mockauth.MemorySessionStore
	tokens   *mockauth.MemoryTokenStore
	leads    *fakeLeads
	handler  http.Handler
	now      time.Time
}

func newRouterFixture(t *testing.T, checks ...HealthCheck) *routerFixture {
	t.Helper()
	return newRouterFixtureWithAPI(t, nil, checks...)
}

// newRouterFixtureWithAPI routes session API calls through factory instead of
// the gomock client when factory is set.
func newRouterFixtureWithAPI(t *testing.T, factory ports.ConsoleAPIFactory, checks ...HealthCheck) *routerFixture {
	t.Helper()
	SkipIfNoTemplates(t)

	ctrl := gomock.NewController(t)
	f := &routerFixture{
		api:      mocks.NewMockConsoleAPI(ctrl),
		sessions: mockauth.NewMemorySessionStore(),
		tokens:   mockauth.NewMemoryTokenStore(),
		leads:    &fakeLeads{},
		now:      testutil.TestTime(),
	}
	now := func() time.Time { return f.now }
	if factory == nil {
		factory = func(ports.TokenSource) ports.ConsoleAPI { return f.api }
	}

	manager := service.NewSessionManager(service.SessionManagerOptions{
		Sessions: f.sessions,
		Tokens:   f.tokens,
		API:      factory,
		Now:      now,
	})
	console := service.NewConsoleService(service.ConsoleServiceOptions{SampleDataFallback: true, Now: now})

	handler, err := NewRouter(RouterServices{
		Sessions:          manager,
		Console:           console,
		Leads:             f.leads,
		HealthChecks:      checks,
		SessionCookie:     SessionCookieConfig{Name: DefaultSessionCookieName, MaxAge: time.Hour},
		SessionPolicy:     SessionPolicy{Lifetime: 720 * time.Hour, RefreshInterval: 5 * time.Minute, LoadingStaleAfter: 2 * time.Minute},
		RateLimiter:       NewRateLimiter(RateLimitOptions{Rate: 100, Burst: 100}),
		HeartbeatInterval: time.Minute,
		TemplateFS:        os.DirFS(TemplatePathFromTest),
		StaticFS:          os.DirFS(StaticPathFromTest),
		Now:               now,
	})
	require.NoError(t, err)
	f.handler = handler
	return f
}

// seed stores an authenticated session for org with role and returns its id.
func (f *routerFixture) seed(t *testing.T, org string, role domainauth.Role) string {
	t.Helper()
	m := testutil.NewMembership(org, "pat@"+org+".test", role).Named("Pat", "Doe").Build()
	user := m.User
	orgCopy := m.Organization
	rec := domainauth.Session{
		ID:           "sess-" + string(role),
		OrgName:      org,
		Email:        user.Email,
		User:         &user,
		Membership:   &m,
		Organization: &orgCopy,
		RefreshedAt:  f.now,
		ExpiresAt:    f.now.Add(time.Hour),
	}
	require.NoError(t, f.sessions.Save(context.Background(), rec))
	require.NoError(t, f.tokens.Set(context.Background(), rec.ID, "tok-"+rec.ID))
	return rec.ID
}

func (f *routerFixture) get(path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return f.serve(req, sessionID)
}

func (f *routerFixture) postForm(path, sessionID string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.serve(req, sessionID)
}

func (f *routerFixture) serve(req *http.Request, sessionID string) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == DefaultSessionCookieName {
			return c.Value
		}
	}
	return ""
}

func TestNewRouter_RequiresSessions(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	require.Error(t, err)
}

func TestRouter_HomeAndNotFound(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Talk to Sales")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = f.get("/beta/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestRouter_StaticAssets(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/static/css/app.css", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))

	w = f.get("/static/js/missing.js", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_OrgRootRedirectsToDashboard(t *testing.T) {
	f := newRouterFixture(t)
	w := f.get("/beta", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/dashboard", w.Header().Get("Location"))
}

func TestRouter_GuardRedirectsAnonymousToOrgLogin(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/beta/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/login", w.Header().Get("Location"))
	assert.NotEmpty(t, sessionCookie(w), "new sessions get a cookie")
}

func TestRouter_GuardUsesHXRedirectForHTMX(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/beta/conversations", nil)
	req.Header.Set("Hx-Request", "true")
	w := f.serve(req, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/beta/login", w.Header().Get("Hx-Redirect"))
}

func TestRouter_LoginFlow(t *testing.T) {
	f := newRouterFixture(t)
	members := []domainauth.Membership{
		testutil.NewMembership("beta", "other@beta.test", domainauth.RoleAdmin).Build(),
		testutil.NewMembership("beta", "pat@beta.test", "Manager").Named("Pat", "Doe").Build(),
	}

	f.api.EXPECT().Login(gomock.Any(), "beta", "pat@beta.test", "secret").Return("tok-1", nil)
	f.api.EXPECT().ListMembers(gomock.Any(), "beta").Return(members, nil).Times(2)
	f.api.EXPECT().GetSettings(gomock.Any(), "beta").Return(&domainauth.Organization{Name: "Beta Pharmacy"}, nil)

	w := f.postForm("/beta/login", "", url.Values{"email": {"pat@beta.test"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/beta/dashboard", w.Header().Get("Location"))

	id := sessionCookie(w)
	require.NotEmpty(t, id)
	tok, ok, err := f.tokens.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", tok)

	w = f.get("/beta/dashboard", id)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{"Welcome, Pat", "Beta Pharmacy", "Members", "Settings"}), body)
}

func TestRouter_GenericLoginRequiresOrganization(t *testing.T) {
	f := newRouterFixture(t)

	w := f.postForm("/login", "", url.Values{"email": {"pat@beta.test"}, "password": {"secret"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Organization is required.")
}

func TestRouter_GenericLoginUsesOrganizationField(t *testing.T) {
	f := newRouterFixture(t)
	f.api.EXPECT().Login(gomock.Any(), "gamma", "pat@gamma.test", "pw").Return("tok", nil)
	f.api.EXPECT().ListMembers(gomock.Any(), "gamma").Return(nil, nil)
	f.api.EXPECT().GetSettings(gomock.Any(), "gamma").Return(nil, nil)

	w := f.postForm("/login", "", url.Values{
		"orgName": {" gamma "}, "email": {"pat@gamma.test"}, "password": {"pw"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/gamma/dashboard", w.Header().Get("Location"))
}

func TestRouter_LoginShowsAPIError(t *testing.T) {
	f := newRouterFixture(t)
	f.api.EXPECT().Login(gomock.Any(), "beta", "pat@beta.test", "bad").
		Return("", &consoleapi.APIError{Status: http.StatusBadRequest, Message: "Invalid credentials"})

	w := f.postForm("/beta/login", "", url.Values{"email": {"pat@beta.test"}, "password": {"bad"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestRouter_LoginWithoutTokenShowsMessage(t *testing.T) {
	f := newRouterFixture(t)
	f.api.EXPECT().Login(gomock.Any(), "beta", "pat@beta.test", "pw").Return("", nil)

	w := f.postForm("/beta/login", "", url.Values{"email": {"pat@beta.test"}, "password": {"pw"}})
	assert.Contains(t, w.Body.String(), "no token received from server")
}

func TestRouter_LoginRejectsMissingCSRF(t *testing.T) {
	f := newRouterFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/beta/login", strings.NewReader("email=a%40b.c&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AuthenticatedLoginPageRedirects(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleMember)

	w := f.get("/beta/login", id)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/dashboard", w.Header().Get("Location"))
}

func TestRouter_RoleGuard(t *testing.T) {
	f := newRouterFixture(t)
	member := f.seed(t, "beta", "Member")

	w := f.postForm("/beta/settings", member, url.Values{"city": {"Springfield"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/unauthorized", w.Header().Get("Location"))

	w = f.postForm("/beta/members", member, url.Values{"email": {"new@beta.test"}, "role": {"member"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/unauthorized", w.Header().Get("Location"))

	w = f.get("/beta/unauthorized", member)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
}

func TestRouter_ManagerCannotEdit(t *testing.T) {
	f := newRouterFixture(t)
	manager := f.seed(t, "beta", domainauth.RoleManager)

	w := f.postForm("/beta/settings", manager, url.Values{"city": {"Springfield"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/unauthorized", w.Header().Get("Location"))
}

func TestRouter_MembersSeeSettingsReadOnly(t *testing.T) {
	f := newRouterFixture(t)
	member := f.seed(t, "beta", domainauth.RoleMember)
	f.api.EXPECT().GetSettings(gomock.Any(), "beta").Return(&domainauth.Organization{Name: "Beta", City: "Springfield"}, nil)
	f.api.EXPECT().ListMembers(gomock.Any(), "beta").Return([]domainauth.Membership{
		testutil.NewMembership("beta", "pat@beta.test", domainauth.RoleMember).Build(),
	}, nil).Times(2)

	w := f.get("/beta/settings", member)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"<fieldset disabled>", `value="Springfield"`, "permission to edit organization settings", "pat@beta.test",
	}), body)
	assert.NotContains(t, body, "Save changes")
	assert.NotContains(t, body, "Session lifetime")

	w = f.get("/beta/members", member)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "pat@beta.test")
	assert.NotContains(t, body, "Add member")
	assert.True(t, ContainsAll(body, []string{`href="/beta/members"`, `href="/beta/settings"`}), body)
}

func TestRouter_AdminRoleIsCaseInsensitive(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.seed(t, "beta", "ADMIN")
	f.api.EXPECT().ListMembers(gomock.Any(), "beta").Return(nil, nil)

	w := f.get("/beta/members", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{"No members found.", "Add member", `<option value="admin"`}), body)
	assert.NotContains(t, body, `<option value="manager"`)
}

func TestRouter_LoadingSessionShowsLoadingPage(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleAdmin)
	rec, err := f.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	rec.Loading = true
	rec.LoadingSince = f.now
	require.NoError(t, f.sessions.Save(context.Background(), rec))

	w := f.get("/beta/dashboard", id)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ContainsAll(w.Body.String(), []string{"Loading your organization", `http-equiv="refresh"`}))
}

func TestRouter_SessionSwitchesOrganization(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleAdmin)

	// The token survives the switch, so the new organization is refreshed.
	f.api.EXPECT().ListMembers(gomock.Any(), "gamma").Return(nil, nil)
	f.api.EXPECT().GetSettings(gomock.Any(), "gamma").Return(nil, nil)

	w := f.get("/gamma/dashboard", id)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/gamma/login", w.Header().Get("Location"))

	rec, err := f.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "gamma", rec.OrgName)
	assert.False(t, rec.IsAuthenticated())
}

func TestRouter_Logout(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleAdmin)

	w := f.postForm("/beta/logout", id, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/login", w.Header().Get("Location"))

	_, ok, err := f.tokens.Get(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRouter_ConversationsFallBackToSampleData(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleMember)
	f.api.EXPECT().ActiveConversations(gomock.Any(), "beta").Return(nil, errors.New("connection refused"))

	w := f.get("/beta/conversations", id)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{
		service.MsgLoadFailed, service.MsgSampleDataDisplayed, "Ibuprofen 200mg", "5m ago",
	}), body)
}

// newRejectingAPI serves 401 for every call and counts the calls.
func newRejectingAPI(t *testing.T) (ports.ConsoleAPIFactory, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	t.Cleanup(srv.Close)

	client, err := consoleapi.New(consoleapi.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return func(ts ports.TokenSource) ports.ConsoleAPI { return client.WithTokens(ts) }, &calls
}

func TestRouter_RejectedTokenLeavesPage(t *testing.T) {
	tests := []struct {
		name string
		path string
		htmx bool
	}{
		{name: "dashboard", path: "/beta/dashboard"},
		{name: "conversations", path: "/beta/conversations"},
		{name: "settings", path: "/beta/settings"},
		{name: "members", path: "/beta/members"},
		{name: "htmx fulfillments", path: "/beta/conversations?tab=fulfillments", htmx: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, calls := newRejectingAPI(t)
			f := newRouterFixtureWithAPI(t, factory)
			id := f.seed(t, "beta", domainauth.RoleAdmin)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.htmx {
				req.Header.Set("Hx-Request", "true")
			}
			w := f.serve(req, id)

			assert.Positive(t, calls.Load())
			if tt.htmx {
				assert.Equal(t, http.StatusNoContent, w.Code)
				assert.Equal(t, "/login", w.Header().Get("Hx-Redirect"))
			} else {
				assert.Equal(t, http.StatusSeeOther, w.Code)
				assert.Equal(t, "/login", w.Header().Get("Location"))
			}
			assert.NotContains(t, w.Body.String(), service.MsgSampleDataDisplayed)

			_, ok, err := f.tokens.Get(context.Background(), id)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRouter_LoginRejectedWith401GoesToGenericLogin(t *testing.T) {
	factory, calls := newRejectingAPI(t)
	f := newRouterFixtureWithAPI(t, factory)

	w := f.postForm("/beta/login", "", url.Values{"email": {"pat@beta.test"}, "password": {"bad"}})
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRouter_RejectedTokenDropsIdentityOnNextRequest(t *testing.T) {
	factory, _ := newRejectingAPI(t)
	f := newRouterFixtureWithAPI(t, factory)
	id := f.seed(t, "beta", domainauth.RoleAdmin)

	w := f.get("/beta/dashboard", id)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = f.get("/beta/dashboard", id)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/beta/login", w.Header().Get("Location"))

	w = f.get("/beta/login", id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_FulfillmentsTabPartial(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleMember)
	f.api.EXPECT().ActiveFulfillments(gomock.Any(), "beta").Return([]model.Fulfillment{{
		ID:              "f1",
		Medication:      "Amoxicillin",
		FulfillmentType: "prescription",
		Priority:        "HIGH",
		Statuses:        []model.FulfillmentStatus{{Status: "PENDING", Timestamp: f.now.Add(-2 * time.Hour)}},
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/beta/conversations?tab=fulfillments", nil)
	req.Header.Set("Hx-Request", "true")
	w := f.serve(req, id)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<title>Conversations</title>"), body)
	assert.NotContains(t, body, "<html")
	assert.True(t, ContainsAll(body, []string{"Amoxicillin", "Prescription", "badge-danger", "Pending", "2h ago"}), body)
}

func TestRouter_SaveSettings(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleAdmin)

	f.api.EXPECT().UpdateSettings(gomock.Any(), "beta", model.OrganizationSettingsUpdate{
		PhoneNumber: "555-0100",
		Website:     "https://beta.example",
		City:        "Springfield",
	}).Return(nil)
	f.api.EXPECT().GetSettings(gomock.Any(), "beta").Return(&domainauth.Organization{Name: "Beta", City: "Springfield"}, nil)
	f.api.EXPECT().ListMembers(gomock.Any(), "beta").Return(nil, nil)

	w := f.postForm("/beta/settings", id, url.Values{
		"phoneNumber": {" 555-0100 "}, "website": {"https://beta.example"}, "city": {"Springfield"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgSettingsSaved)
}

func TestRouter_SaveSettingsKeepsInvalidInput(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleAdmin)
	f.api.EXPECT().GetSettings(gomock.Any(), "beta").Return(&domainauth.Organization{Name: "Beta"}, nil)
	f.api.EXPECT().ListMembers(gomock.Any(), "beta").Return(nil, nil)

	w := f.postForm("/beta/settings", id, url.Values{"email": {"not-an-email"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{
		service.MsgSettingsSaveFailed, "Please enter a valid email address", `value="not-an-email"`,
	}), body)
}

func TestRouter_SettingsSecurityPanelIsAdminOnly(t *testing.T) {
	tests := []struct {
		role domainauth.Role
		want bool
	}{
		{role: domainauth.RoleAdmin, want: true},
		{role: domainauth.RoleManager, want: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			f := newRouterFixture(t)
			id := f.seed(t, "beta", tt.role)
			f.api.EXPECT().GetSettings(gomock.Any(), "beta").Return(&domainauth.Organization{Name: "Beta"}, nil)
			f.api.EXPECT().ListMembers(gomock.Any(), "beta").Return(nil, nil)

			w := f.get("/beta/settings", id)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			if tt.want {
				assert.True(t, ContainsAll(body, []string{"Session lifetime", "720h0m0s", "every 5m0s", "2m0s", "Save changes"}), body)
				return
			}
			assert.NotContains(t, body, "Session lifetime")
			assert.Contains(t, body, "permission to edit organization settings")
		})
	}
}

func TestRouter_AddMember(t *testing.T) {
	f := newRouterFixture(t)
	id := f.seed(t, "beta", domainauth.RoleAdmin)
	f.api.EXPECT().AddMember(gomock.Any(), "beta", model.NewMember{Email: "new@beta.test", Role: "admin"}).Return(nil)
	f.api.EXPECT().ListMembers(gomock.Any(), "beta").Return([]domainauth.Membership{
		testutil.NewMembership("beta", "new@beta.test", domainauth.RoleAdmin).Build(),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/beta/members",
		strings.NewReader(url.Values{"email": {"new@beta.test"}, "role": {"Admin"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Hx-Request", "true")
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	w := f.serve(req, id)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgMemberAdded)
	assert.Contains(t, w.Body.String(), "new@beta.test")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "showToast")
}

func TestRouter_SalesForm(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/sales", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pharmacy Technician")

	req := testutil.NewSalesLeadRequest().Build()
	form := url.Values{
		"firstName": {req.FirstName}, "lastName": {req.LastName}, "email": {req.Email},
		"role": {req.Role}, "decisionMaker": {req.DecisionMaker}, "pharmacyName": {req.PharmacyName},
	}
	w = f.postForm("/sales", "", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Submit Another Form")
	require.Len(t, f.leads.got, 1)
	assert.Equal(t, req.Email, f.leads.got[0].Email)
}

func TestRouter_SalesFormShowsFieldErrors(t *testing.T) {
	f := newRouterFixture(t)
	f.leads.err = apperrors.ValidationFields("Please correct the highlighted fields.", map[string]string{
		"firstName": "First name is required",
	})

	w := f.postForm("/sales", "", url.Values{"lastName": {"Doe"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{"First name is required", `value="Doe"`}), body)
	assert.NotContains(t, body, "Submit Another Form")
}

func TestRouter_SalesJSON(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(
		`{"firstName":"Ana","lastName":"Ruiz","email":"ana@pharm.test","role":"owner","decisionMaker":"yes","pharmacyName":"Ruiz Rx"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	w := f.serve(req, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"lead-1"`)

	f.leads.err = apperrors.ValidationFields("Please correct the highlighted fields.", map[string]string{"email": "Email is required"})
	req = httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"firstName":"Ana"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	w = f.serve(req, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"fields":{"email":"Email is required"}`)
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t,
		HealthCheck{Name: "redis", Check: func(context.Context) error { return nil }},
		HealthCheck{Name: "leads_db", Check: func(context.Context) error { return errors.New("down") }},
	)

	w := f.get("/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"redis":"ok","leads_db":"down"}}`, w.Body.String())

	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Body.String())
}
