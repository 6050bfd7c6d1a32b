package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neu-balayan/pageantscore/internal/factory"
	"github.com/neu-balayan/pageantscore/internal/testutil"
	"github.com/neu-balayan/pageantscore/internal/web"
	"github.com/neu-balayan/pageantscore/internal/web/handler"
	"github.com/neu-balayan/pageantscore/internal/web/middleware"
)

// webTestServer drives the web router in-process, carrying cookies between
// requests the way one browser tab would
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.App
	cookies *cookieJar
}

func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	ref := testutil.CredentialReference()
	app, err := factory.New(factory.Config{Credential: &ref})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return newWebTestServerForApp(t, app)
}

// newWebTestServerForApp opens a second browser against an existing app
func newWebTestServerForApp(t *testing.T, app *factory.App) *webTestServer {
	t.Helper()
	return &webTestServer{
		t: t,
		handler: web.NewRouter(web.RouterConfig{
			Logger:        testutil.NopLogger(),
			AuthService:   app.AuthService,
			RosterService: app.RosterService,
			Hub:           app.Hub,
		}),
		app:     app,
		cookies: &cookieJar{},
	}
}

func (ts *webTestServer) do(req *http.Request) *httptest.ResponseRecorder {
	ts.cookies.addTo(req)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	ts.cookies.update(rr.Result().Cookies())
	return rr
}

func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar keeps the latest value per cookie name and forgets cookies the
// server expires
type cookieJar map[string]*http.Cookie

func (j *cookieJar) set(c *http.Cookie) {
	if *j == nil {
		*j = make(cookieJar)
	}
	(*j)[c.Name] = c
}

func (j *cookieJar) addTo(req *http.Request) {
	for _, c := range *j {
		req.AddCookie(c)
	}
}

func (j *cookieJar) update(cookies []*http.Cookie) {
	for _, c := range cookies {
		if c.MaxAge < 0 {
			delete(*j, c.Name)
			continue
		}
		j.set(c)
	}
}

func (j *cookieJar) has(name string) bool {
	_, ok := (*j)[name]
	return ok
}

func (j *cookieJar) hasSession() bool { return j.has(middleware.SessionCookie) }
func (j *cookieJar) hasGate() bool    { return j.has(handler.GateCookie) }

func (ts *webTestServer) openLogin() *httptest.ResponseRecorder {
	ts.t.Helper()
	rr := ts.get("/admin/login")
	require.Equal(ts.t, http.StatusOK, rr.Code)
	require.True(ts.t, ts.cookies.hasGate(), "login form did not set its gate cookie")
	return rr
}

func (ts *webTestServer) submitLogin(username, password string) *httptest.ResponseRecorder {
	return ts.post("/admin/login", url.Values{"username": {username}, "password": {password}})
}

func (ts *webTestServer) loginAsAdmin() {
	ts.t.Helper()
	ts.openLogin()
	rr := ts.submitLogin(testutil.AdminUsername, testutil.AdminPassword)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code)
	require.Equal(ts.t, "/admin", rr.Header().Get("Location"))
	require.True(ts.t, ts.cookies.hasSession(), "login did not set a session cookie")
}

func (ts *webTestServer) addContestant(name, category string) {
	ts.t.Helper()
	rr := ts.post("/admin/contestants", url.Values{"name": {name}, "category": {category}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code)
}

func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "response is not a redirect")
	return ts.get(location)
}

func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	assert.Positive(t, doc.Find(selector).Length(), "no element matches %q", selector)
}

func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	assert.Zero(t, doc.Find(selector).Length(), "unexpected element matching %q", selector)
}

func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	sel := doc.Find(selector)
	if !assert.Positive(t, sel.Length(), "no element matches %q", selector) {
		return
	}
	assert.Contains(t, sel.Text(), text, "text of %q", selector)
}
