package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neu-balayan/pageantscore/internal/model"
)

// openEvents starts the SSE stream in the background and returns a function
// that waits for it to end and yields the recorded response
func (ts *webTestServer) openEvents(timeout time.Duration) func() *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/events", nil)
	ts.cookies.addTo(req)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		ts.handler.ServeHTTP(rr, req)
	}()

	return func() *httptest.ResponseRecorder {
		<-done
		return rr
	}
}

func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	rr := ts.openEvents(100 * time.Millisecond)()

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
}

func TestSSE_InitialEvents(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	body := ts.openEvents(100 * time.Millisecond)().Body.String()

	assert.Contains(t, body, "retry: 3000")
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `data: {"status":"connected"}`)
}

func TestSSE_PushesRosterUpdate(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	wait := ts.openEvents(300 * time.Millisecond)

	// Wait for the stream to register with the hub
	require.Eventually(t, func() bool { return ts.app.Hub.ClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	ts.addContestant("Maria Clara", model.CategoryMs)

	body := wait().Body.String()
	assert.Contains(t, body, "event: roster-update")
	assert.Contains(t, body, `id="roster-panel" hx-swap-oob="true"`)
	assert.Contains(t, body, "Maria Clara")
}

func TestSSE_DashboardSubscribes(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	doc := parseHTML(ts.get("/admin").Body)
	assertContainsElement(t, doc, "[sse-connect='/admin/events'][sse-swap='roster-update']")
}
