package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-client/internal/gameapi"
	"github.com/jwebster45206/adventure-client/internal/session"
	"github.com/jwebster45206/adventure-client/pkg/snapshot"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func caveSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		RoomDescription: "A dark cave",
		Items:           []string{"torch"},
		Inventory:       []string{},
		Health:          100,
		Directions:      snapshot.Exits{snapshot.NewExit("north", "room2")},
	}
}

type testApp struct {
	router http.Handler
	mock   *gameapi.MockGameService
	store  *session.Store
}

func newTestApp(start snapshot.Snapshot) *testApp {
	mock := gameapi.NewMockGameService()
	mock.StartFunc = func(context.Context) (snapshot.Snapshot, error) { return start, nil }

	store := session.NewStore(func() *viewstate.Controller {
		return viewstate.New(mock, viewstate.WithLogger(testLogger()))
	}, time.Hour)

	r := chi.NewRouter()
	NewGameHandler(store, testLogger()).RegisterRoutes(r)
	r.Handle("/health", NewHealthHandler(store, "http://game.test", testLogger()))

	return &testApp{router: r, mock: mock, store: store}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("Expected %s cookie to be set", SessionCookie)
	return nil
}

func TestGamePage_FirstVisitStartsSession(t *testing.T) {
	app := newTestApp(caveSnapshot())

	rr := app.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	cookie := sessionCookie(t, rr)
	assert.True(t, cookie.HttpOnly)

	body := rr.Body.String()
	assert.Contains(t, body, "A dark cave")
	assert.Contains(t, body, `value="go north"`)
	assert.Contains(t, body, `value="take torch"`)
	assert.Contains(t, body, "Health: 100")
	assert.Equal(t, 1, app.mock.StartCalls)

	// Second visit reuses the session and does not fetch /start again
	rr = app.do(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
	assert.Equal(t, 1, app.mock.StartCalls)
	assert.Equal(t, 1, app.store.Len())
}

func TestGamePage_UnknownCookieGetsNewSession(t *testing.T) {
	app := newTestApp(caveSnapshot())

	rr := app.do(t, http.MethodGet, "/", nil, &http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEqual(t, "not-a-uuid", sessionCookie(t, rr).Value)
}

func TestGamePage_StartFailureShowsError(t *testing.T) {
	app := newTestApp(caveSnapshot())
	app.mock.StartFunc = func(context.Context) (snapshot.Snapshot, error) {
		return snapshot.Snapshot{}, errors.New("connection refused")
	}

	rr := app.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Error: connection refused")
	assert.Contains(t, rr.Body.String(), "Health: 100")
}

func TestSubmitCommand_PostsAndRedirects(t *testing.T) {
	app := newTestApp(caveSnapshot())
	cookie := sessionCookie(t, app.do(t, http.MethodGet, "/", nil, nil))

	app.mock.CommandFunc = func(_ context.Context, command string) (snapshot.Snapshot, error) {
		s := caveSnapshot()
		s.Items = []string{}
		s.Inventory = []string{"torch"}
		return s, nil
	}

	rr := app.do(t, http.MethodPost, "/command", url.Values{"command": {"take torch"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, []string{"take torch"}, app.mock.CommandCalls)

	body := app.do(t, http.MethodGet, "/", nil, cookie).Body.String()
	assert.Contains(t, body, `value="use torch"`)
	assert.Contains(t, body, `value="drop torch"`)
	assert.NotContains(t, body, `value="take torch"`)
}

func TestSubmitCommand_GameOverDoesNotReachBackend(t *testing.T) {
	over := caveSnapshot()
	over.GameOver = true
	app := newTestApp(over)
	cookie := sessionCookie(t, app.do(t, http.MethodGet, "/", nil, nil))

	rr := app.do(t, http.MethodPost, "/command", url.Values{"command": {"look"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Empty(t, app.mock.CommandCalls)
}

func TestSubmitCommand_BackendErrorShownOnPage(t *testing.T) {
	app := newTestApp(caveSnapshot())
	cookie := sessionCookie(t, app.do(t, http.MethodGet, "/", nil, nil))
	app.mock.CommandFunc = func(context.Context, string) (snapshot.Snapshot, error) {
		return snapshot.Snapshot{}, &gameapi.StatusError{Endpoint: gameapi.EndpointCommand, StatusCode: 500}
	}

	app.do(t, http.MethodPost, "/command", url.Values{"command": {"fight"}}, cookie)

	body := app.do(t, http.MethodGet, "/", nil, cookie).Body.String()
	assert.Contains(t, body, "A dark cave")
	assert.Contains(t, body, "/command returned status 500")
}

func TestResetGame(t *testing.T) {
	over := caveSnapshot()
	over.GameOver = true
	app := newTestApp(over)
	cookie := sessionCookie(t, app.do(t, http.MethodGet, "/", nil, nil))

	app.mock.ResetFunc = func(context.Context) (snapshot.Snapshot, error) { return caveSnapshot(), nil }

	rr := app.do(t, http.MethodPost, "/reset", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 1, app.mock.ResetCalls)

	body := app.do(t, http.MethodGet, "/", nil, cookie).Body.String()
	assert.NotContains(t, body, "Game Over!")
}

func TestState_JSON(t *testing.T) {
	app := newTestApp(caveSnapshot())

	rr := app.do(t, http.MethodGet, "/state", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp StateResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "accepting", resp.Mode)
	assert.Equal(t, "A dark cave", resp.View.RoomDescription)
	assert.Equal(t, "100", resp.View.HealthText)
	require.Len(t, resp.View.Moves, 1)
	assert.Equal(t, "go north", resp.View.Moves[0].Command)
	assert.Len(t, resp.View.Fixed, 4)
	assert.Empty(t, resp.Error)
}
