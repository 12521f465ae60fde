package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(utils.SessionConfig{
		Secret:      "test-secret",
		CookieName:  "storefront_session",
		MaxAgeHours: 1,
	})
}

// carry copies Set-Cookie headers from a response onto a fresh request
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestEstablishAndCurrent(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Establish(rec, "alice", "user"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	claims, err := m.Current(carry(rec))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestCurrentWithoutCookie(t *testing.T) {
	_, err := newTestManager().Current(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCurrentRejectsForeignSignature(t *testing.T) {
	other := NewManager(utils.SessionConfig{Secret: "another-secret", CookieName: "storefront_session"})

	rec := httptest.NewRecorder()
	require.NoError(t, other.Establish(rec, "mallory", "admin"))

	_, err := newTestManager().Current(carry(rec))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCurrentRejectsExpired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	rec := httptest.NewRecorder()
	require.NoError(t, m.Establish(rec, "alice", "user"))

	m.now = time.Now
	_, err := m.Current(carry(rec))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClearExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestManager().Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "storefront_session", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestFlashesAccumulateAndClear(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	m.AddFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil), "first")

	req := carry(rec)
	rec = httptest.NewRecorder()
	m.AddFlash(rec, req, "second")

	req = carry(rec)
	rec = httptest.NewRecorder()
	assert.Equal(t, []string{"first", "second"}, m.Flashes(rec, req))

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Less(t, cleared[0].MaxAge, 0)

	assert.Empty(t, m.Flashes(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}
