package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no session")

// Claims is what the session cookie carries
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs the session into an HttpOnly cookie. There is no server-side
// session table; the cookie lifetime is the session lifetime.
type Manager struct {
	secret     []byte
	cookieName string
	flashName  string
	maxAge     time.Duration
	now        func() time.Time
}

func NewManager(config utils.SessionConfig) *Manager {
	maxAge := time.Duration(config.MaxAgeHours) * time.Hour
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	return &Manager{
		secret:     []byte(config.Secret),
		cookieName: config.CookieName,
		flashName:  config.CookieName + "_flash",
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Establish starts an authenticated session
func (m *Manager) Establish(w http.ResponseWriter, username, role string) error {
	now := m.now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Current returns ErrNoSession for a missing, expired or tampered cookie
func (m *Manager) Current(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	if claims.Username == "" || claims.Role == "" {
		return nil, ErrNoSession
	}

	return claims, nil
}

// Clear ends the session
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AddFlash queues a notice for the next rendered page
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	messages := append(m.pending(r), message)

	raw, err := json.Marshal(messages)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.flashName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flashes returns queued notices and clears them
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	messages := m.pending(r)
	if len(messages) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     m.flashName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return messages
}

func (m *Manager) pending(r *http.Request) []string {
	cookie, err := r.Cookie(m.flashName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var messages []string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}
