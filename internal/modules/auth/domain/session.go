package domain

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	CookieName = "steam_session"

	cookieMaxAge = 30 * 24 * time.Hour
)

// Session is the full cookie payload. It carries profile display data only -
// never secrets.
type Session struct {
	SteamID     string `json:"steamId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

func (s Session) Validate() error {
	if s.SteamID == "" {
		return fmt.Errorf("session has no steam id")
	}

	return nil
}

func NewCookie(session Session, secure bool) (*http.Cookie, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// SessionFromCookie decodes and validates a session cookie. Any malformed
// content fails closed - the caller treats the request as unauthenticated.
func SessionFromCookie(cookie *http.Cookie) (Session, error) {
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return Session{}, fmt.Errorf("decode session cookie: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, fmt.Errorf("decode session cookie: %w", err)
	}

	if err := session.Validate(); err != nil {
		return Session{}, err
	}

	return session, nil
}

func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
