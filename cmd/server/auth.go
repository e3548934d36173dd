package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/agrokalk/agrokalkulator/internal/access"
	"github.com/agrokalk/agrokalkulator/internal/catalog"
)

const (
	sessionCookieName = "agrokalk_session"
	adminCookieName   = "agrokalk_admin"

	// Subject stored in the admin session cookie; the admin gate has no
	// per-user identity.
	adminSubject = "admin"
)

type authService struct {
	users         *catalog.UserStore
	sessionSecret []byte
}

func newAuthService(users *catalog.UserStore, sessionSecret string) *authService {
	return &authService{users: users, sessionSecret: []byte(sessionSecret)}
}

// validateCredentials checks a login against the users collection. Stored
// values are sha256 digests; plain-text values left over from older catalogs
// are still accepted.
func (a *authService) validateCredentials(login, password string) bool {
	user, ok := a.users.FindByLogin(login)
	if !ok {
		return false
	}

	providedHash := access.HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(user.Hash), []byte(providedHash)) == 1 {
		return true
	}
	if subtle.ConstantTimeCompare([]byte(user.Hash), []byte(password)) == 1 {
		return true
	}

	return false
}

func (a *authService) createSessionValue(subject string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(subject))
	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return payload + "." + signature
}

func (a *authService) verifySessionValue(value string) (string, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return "", false
	}

	payload := parts[0]
	signature := parts[1]

	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	if len(decoded) == 0 {
		return "", false
	}

	return string(decoded), true
}

func (a *authService) setSessionCookie(w http.ResponseWriter, login string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.createSessionValue(login),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) setAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    a.createSessionValue(adminSubject),
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func isAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := auth.verifySessionValue(cookie.Value)
	return ok
}

func isAdminAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil {
		return false
	}

	subject, ok := auth.verifySessionValue(cookie.Value)
	return ok && subject == adminSubject
}
