package web

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	vm "github.com/ericfisherdev/mycookbook/internal/adapter/driving/web/viewmodel"
)

// Double-submit CSRF protection: the token lives in a cookie readable by
// app.js, and every POST echoes it in a header or a hidden form field.
const (
	csrfCookieName = "csrf_token"
	csrfFormField  = vm.CSRFFormField
	csrfHeader     = "X-CSRF-Token"
	csrfTokenBytes = 32
)

// ensureCSRFToken returns the caller's token, issuing one when the request
// carries none.
func ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if token := csrfCookie(r); token != "" {
		return token
	}

	token := newCSRFToken()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

func csrfCookie(r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// submittedCSRF reads the echoed token, preferring the header app.js sets.
func submittedCSRF(r *http.Request) string {
	if token := r.Header.Get(csrfHeader); token != "" {
		return token
	}
	return r.PostFormValue(csrfFormField)
}

// requireCSRF answers 403 unless the submitted token matches the cookie.
func requireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		want, got := csrfCookie(r), submittedCSRF(r)
		if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			http.Error(w, "missing or stale form token, reload the page", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func newCSRFToken() string {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("web: reading random bytes for csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
