package session

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const (
	CookieName = "session_id"

	clearedCookieValue = "invalid"
)

type CookieOptions struct {
	Path   string
	Secure bool
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

// RenewalCookie re-issues the same token for a full lifetime.
func RenewalCookie(token string, maxAge int, opts CookieOptions) *http.Cookie {
	opts = opts.normalize()
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     opts.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie overwrites the client's credential and expires it immediately.
func ClearCookie(opts CookieOptions) *http.Cookie {
	opts = opts.normalize()
	return &http.Cookie{
		Name:     CookieName,
		Value:    clearedCookieValue,
		Path:     opts.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromRequest returns the percent-decoded session_id cookie value.
// net/http drops cookies whose value holds bytes outside the cookie-octet set,
// so those are read straight from the Cookie header and left to validation.
func TokenFromRequest(r *http.Request) (string, bool) {
	var raw string
	cookie, err := r.Cookie(CookieName)
	switch {
	case err == nil:
		raw = cookie.Value
	case errors.Is(err, http.ErrNoCookie):
		value, ok := rawCookieValue(r.Header, CookieName)
		if !ok {
			return "", false
		}
		raw = value
	default:
		return "", false
	}

	value, err := url.PathUnescape(raw)
	if err != nil {
		return raw, true
	}
	return value, true
}

func rawCookieValue(h http.Header, name string) (string, bool) {
	for _, line := range h.Values("Cookie") {
		for part := range strings.SplitSeq(line, ";") {
			k, v, found := strings.Cut(strings.TrimSpace(part), "=")
			if found && k == name {
				return v, true
			}
		}
	}
	return "", false
}
