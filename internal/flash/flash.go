// Package flash carries one-shot notices to the next request through a
// short-lived cookie. The cookie is cleared as soon as it is read, so
// a message renders exactly once.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "catalog_flash"

const (
	KindSuccess = "success"
	KindError   = "error"
)

// Message is a single notice scoped to the next request.
type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Set queues a message for the next request.
func Set(w http.ResponseWriter, kind, text string) {
	payload, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Success queues a success notice.
func Success(w http.ResponseWriter, text string) { Set(w, KindSuccess, text) }

// Error queues an error notice.
func Error(w http.ResponseWriter, text string) { Set(w, KindError, text) }

// Take returns the pending message, if any, and clears it.
func Take(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil
	}
	return &msg
}
