package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"movie-catalog/internal/flash"
	"movie-catalog/internal/session"
)

const identityKey = "identity"

// MethodOverride rewrites POST requests carrying a _method form field
// into PUT or DELETE. It must wrap the router, since routing matches
// on the method.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch strings.ToUpper(r.FormValue("_method")) {
			case http.MethodPut:
				r.Method = http.MethodPut
			case http.MethodDelete:
				r.Method = http.MethodDelete
			}
		}
		next.ServeHTTP(w, r)
	})
}

// identity resolves the session once per request and stashes the
// typed snapshot. Anonymous callers proceed with no identity set;
// a failing session store is logged and treated as anonymous.
func (h *Handler) identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.sessions.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			h.log.WithError(err).Warn("resolve session")
		}
		if id != nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// requireAuth gates routes that create or mutate movies.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentIdentity(c) == nil {
			flash.Error(c.Writer, "You must be logged in.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *session.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*session.Identity)
	return id
}
