package filter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/trustauth/auth/authctx"
	"github.com/kbukum/trustauth/errors"
)

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively; anything else yields "".
func BearerToken(header string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// Middleware adapts the filter to net/http.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r.Header.Get("Authorization"))
		d := f.Decide(r.Context(), raw)
		if d.Outcome == Reject {
			writeReject(w, d.Reason)
			return
		}
		if d.Principal != nil {
			ctx := authctx.WithPrincipal(r.Context(), d.Principal)
			ctx = authctx.WithToken(ctx, raw)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// Gin adapts the filter to gin.
func (f *Filter) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c.GetHeader("Authorization"))
		d := f.Decide(c.Request.Context(), raw)
		if d.Outcome == Reject {
			appErr := asAppError(d.Reason)
			if appErr.HTTPStatus == http.StatusUnauthorized {
				c.Header("WWW-Authenticate", "Bearer")
			}
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		if d.Principal != nil {
			ctx := authctx.WithPrincipal(c.Request.Context(), d.Principal)
			c.Request = c.Request.WithContext(authctx.WithToken(ctx, raw))
		}
		c.Next()
	}
}

// RequireAuthenticated rejects requests that reached it without a
// principal.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authctx.Principal(c.Request.Context()); !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errors.Unauthorized("").ToResponse())
			return
		}
		c.Next()
	}
}

func writeReject(w http.ResponseWriter, reason error) {
	appErr := asAppError(reason)
	if appErr.HTTPStatus == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}

func asAppError(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.Internal(err)
}
