package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photoshare/adapters/session"
	"photoshare/models"
)

const (
	SESSION_KEY_USER_ID = "user_id"

	contextKeyCurrentUser = "photoshare-current-user"
)

func (impl *ServerImpl) SessionMiddleware() gin.HandlerFunc {
	return session.GinMiddleware(
		impl.sessionStore,
		session.WithSessionKeyForCookie(impl.config.Session.KeyForCookie),
		session.WithCookieMaxAge(impl.config.Session.CookieMaxAge),
		session.WithCookieSecure(impl.config.Session.CookieSecure),
	)
}

// currentUser resolves the session's user_id against the credential store.
// A missing or stale identity yields (nil, nil).
func (impl *ServerImpl) currentUser(c *gin.Context) (*models.User, error) {
	sess, err := session.GetSession(c)
	if err != nil {
		return nil, err
	}
	raw := sess.Get(SESSION_KEY_USER_ID)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		// garbage in the session is treated as logged out
		return nil, nil
	}
	return impl.users.LookupByID(c.Request.Context(), uint(id))
}

// RequireLogin gates a route on an authenticated identity; anonymous
// requests are redirected to the login page.
func (impl *ServerImpl) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "RequireLogin"
		user, err := impl.currentUser(c)
		if err != nil {
			impl.serverError(c, op, err)
			return
		}
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(contextKeyCurrentUser, user)
		c.Next()
	}
}

// mustCurrentUser returns the user RequireLogin placed on the context.
func mustCurrentUser(c *gin.Context) *models.User {
	return c.MustGet(contextKeyCurrentUser).(*models.User)
}

// serverError terminates the request with a generic 500. Infrastructure
// failures are logged, never surfaced to the client.
func (impl *ServerImpl) serverError(c *gin.Context, op string, err error) {
	slog.Error("Request failed", slog.String("op", op), slog.Any("error", err))
	c.String(http.StatusInternalServerError, "Internal Server Error")
	c.Abort()
}
