package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/service"
	"github.com/cppla/goblog/utils"
)

// ContextUserKey is the key used to store the signed-in user in Gin context.
const ContextUserKey = "current_user"

// LoadUser resolves the session cookie into the current user. Anonymous
// requests carry no user; a stale cookie is cleared.
func LoadUser(auth *service.AuthService, sessions *utils.SessionStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := sessions.AuthToken(ctx)
		if token == "" {
			ctx.Next()
			return
		}

		user, err := auth.CurrentUser(ctx.Request.Context(), token)
		if err != nil {
			utils.Logger.Warn("session lookup failed", zap.Error(err))
		}
		if user == nil {
			if err == nil {
				sessions.ClearAuthCookie(ctx)
			}
			ctx.Next()
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// UserFromContext returns the signed-in user or nil.
func UserFromContext(ctx *gin.Context) *models.User {
	if v, ok := ctx.Get(ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// AuthRequired redirects anonymous visitors to the login page.
func AuthRequired(sessions *utils.SessionStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if UserFromContext(ctx) == nil {
			sessions.Flash(ctx, service.MsgSessionRequired)
			ctx.Redirect(http.StatusSeeOther, "/login")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// AdminOnly lets only the administrator through; everyone else, signed in
// or not, is handed to deny.
func AdminOnly(adminID uint, deny gin.HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !service.IsAdmin(UserFromContext(ctx), adminID) {
			deny(ctx)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
