package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/goblog/forms"
	"github.com/cppla/goblog/middleware"
	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/service"
	"github.com/cppla/goblog/utils"
)

// Renderer renders pages with the data every template expects.
type Renderer struct {
	sessions *utils.SessionStore
	adminID  uint
}

// NewRenderer creates a Renderer.
func NewRenderer(sessions *utils.SessionStore, adminID uint) *Renderer {
	return &Renderer{sessions: sessions, adminID: adminID}
}

// HTML renders template name with data plus the signed-in user, the admin flag
// and pending flash messages.
func (r *Renderer) HTML(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user := middleware.UserFromContext(ctx)
	data["LoggedIn"] = user != nil
	data["CurrentUser"] = user
	data["IsAdmin"] = service.IsAdmin(user, r.adminID)
	data["Flashes"] = r.sessions.Flashes(ctx)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	ctx.HTML(status, name, data)
}

// ErrorPage renders the error template.
func (r *Renderer) ErrorPage(ctx *gin.Context, status int, message string) {
	r.HTML(ctx, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// Forbidden is the page shown to anyone failing the admin gate.
func (r *Renderer) Forbidden(ctx *gin.Context) {
	r.ErrorPage(ctx, http.StatusForbidden, "You are not allowed to access this page.")
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(ctx *gin.Context) {
	r.ErrorPage(ctx, http.StatusNotFound, "The page you are looking for does not exist.")
}

// TooManyRequests renders the page shown to rate limited clients.
func (r *Renderer) TooManyRequests(ctx *gin.Context) {
	r.ErrorPage(ctx, http.StatusTooManyRequests, "Too many attempts, please wait a minute and try again.")
}

// Fail renders the page matching a service error.
func (r *Renderer) Fail(ctx *gin.Context, err error) {
	status := statusForCode(models.ErrorCode(err))
	if status == http.StatusInternalServerError {
		utils.Logger.Error("request failed",
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err),
		)
		r.ErrorPage(ctx, status, "Something went wrong on our side.")
		return
	}
	r.ErrorPage(ctx, status, err.Error())
}

func statusForCode(code string) int {
	switch code {
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeValidation:
		return http.StatusUnprocessableEntity
	case models.CodeConflict:
		return http.StatusConflict
	case models.CodeInvalidCredentials, models.CodeUnauthorized:
		return http.StatusUnauthorized
	case models.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrors turns a validation or conflict AppError into form errors.
func fieldErrors(err error) (forms.Errors, bool) {
	if !models.IsCode(err, models.CodeValidation) && !models.IsCode(err, models.CodeConflict) {
		return nil, false
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Field == "" {
		return nil, false
	}
	return forms.Errors{appErr.Field: appErr.Message}, true
}

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
