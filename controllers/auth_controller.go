package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/goblog/forms"
	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/service"
	"github.com/cppla/goblog/utils"
)

// AuthController handles registration, sign-in and sign-out pages.
type AuthController struct {
	*Renderer
	auth *service.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(r *Renderer, auth *service.AuthService) *AuthController {
	return &AuthController{Renderer: r, auth: auth}
}

// RegisterPage shows the registration form.
func (a *AuthController) RegisterPage(ctx *gin.Context) {
	a.HTML(ctx, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": forms.RegisterForm{}})
}

// Register creates the account and signs the new user in.
func (a *AuthController) Register(ctx *gin.Context) {
	var form forms.RegisterForm
	if errs := forms.Bind(ctx, &form); errs.Has() {
		form.Password = ""
		a.HTML(ctx, http.StatusUnprocessableEntity, "register.html", gin.H{"Title": "Register", "Form": form, "Errors": errs})
		return
	}

	user, err := a.auth.Register(ctx.Request.Context(), service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if models.IsCode(err, models.CodeConflict) {
			a.sessions.Flash(ctx, service.MsgEmailTaken)
			ctx.Redirect(http.StatusSeeOther, "/login")
			return
		}
		if errs, ok := fieldErrors(err); ok {
			form.Password = ""
			a.HTML(ctx, http.StatusUnprocessableEntity, "register.html", gin.H{"Title": "Register", "Form": form, "Errors": errs})
			return
		}
		a.Fail(ctx, err)
		return
	}

	a.startSession(ctx, user)
}

// LoginPage shows the sign-in form.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	a.HTML(ctx, http.StatusOK, "login.html", gin.H{"Title": "Log In", "Form": forms.SignInForm{}})
}

// Login verifies the credentials and starts a session.
func (a *AuthController) Login(ctx *gin.Context) {
	var form forms.SignInForm
	if errs := forms.Bind(ctx, &form); errs.Has() {
		form.Password = ""
		a.HTML(ctx, http.StatusUnprocessableEntity, "login.html", gin.H{"Title": "Log In", "Form": form, "Errors": errs})
		return
	}

	user, err := a.auth.SignIn(ctx.Request.Context(), service.SignInInput{Email: form.Email, Password: form.Password})
	if err != nil {
		if models.IsCode(err, models.CodeInvalidCredentials) {
			a.sessions.Flash(ctx, err.Error())
			ctx.Redirect(http.StatusSeeOther, "/login")
			return
		}
		a.Fail(ctx, err)
		return
	}

	a.startSession(ctx, user)
}

// Logout revokes the session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if err := a.auth.SignOut(ctx.Request.Context(), a.sessions.AuthToken(ctx)); err != nil {
		utils.Logger.Warn("token revocation failed", zap.Error(err))
	}
	a.sessions.ClearAuthCookie(ctx)
	ctx.Redirect(http.StatusSeeOther, "/")
}

func (a *AuthController) startSession(ctx *gin.Context, user *models.User) {
	token, err := a.auth.IssueSession(user)
	if err != nil {
		a.Fail(ctx, err)
		return
	}
	a.sessions.SetAuthCookie(ctx, token, a.auth.SessionTTL())
	ctx.Redirect(http.StatusSeeOther, "/")
}
