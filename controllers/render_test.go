package controllers

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cppla/goblog/forms"
	"github.com/cppla/goblog/middleware"
	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusForCode(t *testing.T) {
	tests := map[string]int{
		models.CodeNotFound:           http.StatusNotFound,
		models.CodeValidation:         http.StatusUnprocessableEntity,
		models.CodeConflict:           http.StatusConflict,
		models.CodeInvalidCredentials: http.StatusUnauthorized,
		models.CodeUnauthorized:       http.StatusUnauthorized,
		models.CodeForbidden:          http.StatusForbidden,
		models.CodeInternal:           http.StatusInternalServerError,
		"SOMETHING_ELSE":              http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, statusForCode(code), code)
	}
}

func TestFieldErrors(t *testing.T) {
	errs, ok := fieldErrors(models.NewConflictError("title", "taken"))
	assert.True(t, ok)
	assert.Equal(t, forms.Errors{"title": "taken"}, errs)

	_, ok = fieldErrors(models.NewNotFoundError("Post", 1))
	assert.False(t, ok)
	_, ok = fieldErrors(models.NewValidationError("", "no field"))
	assert.False(t, ok)
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]uint{"1": 1, "42": 42, "0": 0, "-3": 0, "abc": 0, "": 0} {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Params = gin.Params{{Key: "id", Value: raw}}
		id, ok := parseID(ctx, "id")
		assert.Equal(t, want, id, raw)
		assert.Equal(t, want != 0, ok, raw)
	}
}

func TestRenderer_CommonData(t *testing.T) {
	sessions := utils.NewSessionStore("secret", false)
	renderer := NewRenderer(sessions, 1)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("page.html").Parse(
		`{{.LoggedIn}}|{{.IsAdmin}}|{{with .CurrentUser}}{{.Name}}{{end}}|{{len .Errors}}`)))
	r.GET("/as/:id", func(ctx *gin.Context) {
		id, _ := parseID(ctx, "id")
		if id != 0 {
			ctx.Set(middleware.ContextUserKey, &models.User{ID: id, Name: "U"})
		}
		renderer.HTML(ctx, http.StatusOK, "page.html", nil)
	})

	cases := map[string]string{
		"/as/0": "false|false||0",
		"/as/1": "true|true|U|0",
		"/as/2": "true|false|U|0",
	}
	for path, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Body.String(), path)
	}
}
