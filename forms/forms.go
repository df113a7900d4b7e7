// Package forms defines the HTML forms accepted by the blog and turns
// validation failures into per-field messages.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MsgPasswordTooShort is shown when a password has fewer than 8 characters.
const MsgPasswordTooShort = "Your Password must contain at least 8 characters"

// RegisterForm creates an account.
type RegisterForm struct {
	Name     string `form:"name" binding:"required,max=250"`
	Email    string `form:"email" binding:"required,email,max=250"`
	Password string `form:"password" binding:"required,min=8"`
}

// SignInForm authenticates an existing account.
type SignInForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
}

// PostForm creates or edits a blog post.
type PostForm struct {
	Title    string `form:"title" binding:"required,max=250"`
	Subtitle string `form:"subtitle" binding:"required,max=250"`
	ImgURL   string `form:"img_url" binding:"required,http_url,max=250"`
	Body     string `form:"body" binding:"required"`
}

// CommentForm adds a comment to a post.
type CommentForm struct {
	Body string `form:"body" binding:"required,max=500"`
}

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

// Has reports whether any field failed.
func (e Errors) Has() bool {
	return len(e) > 0
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// report fields by their form name so templates can look them up
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// untrimmed lists fields whose surrounding whitespace is significant.
var untrimmed = map[string]bool{"password": true}

// Bind decodes the request form into dst and validates it.
// Values are trimmed before validation, passwords excepted.
// It returns nil when dst is valid.
func Bind(ctx *gin.Context, dst interface{}) Errors {
	if err := ctx.Request.ParseForm(); err != nil {
		return Translate(err)
	}
	values := make(map[string][]string, len(ctx.Request.Form))
	for key, vs := range ctx.Request.Form {
		if untrimmed[key] {
			values[key] = vs
			continue
		}
		trimmed := make([]string, len(vs))
		for i, v := range vs {
			trimmed[i] = strings.TrimSpace(v)
		}
		values[key] = trimmed
	}
	if err := binding.MapFormWithTag(dst, values, "form"); err != nil {
		return Translate(err)
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts a binding error into field messages.
func Translate(err error) Errors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": "Invalid form submission."}
	}
	out := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url", "http_url":
		return "Invalid URL."
	case "min":
		if fe.Field() == "password" {
			return MsgPasswordTooShort
		}
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	}
	return "Invalid value."
}
