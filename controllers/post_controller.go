package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/goblog/forms"
	"github.com/cppla/goblog/middleware"
	"github.com/cppla/goblog/service"
)

// PostController serves the post listing, post pages with comments and the admin post editor.
type PostController struct {
	*Renderer
	posts    *service.PostService
	comments *service.CommentService
}

// NewPostController creates a new PostController instance.
func NewPostController(r *Renderer, posts *service.PostService, comments *service.CommentService) *PostController {
	return &PostController{Renderer: r, posts: posts, comments: comments}
}

// Home lists every post, newest first.
func (p *PostController) Home(ctx *gin.Context) {
	posts, err := p.posts.List(ctx.Request.Context())
	if err != nil {
		p.Fail(ctx, err)
		return
	}
	p.HTML(ctx, http.StatusOK, "index.html", gin.H{"Posts": posts})
}

// Show renders a post with its comments.
func (p *PostController) Show(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		p.NotFound(ctx)
		return
	}
	p.renderPost(ctx, http.StatusOK, id, forms.CommentForm{}, nil)
}

// Comment adds the signed-in user's comment to a post.
func (p *PostController) Comment(ctx *gin.Context) {
	user := middleware.UserFromContext(ctx)
	if user == nil {
		p.sessions.Flash(ctx, service.MsgLoginToComment)
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		p.NotFound(ctx)
		return
	}

	var form forms.CommentForm
	if errs := forms.Bind(ctx, &form); errs.Has() {
		p.renderPost(ctx, http.StatusUnprocessableEntity, id, form, errs)
		return
	}

	_, err := p.comments.Create(ctx.Request.Context(), service.CreateCommentInput{PostID: id, User: user, Body: form.Body})
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			p.renderPost(ctx, http.StatusUnprocessableEntity, id, form, errs)
			return
		}
		p.Fail(ctx, err)
		return
	}
	ctx.Redirect(http.StatusSeeOther, postPath(id))
}

func (p *PostController) renderPost(ctx *gin.Context, status int, id uint, form forms.CommentForm, errs forms.Errors) {
	reqCtx := ctx.Request.Context()
	post, err := p.posts.Get(reqCtx, id)
	if err != nil {
		p.Fail(ctx, err)
		return
	}
	comments, err := p.comments.ForPost(reqCtx, id)
	if err != nil {
		p.Fail(ctx, err)
		return
	}
	if errs == nil {
		errs = forms.Errors{}
	}
	p.HTML(ctx, status, "post.html", gin.H{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
		"Views":    p.posts.Views(reqCtx, postPath(id)),
		"Form":     form,
		"Errors":   errs,
	})
}

// NewPostPage shows an empty post editor.
func (p *PostController) NewPostPage(ctx *gin.Context) {
	p.renderEditor(ctx, http.StatusOK, 0, forms.PostForm{}, nil)
}

// CreatePost publishes a post authored by the administrator.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var form forms.PostForm
	if errs := forms.Bind(ctx, &form); errs.Has() {
		p.renderEditor(ctx, http.StatusUnprocessableEntity, 0, form, errs)
		return
	}

	user := middleware.UserFromContext(ctx)
	if _, err := p.posts.Create(ctx.Request.Context(), user.ID, postInput(form)); err != nil {
		if errs, ok := fieldErrors(err); ok {
			p.renderEditor(ctx, http.StatusUnprocessableEntity, 0, form, errs)
			return
		}
		p.Fail(ctx, err)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}

// EditPostPage shows the editor pre-filled with the post.
func (p *PostController) EditPostPage(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		p.NotFound(ctx)
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		p.Fail(ctx, err)
		return
	}
	p.renderEditor(ctx, http.StatusOK, id, forms.PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}, nil)
}

// UpdatePost saves the edited fields and returns to the post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		p.NotFound(ctx)
		return
	}

	var form forms.PostForm
	if errs := forms.Bind(ctx, &form); errs.Has() {
		p.renderEditor(ctx, http.StatusUnprocessableEntity, id, form, errs)
		return
	}

	if _, err := p.posts.Update(ctx.Request.Context(), id, postInput(form)); err != nil {
		if errs, ok := fieldErrors(err); ok {
			p.renderEditor(ctx, http.StatusUnprocessableEntity, id, form, errs)
			return
		}
		p.Fail(ctx, err)
		return
	}
	ctx.Redirect(http.StatusSeeOther, postPath(id))
}

// DeletePost removes a post and its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		p.NotFound(ctx)
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), id); err != nil {
		p.Fail(ctx, err)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}

// renderEditor shows make-post.html; id 0 means a new post.
func (p *PostController) renderEditor(ctx *gin.Context, status int, id uint, form forms.PostForm, errs forms.Errors) {
	data := gin.H{"Form": form, "Title": "New Post", "Action": "/new-post", "Editing": false}
	if id != 0 {
		data["Title"] = "Edit Post"
		data["Action"] = fmt.Sprintf("/edit-post/%d", id)
		data["Editing"] = true
	}
	if errs != nil {
		data["Errors"] = errs
	}
	p.HTML(ctx, status, "make-post.html", data)
}

func postInput(form forms.PostForm) service.PostInput {
	return service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		ImgURL:   form.ImgURL,
		Body:     form.Body,
	}
}

func postPath(id uint) string {
	return fmt.Sprintf("/post/%d", id)
}
