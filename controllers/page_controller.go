package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/goblog/config"
)

// PageController serves the informational pages whose copy comes from configuration.
type PageController struct {
	*Renderer
	cfg config.AppConfig
}

func NewPageController(r *Renderer, cfg config.AppConfig) *PageController {
	return &PageController{Renderer: r, cfg: cfg}
}

// About renders the about page.
func (c *PageController) About(ctx *gin.Context) {
	c.HTML(ctx, http.StatusOK, "about.html", gin.H{
		"Title":   c.cfg.AboutHeading,
		"Heading": c.cfg.AboutHeading,
		"Text":    c.cfg.AboutText,
	})
}

// Contact renders the contact page.
func (c *PageController) Contact(ctx *gin.Context) {
	c.HTML(ctx, http.StatusOK, "contact.html", gin.H{
		"Title":   c.cfg.ContactHeading,
		"Heading": c.cfg.ContactHeading,
		"Text":    c.cfg.ContactText,
	})
}
