package routes

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cppla/goblog/controllers"
	"github.com/cppla/goblog/middleware"
	"github.com/cppla/goblog/utils"
	"github.com/cppla/goblog/web"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	log := d.Logger
	if log == nil {
		log = utils.Logger
	}

	r := gin.New()
	// ClientIP reads X-Forwarded-For only from listed proxies
	var proxies []string
	if len(cfg.TrustedProxies) > 0 {
		proxies = cfg.TrustedProxies
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(middleware.Metrics())

	if len(cfg.AllowedOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}
		if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
			// credentials cannot be combined with a wildcard origin
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
		} else {
			corsCfg.AllowOrigins = cfg.AllowedOrigins
		}
		r.Use(cors.New(corsCfg))
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	renderer := controllers.NewRenderer(d.Sessions, cfg.AdminUserID)
	authController := controllers.NewAuthController(renderer, d.Auth)
	postController := controllers.NewPostController(renderer, d.Posts, d.Comments)
	pageController := controllers.NewPageController(renderer, cfg)
	healthController := controllers.NewHealthController(d.DB)

	r.GET("/health", healthController.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loadUser := middleware.LoadUser(d.Auth, d.Sessions)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware(renderer.TooManyRequests)

	pages := r.Group("/")
	pages.Use(loadUser, middleware.PageViewRecorder(d.PageViews))

	pages.GET("/", postController.Home)
	pages.GET("/about", pageController.About)
	pages.GET("/contact", pageController.Contact)

	pages.GET("/register", authController.RegisterPage)
	pages.POST("/register", limiter, authController.Register)
	pages.GET("/login", authController.LoginPage)
	pages.POST("/login", limiter, authController.Login)
	pages.GET("/logout", middleware.AuthRequired(d.Sessions), authController.Logout)

	pages.GET("/post/:id", postController.Show)
	pages.POST("/post/:id", postController.Comment)

	admin := pages.Group("/")
	admin.Use(middleware.AdminOnly(cfg.AdminUserID, renderer.Forbidden))
	admin.GET("/new-post", postController.NewPostPage)
	admin.POST("/new-post", postController.CreatePost)
	admin.GET("/edit-post/:id", postController.EditPostPage)
	admin.POST("/edit-post/:id", postController.UpdatePost)
	admin.GET("/delete/:id", postController.DeletePost)

	r.NoRoute(loadUser, renderer.NotFound)

	return r, nil
}
