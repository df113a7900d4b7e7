package routes

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/goblog/config"
	"github.com/cppla/goblog/repository"
	"github.com/cppla/goblog/service"
	"github.com/cppla/goblog/utils"
)

// Deps carries everything the router needs. It is built once in main.
type Deps struct {
	Config config.AppConfig
	DB     *gorm.DB
	Logger *zap.Logger

	Sessions  *utils.SessionStore
	PageViews repository.PageViewRepository
	Auth      *service.AuthService
	Posts     *service.PostService
	Comments  *service.CommentService
}

// NewDeps wires repositories and services over db. rc may be nil, in which
// case token revocation is kept in memory and the post cache is disabled.
func NewDeps(cfg config.AppConfig, db *gorm.DB, rc *redis.Client, log *zap.Logger) Deps {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	pageViews := repository.NewPageViewRepository(db)

	tokens := utils.NewTokenIssuer(cfg.SecretKey, time.Duration(cfg.SessionTTLHours)*time.Hour)

	return Deps{
		Config:    cfg,
		DB:        db,
		Logger:    log,
		Sessions:  utils.NewSessionStore(cfg.SecretKey, cfg.CookieSecure),
		PageViews: pageViews,
		Auth:      service.NewAuthService(users, tokens, utils.NewTokenBlacklist(rc)),
		Posts:     service.NewPostService(posts, users, pageViews, utils.NewCache(rc)),
		Comments:  service.NewCommentService(comments, posts, users),
	}
}
