package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/cppla/goblog/config"
	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/routes"
	"github.com/cppla/goblog/utils"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the JSON configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, utils.Logger, &models.User{}, &models.BlogPost{}, &models.Comment{}, &models.PageView{})
	if err != nil {
		utils.Logger.Fatal("database init failed", zap.Error(err))
	}

	rc, err := utils.NewRedis(cfg)
	if err != nil {
		// revocation and caching fall back to memory and no-op
		utils.Logger.Warn("redis unavailable, continuing without it", zap.Error(err))
		rc = nil
	}
	if rc != nil {
		defer func() { _ = rc.Close() }()
	}

	r, err := routes.SetupRouter(routes.NewDeps(cfg, db, rc, utils.Logger))
	if err != nil {
		utils.Logger.Fatal("router setup failed", zap.Error(err))
	}

	utils.Sugar.Infof("Starting server on %s (graceful)", cfg.Addr())
	if err := utils.GraceServer(cfg.Addr(), r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
