package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/config"
	"github.com/mammadov115/codeshift-blog/internal/db"
	"github.com/mammadov115/codeshift-blog/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureRootAdmin(db.DB, cfg.RootAdminUserName, cfg.RootAdminEmail, cfg.RootAdminPassword); err != nil {
		log.Fatalf("failed to ensure root admin: %v", err)
	}

	r := router.Setup(db.DB, cfg, router.Options{LoadTemplates: true})
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
