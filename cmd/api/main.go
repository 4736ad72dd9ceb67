package main

import (
	"context"
	"log"

	"github.com/stepwise-app/stepwise-backend/config"
	"github.com/stepwise-app/stepwise-backend/internal/auth/token"
	"github.com/stepwise-app/stepwise-backend/internal/bootstrap"
	"github.com/stepwise-app/stepwise-backend/internal/storage/postgres"
	cronjob "github.com/stepwise-app/stepwise-backend/internal/users/cron"
	userrepo "github.com/stepwise-app/stepwise-backend/internal/users/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb, err := bootstrap.OpenRedis(context.Background(), &cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, running without token cache: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	signer := token.NewSigner(cfg.Auth.JWTSecret)

	sweeper := cronjob.NewSweeper(userrepo.NewUserRepository(db), signer)
	sweeper.Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "stepwise-backend",
		Version:     cfg.App.Version,
		DB:          db,
		Redis:       rdb,
		Signer:      signer,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
