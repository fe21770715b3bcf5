package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"ppsg-cms/internal/config"
	"ppsg-cms/internal/repository"
	"ppsg-cms/services"
	"ppsg-cms/utils"
)

// seed creates the admin account, or resets its password when it exists.
func main() {
	username := flag.String("username", envOr("ADMIN_USERNAME", "admin"), "admin username")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	flag.Parse()

	if *password == "" {
		log.Fatal("An admin password is required: pass -password or set ADMIN_PASSWORD")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	users := repository.NewUserRepo(client.Database(cfg.DBName).Collection(config.UserCollection))
	// Tokens are not issued here.
	authSvc := services.NewAuthService(users, nil, cfg.BcryptCost)

	ctx, cancel := utils.WithTimeout(context.Background())
	defer cancel()
	if err := authSvc.SetPassword(ctx, *username, *password); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user %q is ready\n", *username)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
