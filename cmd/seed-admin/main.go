// Command seed-admin provisions an admin: it creates or updates the login
// user and the matching admin_users row.
//
//	seed-admin -email ops@example.com -password '...' -name 'Ops'
//
// ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME are used when a flag is
// omitted.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/auth"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/config"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/database"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", os.Getenv("ADMIN_NAME"), "display name")
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()
	if *email == "" || len(*password) < 8 {
		log.Fatal("seed-admin: -email and a -password of at least 8 characters are required")
	}

	dbc := config.LoadDatabase()
	db, err := database.Open(dbc.User, dbc.Pass, dbc.Host, dbc.Port, dbc.Name)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	hash, err := auth.HashPassword(*password, *cost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	users := repository.NewUserRepo(db)
	if _, err := users.Create(ctx, *email, hash); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			log.Fatalf("create user: %v", err)
		}
		if err := users.SetPassword(ctx, *email, hash); err != nil {
			log.Fatalf("update password: %v", err)
		}
		log.Infof("user %s exists, password updated", *email)
	}
	if err := repository.NewAdminRepo(db).Upsert(ctx, &model.AdminUser{Email: *email, Name: *name, PasswordHash: hash}); err != nil {
		log.Fatalf("admin row: %v", err)
	}
	log.Infof("admin %s ready", *email)
}
