// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev admin (admin@example.com) already exists.
package main

import (
	"context"
	"log"
	"time"

	"sdms/backend/internal/account/service"
	"sdms/backend/internal/app"
	"sdms/backend/internal/config"
	startupdomain "sdms/backend/internal/startup/domain"
)

const (
	devAdminEmail    = "admin@example.com"
	devFounderEmail  = "founder@example.com"
	devEmployeeEmail = "employee@example.com"
	devPassword      = "password123!"
	devStartupName   = "Dev Startup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("wire: %v", err)
	}
	defer a.Close()

	existing, err := a.Accounts.GetByEmail(ctx, devAdminEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Println("seed: dev data already present, skipping")
		return
	}

	startup, err := a.Startups.GetByName(ctx, devStartupName)
	if err != nil {
		log.Fatalf("seed startup: %v", err)
	}
	if startup == nil {
		startup = &startupdomain.Startup{Name: devStartupName, CreatedAt: time.Now().UTC()}
		if err := a.Startups.Create(ctx, startup); err != nil {
			log.Fatalf("seed startup: %v", err)
		}
	}

	if _, err := a.Auth.RegisterAdmin(ctx, service.RegisterAdminInput{
		Email:      devAdminEmail,
		Username:   "dev-admin",
		Name:       "Dev Admin",
		Password:   devPassword,
		AdminLevel: "SuperAdmin",
		Department: "Platform",
	}); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	if _, err := a.Auth.RegisterFounder(ctx, service.RegisterFounderInput{
		Email:       devFounderEmail,
		Username:    "dev-founder",
		Name:        "Dev Founder",
		Password:    devPassword,
		CompanyName: devStartupName,
	}); err != nil {
		log.Fatalf("seed founder: %v", err)
	}

	if _, err := a.Auth.RegisterEmployee(ctx, service.RegisterEmployeeInput{
		Email:        devEmployeeEmail,
		Username:     "dev-employee",
		Name:         "Dev Employee",
		Password:     devPassword,
		StartupID:    startup.ID,
		EmployeeRole: "Engineer",
	}); err != nil {
		log.Fatalf("seed employee: %v", err)
	}

	log.Println("seed: done")
}
