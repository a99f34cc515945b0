package main

import (
	"context"
	"log"

	"callcenter-crm/pkg/config"
	"callcenter-crm/pkg/database/postgresql"
	"callcenter-crm/seeders"
)

func main() {
	cfg := config.New()

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if err := seeders.Run(context.Background(), db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
