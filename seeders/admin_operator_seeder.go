package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-crm/pkg/utils"
)

func seedAdminOperator(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - creating operator 'admin'...")

	var id uint64
	err := db.QueryRow(ctx, "SELECT id FROM operators WHERE username = 'admin'").Scan(&id)
	if err == nil {
		log.Println("    - operator 'admin' already exists, skipping")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for existing admin operator: %w", err)
	}

	hash, err := utils.HashPassword("admin12345")
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO operators (username, fio, password_hash, active) VALUES ($1, $2, $3, TRUE)`,
		"admin", "Administrator", hash)
	if err != nil {
		return fmt.Errorf("failed to insert admin operator: %w", err)
	}

	log.Println("    - operator 'admin' created (default password: admin12345)")
	return nil
}
