package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Run executes all seeders in order. Each one is idempotent, so re-running
// the seed command against a populated database is safe.
func Run(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("seeding database...")

	if err := seedAdminOperator(ctx, db); err != nil {
		return err
	}

	log.Println("seeding finished")
	return nil
}
