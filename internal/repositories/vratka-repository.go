package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-crm/internal/entities"
)

const vratkaColumns = `id, contact_id, return_date, reason, agent, invoice_number, invoice_date, invoice_amount, return_amount, imported_at`

type VratkaRepositoryInterface interface {
	GetByContact(ctx context.Context, contactID uint64) ([]entities.Vratka, error)
	CreateVratka(ctx context.Context, tx pgx.Tx, v *entities.Vratka) (uint64, error)
	ExistsForInvoice(ctx context.Context, tx pgx.Tx, contactID uint64, invoiceNumber string) (bool, error)
}

type vratkaRepository struct {
	storage *pgxpool.Pool
}

func NewVratkaRepository(storage *pgxpool.Pool) VratkaRepositoryInterface {
	return &vratkaRepository{storage: storage}
}

func (r *vratkaRepository) GetByContact(ctx context.Context, contactID uint64) ([]entities.Vratka, error) {
	query := `SELECT ` + vratkaColumns + `
		FROM vratky
		WHERE contact_id = $1
		ORDER BY return_date DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.Vratka, 0)
	for rows.Next() {
		var v entities.Vratka
		err := rows.Scan(&v.ID, &v.ContactID, &v.ReturnDate, &v.Reason, &v.Agent, &v.InvoiceNumber,
			&v.InvoiceDate, &v.InvoiceAmount, &v.ReturnAmount, &v.ImportedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vratkaRepository) CreateVratka(ctx context.Context, tx pgx.Tx, v *entities.Vratka) (uint64, error) {
	query := `INSERT INTO vratky (contact_id, return_date, reason, agent, invoice_number, invoice_date, invoice_amount, return_amount, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		v.ContactID, v.ReturnDate, v.Reason, v.Agent, v.InvoiceNumber,
		v.InvoiceDate, v.InvoiceAmount, v.ReturnAmount, v.ImportedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ExistsForInvoice keeps re-imported return files idempotent.
func (r *vratkaRepository) ExistsForInvoice(ctx context.Context, tx pgx.Tx, contactID uint64, invoiceNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM vratky WHERE contact_id = $1 AND invoice_number = $2)`
	var exists bool
	if err := tx.QueryRow(ctx, query, contactID, invoiceNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
