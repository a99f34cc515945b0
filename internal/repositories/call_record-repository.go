package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-crm/internal/entities"
)

const callRecordColumns = `id, contact_id, operator_id, action_type, status, note, scheduled_call_at, order_value, created_at`

type CallRecordRepositoryInterface interface {
	CreateCallRecord(ctx context.Context, tx pgx.Tx, rec *entities.CallRecord) (uint64, error)
	GetContactHistory(ctx context.Context, contactID uint64, limit int) ([]entities.CallRecord, error)
}

type callRecordRepository struct {
	storage *pgxpool.Pool
}

func NewCallRecordRepository(storage *pgxpool.Pool) CallRecordRepositoryInterface {
	return &callRecordRepository{storage: storage}
}

// CreateCallRecord appends one history entry inside the outcome transaction.
func (r *callRecordRepository) CreateCallRecord(ctx context.Context, tx pgx.Tx, rec *entities.CallRecord) (uint64, error) {
	query := `INSERT INTO call_records (contact_id, operator_id, action_type, status, note, scheduled_call_at, order_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		rec.ContactID, rec.OperatorID, rec.ActionType, rec.Status, rec.Note,
		rec.ScheduledCallAt, rec.OrderValue,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *callRecordRepository) GetContactHistory(ctx context.Context, contactID uint64, limit int) ([]entities.CallRecord, error) {
	query := `SELECT ` + callRecordColumns + `
		FROM call_records
		WHERE contact_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.storage.Query(ctx, query, contactID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]entities.CallRecord, 0, limit)
	for rows.Next() {
		var rec entities.CallRecord
		err := rows.Scan(&rec.ID, &rec.ContactID, &rec.OperatorID, &rec.ActionType, &rec.Status,
			&rec.Note, &rec.ScheduledCallAt, &rec.OrderValue, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
