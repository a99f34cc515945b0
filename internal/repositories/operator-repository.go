package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/types"
)

const operatorTable = "operators"
const operatorColumns = `id, username, fio, email, password_hash, active, created_at, updated_at`

type OperatorRepositoryInterface interface {
	GetOperators(ctx context.Context, filter types.Filter) ([]entities.Operator, uint64, error)
	FindOperator(ctx context.Context, id uint64) (*entities.Operator, error)
	FindByUsername(ctx context.Context, username string) (*entities.Operator, error)
	CreateOperator(ctx context.Context, o *entities.Operator) (*entities.Operator, error)
	UpdateOperator(ctx context.Context, id uint64, payload dto.UpdateOperatorDTO, passwordHash *string) error
}

type operatorRepository struct {
	storage *pgxpool.Pool
	sb      sq.StatementBuilderType
}

func NewOperatorRepository(storage *pgxpool.Pool) OperatorRepositoryInterface {
	return &operatorRepository{
		storage: storage,
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanOperator(row pgx.Row) (*entities.Operator, error) {
	var o entities.Operator
	err := row.Scan(&o.ID, &o.Username, &o.Fio, &o.Email, &o.PasswordHash, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *operatorRepository) GetOperators(ctx context.Context, filter types.Filter) ([]entities.Operator, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE username ILIKE $1 OR fio ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", operatorTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Operator{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY id ASC", operatorColumns, operatorTable, whereClause)
	if filter.WithPagination && filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, filter.Limit, filter.Offset)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	operators := make([]entities.Operator, 0)
	for rows.Next() {
		o, err := scanOperator(rows)
		if err != nil {
			return nil, 0, err
		}
		operators = append(operators, *o)
	}
	return operators, total, rows.Err()
}

func (r *operatorRepository) FindOperator(ctx context.Context, id uint64) (*entities.Operator, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", operatorColumns, operatorTable)
	o, err := scanOperator(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *operatorRepository) FindByUsername(ctx context.Context, username string) (*entities.Operator, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE username = $1", operatorColumns, operatorTable)
	o, err := scanOperator(r.storage.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *operatorRepository) CreateOperator(ctx context.Context, o *entities.Operator) (*entities.Operator, error) {
	query := `INSERT INTO operators (username, fio, email, password_hash, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uint64
	if err := r.storage.QueryRow(ctx, query, o.Username, o.Fio, o.Email, o.PasswordHash, o.Active).Scan(&id); err != nil {
		return nil, err
	}
	return r.FindOperator(ctx, id)
}

func (r *operatorRepository) UpdateOperator(ctx context.Context, id uint64, payload dto.UpdateOperatorDTO, passwordHash *string) error {
	qb := r.sb.Update(operatorTable).Where(sq.Eq{"id": id})

	if payload.Fio != nil {
		qb = qb.Set("fio", *payload.Fio)
	}
	if payload.Email != nil {
		qb = qb.Set("email", *payload.Email)
	}
	if payload.Active != nil {
		qb = qb.Set("active", *payload.Active)
	}
	if passwordHash != nil {
		qb = qb.Set("password_hash", *passwordHash)
	}
	qb = qb.Set("updated_at", sq.Expr("NOW()"))

	query, args, err := qb.ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
