package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/pkg/constants"
)

// SubTier is one of the four increasingly inclusive fresh-pool passes.
type SubTier int

const (
	SubTierNoHistory SubTier = iota // never called
	SubTierPriorSale                // at least one recorded sale
	SubTierLowNoAnswer
	SubTierAll
)

var SubTiers = []SubTier{SubTierNoHistory, SubTierPriorSale, SubTierLowNoAnswer, SubTierAll}

// rankingOrder turns the free-text ranking column into a sortable numeric
// key. Values that do not parse as a number (either decimal separator) sort
// last; ties break on id so the order is total.
const rankingOrder = `CASE WHEN c.ranking ~ '^[0-9]+([.,][0-9]+)?$'
	THEN REPLACE(c.ranking, ',', '.')::numeric END DESC NULLS LAST, c.id ASC`

const contactColumnsC = `c.id, c.customer_code, c.priority_code, c.salutation, c.title, c.first_name, c.last_name,
	c.last_order, c.ranking, c.phone1, c.phone2, c.birth_date, c.last_contact, c.campaign, c.street, c.city, c.zip, c.recency,
	c.vip, c.vip_added_at, c.vip_note, c.permanently_blocked, c.no_answer_streak, c.active, c.deactivated_until,
	c.last_sale_at, c.assigned_operator_id, c.assigned_at, c.locked_by_id, c.locked_at, c.imported_at, c.created_at, c.updated_at`

type ContactSelectionRepositoryInterface interface {
	ReleaseStaleLocks(ctx context.Context, olderThan time.Time) (int64, error)
	ReleaseOperatorLock(ctx context.Context, operatorID uint64) error
	LockContact(ctx context.Context, tx pgx.Tx, contactID, operatorID uint64, now time.Time) error
	SelectOverdueCallback(ctx context.Context, tx pgx.Tx, operatorID uint64, now, staleBefore time.Time) (*entities.Contact, error)
	SelectNeglectedVIP(ctx context.Context, tx pgx.Tx, operatorID uint64, now, staleBefore time.Time) (*entities.Contact, error)
	ListImportBatches(ctx context.Context, tx pgx.Tx) ([]time.Time, error)
	SelectFromBatch(ctx context.Context, tx pgx.Tx, batch time.Time, operatorID uint64, now, staleBefore time.Time, filters dto.SelectionFilters, sub SubTier) (*entities.Contact, error)
}

type contactSelectionRepository struct {
	storage *pgxpool.Pool
	sb      sq.StatementBuilderType
}

func NewContactSelectionRepository(storage *pgxpool.Pool) ContactSelectionRepositoryInterface {
	return &contactSelectionRepository{
		storage: storage,
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *contactSelectionRepository) ReleaseStaleLocks(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `UPDATE contacts
		SET locked_by_id = NULL, locked_at = NULL
		WHERE locked_at IS NOT NULL AND locked_at < $1`
	tag, err := r.storage.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ReleaseOperatorLock drops whatever lock the operator still holds from an
// abandoned session. No explicit cancel call exists; this runs before every
// selection instead.
func (r *contactSelectionRepository) ReleaseOperatorLock(ctx context.Context, operatorID uint64) error {
	query := `UPDATE contacts
		SET locked_by_id = NULL, locked_at = NULL
		WHERE locked_by_id = $1`
	_, err := r.storage.Exec(ctx, query, operatorID)
	return err
}

func (r *contactSelectionRepository) LockContact(ctx context.Context, tx pgx.Tx, contactID, operatorID uint64, now time.Time) error {
	query := `UPDATE contacts SET locked_by_id = $1, locked_at = $2 WHERE id = $3`
	tag, err := tx.Exec(ctx, query, operatorID, now, contactID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact %d vanished while locking", contactID)
	}
	return nil
}

// SelectOverdueCallback is tier 1: contacts assigned to the operator whose
// latest scheduled call time has passed, most overdue first.
func (r *contactSelectionRepository) SelectOverdueCallback(ctx context.Context, tx pgx.Tx, operatorID uint64, now, staleBefore time.Time) (*entities.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts c
		WHERE c.active = TRUE
		  AND c.permanently_blocked = FALSE
		  AND (c.deactivated_until IS NULL OR c.deactivated_until <= $2)
		  AND c.assigned_operator_id = $1
		  AND (c.locked_by_id IS NULL OR c.locked_by_id = $1 OR c.locked_at < $3)
		  AND (SELECT MAX(r.scheduled_call_at) FROM call_records r WHERE r.contact_id = c.id) <= $2
		ORDER BY (SELECT MAX(r.scheduled_call_at) FROM call_records r WHERE r.contact_id = c.id) ASC, c.id ASC
		FOR UPDATE OF c SKIP LOCKED
		LIMIT 1`, contactColumnsC)

	return r.selectOne(ctx, tx, query, operatorID, now, staleBefore)
}

// SelectNeglectedVIP is tier 2: VIPs assigned to the operator with nothing
// scheduled ahead, longest-neglected first. VIPs with no history at all sort
// before everything (MAX over no rows is NULL).
func (r *contactSelectionRepository) SelectNeglectedVIP(ctx context.Context, tx pgx.Tx, operatorID uint64, now, staleBefore time.Time) (*entities.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts c
		WHERE c.active = TRUE
		  AND c.permanently_blocked = FALSE
		  AND (c.deactivated_until IS NULL OR c.deactivated_until <= $2)
		  AND c.vip = TRUE
		  AND c.assigned_operator_id = $1
		  AND (c.locked_by_id IS NULL OR c.locked_by_id = $1 OR c.locked_at < $3)
		  AND NOT EXISTS (SELECT 1 FROM call_records r WHERE r.contact_id = c.id AND r.scheduled_call_at > $2)
		ORDER BY (SELECT MAX(r.created_at) FROM call_records r WHERE r.contact_id = c.id) ASC NULLS FIRST, c.id ASC
		FOR UPDATE OF c SKIP LOCKED
		LIMIT 1`, contactColumnsC)

	return r.selectOne(ctx, tx, query, operatorID, now, staleBefore)
}

// ListImportBatches returns the distinct import timestamps of the active
// unassigned pool, newest first. Tier 3 walks them in this order.
func (r *contactSelectionRepository) ListImportBatches(ctx context.Context, tx pgx.Tx) ([]time.Time, error) {
	query := `SELECT DISTINCT imported_at FROM contacts
		WHERE imported_at IS NOT NULL
		  AND active = TRUE
		  AND assigned_operator_id IS NULL
		ORDER BY imported_at DESC`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		batches = append(batches, t)
	}
	return batches, rows.Err()
}

// SelectFromBatch is one tier-3 pass over a single import batch: session
// filters narrow the pool, the sub-tier narrows it further, ranking orders
// it. Filters are mutually exclusive; campaign wins over suffixes, suffixes
// over returns-only.
func (r *contactSelectionRepository) SelectFromBatch(ctx context.Context, tx pgx.Tx, batch time.Time, operatorID uint64, now, staleBefore time.Time, filters dto.SelectionFilters, sub SubTier) (*entities.Contact, error) {
	qb := r.sb.Select(contactColumnsC).From("contacts c").
		Where("c.active = TRUE").
		Where("c.permanently_blocked = FALSE").
		Where(sq.Expr("(c.deactivated_until IS NULL OR c.deactivated_until <= ?)", now)).
		Where("c.assigned_operator_id IS NULL").
		Where(sq.Expr("(c.locked_by_id IS NULL OR c.locked_by_id = ? OR c.locked_at < ?)", operatorID, staleBefore)).
		Where(sq.Eq{"c.imported_at": batch}).
		Where(sq.Expr("NOT EXISTS (SELECT 1 FROM call_records r WHERE r.contact_id = c.id AND r.scheduled_call_at > ?)", now))

	switch {
	case filters.Campaign != "":
		qb = qb.Where(sq.Eq{"c.campaign": filters.Campaign})
	case len(filters.PrioritySuffixes) > 0:
		qb = qb.Where(sq.Eq{"RIGHT(c.priority_code, 2)": filters.PrioritySuffixes})
	case filters.ReturnsOnly:
		qb = qb.Where("EXISTS (SELECT 1 FROM vratky v WHERE v.contact_id = c.id)")
	}

	switch sub {
	case SubTierNoHistory:
		qb = qb.Where("NOT EXISTS (SELECT 1 FROM call_records r WHERE r.contact_id = c.id)")
	case SubTierPriorSale:
		qb = qb.Where("EXISTS (SELECT 1 FROM call_records r WHERE r.contact_id = c.id AND r.status = 'sale')")
	case SubTierLowNoAnswer:
		qb = qb.Where(sq.Lt{"c.no_answer_streak": constants.NoAnswerFreshPoolLimit})
	case SubTierAll:
	}

	query, args, err := qb.
		OrderBy(rankingOrder).
		Suffix("FOR UPDATE OF c SKIP LOCKED LIMIT 1").
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.selectOne(ctx, tx, query, args...)
}

func (r *contactSelectionRepository) selectOne(ctx context.Context, tx pgx.Tx, query string, args ...interface{}) (*entities.Contact, error) {
	c, err := scanContact(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
