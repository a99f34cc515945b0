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
	"callcenter-crm/internal/infrastructure/bd"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/types"
)

const contactTable = "contacts"

const contactColumns = `id, customer_code, priority_code, salutation, title, first_name, last_name,
	last_order, ranking, phone1, phone2, birth_date, last_contact, campaign, street, city, zip, recency,
	vip, vip_added_at, vip_note, permanently_blocked, no_answer_streak, active, deactivated_until,
	last_sale_at, assigned_operator_id, assigned_at, locked_by_id, locked_at, imported_at, created_at, updated_at`

func scanContact(row pgx.Row) (*entities.Contact, error) {
	var c entities.Contact
	err := row.Scan(
		&c.ID, &c.CustomerCode, &c.PriorityCode, &c.Salutation, &c.Title, &c.FirstName, &c.LastName,
		&c.LastOrder, &c.Ranking, &c.Phone1, &c.Phone2, &c.BirthDate, &c.LastContact, &c.Campaign,
		&c.Street, &c.City, &c.Zip, &c.Recency,
		&c.VIP, &c.VIPAddedAt, &c.VIPNote, &c.PermanentlyBlocked, &c.NoAnswerStreak, &c.Active,
		&c.DeactivatedUntil, &c.LastSaleAt, &c.AssignedOperatorID, &c.AssignedAt,
		&c.LockedByID, &c.LockedAt, &c.ImportedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type ContactRepositoryInterface interface {
	GetContacts(ctx context.Context, filter types.Filter) ([]entities.Contact, uint64, error)
	FindContact(ctx context.Context, id uint64) (*entities.Contact, error)
	FindContactForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Contact, error)
	FindByCustomerCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Contact, error)
	FindByPhone(ctx context.Context, tx pgx.Tx, phone string) (*entities.Contact, error)
	CreateContact(ctx context.Context, c *entities.Contact) (*entities.Contact, error)
	CreateImported(ctx context.Context, tx pgx.Tx, c *entities.Contact) (uint64, error)
	UpdateImported(ctx context.Context, tx pgx.Tx, c *entities.Contact) error
	UpdateContact(ctx context.Context, id uint64, payload dto.UpdateContactDTO) error
	ApplyOutcome(ctx context.Context, tx pgx.Tx, c *entities.Contact) error
	ListCampaigns(ctx context.Context) ([]string, error)
	ListPrioritySuffixes(ctx context.Context) ([]string, error)
	DeactivateChronicNoAnswer(ctx context.Context, streak int) (int64, error)
	UnassignExpiredSales(ctx context.Context, cutoff time.Time) (int64, error)
}

type contactRepository struct {
	storage *pgxpool.Pool
	sb      sq.StatementBuilderType
}

func NewContactRepository(storage *pgxpool.Pool) ContactRepositoryInterface {
	return &contactRepository{
		storage: storage,
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var contactSortColumns = map[string]string{
	"id":            "id",
	"last_name":     "last_name",
	"customer_code": "customer_code",
	"campaign":      "campaign",
	"priority_code": "priority_code",
	"last_sale_at":  "last_sale_at",
	"imported_at":   "imported_at",
	"created_at":    "created_at",
}

func (r *contactRepository) listConditions(qb sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if v, ok := filter.Filter["campaign"]; ok {
		qb = qb.Where(sq.Eq{"campaign": v})
	}
	if v, ok := filter.Filter["active"]; ok {
		qb = qb.Where(sq.Eq{"active": v == "true"})
	}
	if v, ok := filter.Filter["vip"]; ok {
		qb = qb.Where(sq.Eq{"vip": v == "true"})
	}
	if v, ok := filter.Filter["assigned_operator_id"]; ok {
		qb = qb.Where(sq.Eq{"assigned_operator_id": v})
	}
	return qb
}

func (r *contactRepository) GetContacts(ctx context.Context, filter types.Filter) ([]entities.Contact, uint64, error) {
	searchColumns := []string{"first_name", "last_name", "customer_code", "phone1", "phone2", "city"}

	countQB := r.listConditions(r.sb.Select("COUNT(*)").From(contactTable), filter)
	if filter.Search != "" {
		or := make(sq.Or, 0, len(searchColumns))
		for _, col := range searchColumns {
			or = append(or, sq.ILike{col: "%" + filter.Search + "%"})
		}
		countQB = countQB.Where(or)
	}
	countSQL, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Contact{}, 0, nil
	}

	qb := r.listConditions(r.sb.Select(contactColumns).From(contactTable), filter)
	qb = bd.ApplyListParams(qb, filter, searchColumns, contactSortColumns)
	if len(filter.Sort) == 0 {
		qb = qb.OrderBy("id ASC")
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	contacts := make([]entities.Contact, 0, filter.Limit)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, total, rows.Err()
}

func (r *contactRepository) findBy(ctx context.Context, q querier, condition string, args ...interface{}) (*entities.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", contactColumns, contactTable, condition)
	c, err := scanContact(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *contactRepository) FindContact(ctx context.Context, id uint64) (*entities.Contact, error) {
	return r.findBy(ctx, r.storage, "id = $1", id)
}

// FindContactForUpdate loads and row-locks a contact inside tx. The outcome
// state machine works on this snapshot for the rest of the transaction.
func (r *contactRepository) FindContactForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", contactColumns, contactTable)
	c, err := scanContact(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *contactRepository) FindByCustomerCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Contact, error) {
	return r.findBy(ctx, tx, "customer_code = $1", code)
}

func (r *contactRepository) FindByPhone(ctx context.Context, tx pgx.Tx, phone string) (*entities.Contact, error) {
	return r.findBy(ctx, tx, "(phone1 = $1 OR phone2 = $1) ORDER BY id ASC LIMIT 1", phone)
}

func (r *contactRepository) CreateContact(ctx context.Context, c *entities.Contact) (*entities.Contact, error) {
	query, args, err := r.insertBuilder(c).Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, err
	}
	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return nil, err
	}
	return r.FindContact(ctx, id)
}

func (r *contactRepository) CreateImported(ctx context.Context, tx pgx.Tx, c *entities.Contact) (uint64, error) {
	query, args, err := r.insertBuilder(c).Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id uint64
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *contactRepository) insertBuilder(c *entities.Contact) sq.InsertBuilder {
	return r.sb.Insert(contactTable).
		Columns("customer_code", "priority_code", "salutation", "title", "first_name", "last_name",
			"last_order", "ranking", "phone1", "phone2", "birth_date", "last_contact", "campaign",
			"street", "city", "zip", "recency", "vip", "vip_added_at", "vip_note", "active", "imported_at").
		Values(c.CustomerCode, c.PriorityCode, c.Salutation, c.Title, c.FirstName, c.LastName,
			c.LastOrder, c.Ranking, c.Phone1, c.Phone2, c.BirthDate, c.LastContact, c.Campaign,
			c.Street, c.City, c.Zip, c.Recency, c.VIP, c.VIPAddedAt, c.VIPNote, c.Active, c.ImportedAt)
}

// UpdateImported refreshes the import-managed columns of an existing contact.
// Lifecycle state (streaks, assignment, locks) is left untouched so a
// re-import never resets what the state machine has accumulated.
func (r *contactRepository) UpdateImported(ctx context.Context, tx pgx.Tx, c *entities.Contact) error {
	query, args, err := r.sb.Update(contactTable).
		Set("priority_code", c.PriorityCode).
		Set("salutation", c.Salutation).
		Set("title", c.Title).
		Set("first_name", c.FirstName).
		Set("last_name", c.LastName).
		Set("last_order", c.LastOrder).
		Set("ranking", c.Ranking).
		Set("phone1", c.Phone1).
		Set("phone2", c.Phone2).
		Set("birth_date", c.BirthDate).
		Set("last_contact", c.LastContact).
		Set("campaign", c.Campaign).
		Set("street", c.Street).
		Set("city", c.City).
		Set("zip", c.Zip).
		Set("recency", c.Recency).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}

func (r *contactRepository) UpdateContact(ctx context.Context, id uint64, payload dto.UpdateContactDTO) error {
	qb := r.sb.Update(contactTable).Where(sq.Eq{"id": id})

	setIf := func(col string, v *string) {
		if v != nil {
			qb = qb.Set(col, *v)
		}
	}
	setIf("priority_code", payload.PriorityCode)
	setIf("salutation", payload.Salutation)
	setIf("title", payload.Title)
	setIf("first_name", payload.FirstName)
	setIf("last_name", payload.LastName)
	setIf("ranking", payload.Ranking)
	setIf("phone1", payload.Phone1)
	setIf("phone2", payload.Phone2)
	setIf("campaign", payload.Campaign)
	setIf("street", payload.Street)
	setIf("city", payload.City)
	setIf("zip", payload.Zip)
	setIf("recency", payload.Recency)
	if payload.VIPNote != nil {
		qb = qb.Set("vip_note", *payload.VIPNote)
	}
	if payload.VIP != nil {
		qb = qb.Set("vip", *payload.VIP)
		if *payload.VIP {
			qb = qb.Set("vip_added_at", sq.Expr("NOW()"))
		}
	}
	if payload.Active != nil {
		qb = qb.Set("active", *payload.Active)
		if *payload.Active {
			qb = qb.Set("deactivated_until", nil)
		}
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

// ApplyOutcome persists every lifecycle column the state machine may have
// touched, and unconditionally clears the call lock: a submitted outcome
// always ends the call session.
func (r *contactRepository) ApplyOutcome(ctx context.Context, tx pgx.Tx, c *entities.Contact) error {
	query, args, err := r.sb.Update(contactTable).
		Set("vip", c.VIP).
		Set("vip_added_at", c.VIPAddedAt).
		Set("vip_note", c.VIPNote).
		Set("permanently_blocked", c.PermanentlyBlocked).
		Set("no_answer_streak", c.NoAnswerStreak).
		Set("active", c.Active).
		Set("deactivated_until", c.DeactivatedUntil).
		Set("last_sale_at", c.LastSaleAt).
		Set("assigned_operator_id", c.AssignedOperatorID).
		Set("assigned_at", c.AssignedAt).
		Set("locked_by_id", nil).
		Set("locked_at", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *contactRepository) ListCampaigns(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT campaign FROM contacts WHERE campaign <> '' AND active = TRUE ORDER BY campaign ASC`
	return r.queryStrings(ctx, query)
}

// ListPrioritySuffixes returns the distinct last-two-digit suffixes of the
// priority codes currently in the active pool.
func (r *contactRepository) ListPrioritySuffixes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT RIGHT(priority_code, 2) AS suffix
		FROM contacts
		WHERE LENGTH(priority_code) >= 2 AND active = TRUE
		ORDER BY suffix ASC`
	return r.queryStrings(ctx, query)
}

func (r *contactRepository) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeactivateChronicNoAnswer retires contacts whose unanswered-call streak
// reached the threshold, regardless of any deferral window.
func (r *contactRepository) DeactivateChronicNoAnswer(ctx context.Context, streak int) (int64, error) {
	query := `UPDATE contacts
		SET active = FALSE, updated_at = NOW()
		WHERE active = TRUE AND no_answer_streak >= $1`
	tag, err := r.storage.Exec(ctx, query, streak)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UnassignExpiredSales releases the personal assignment of contacts whose
// last sale happened before cutoff, returning them to the shared pool.
func (r *contactRepository) UnassignExpiredSales(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE contacts
		SET assigned_operator_id = NULL, assigned_at = NULL, updated_at = NOW()
		WHERE assigned_operator_id IS NOT NULL
		  AND last_sale_at IS NOT NULL
		  AND last_sale_at < $1`
	tag, err := r.storage.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
