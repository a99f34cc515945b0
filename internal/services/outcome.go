package services

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	"callcenter-crm/pkg/constants"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/utils"
)

// OutcomeService validates an operator's call result and applies exactly one
// deterministic transition to the contact, atomically with the history
// record. A rejected submission never mutates anything.
type OutcomeService struct {
	contactRepo    repositories.ContactRepositoryInterface
	callRecordRepo repositories.CallRecordRepositoryInterface
	operatorRepo   repositories.OperatorRepositoryInterface
	txManager      repositories.TxManagerInterface
	locks          *LockingService
	logger         *zap.Logger
}

func NewOutcomeService(
	contactRepo repositories.ContactRepositoryInterface,
	callRecordRepo repositories.CallRecordRepositoryInterface,
	operatorRepo repositories.OperatorRepositoryInterface,
	txManager repositories.TxManagerInterface,
	locks *LockingService,
	logger *zap.Logger,
) *OutcomeService {
	return &OutcomeService{
		contactRepo:    contactRepo,
		callRecordRepo: callRecordRepo,
		operatorRepo:   operatorRepo,
		txManager:      txManager,
		locks:          locks,
		logger:         logger,
	}
}

// outcomeInput is the submission after parsing: timestamps combined from
// their date+time halves, everything validated against the status matrix.
type outcomeInput struct {
	Status     string
	Note       string
	OrderValue *decimal.Decimal
	NextCallAt *time.Time
	DeferUntil *time.Time
	TransferTo *uint64
}

func noteRequired(status string) bool {
	switch status {
	case constants.StatusNoInterest, constants.StatusNotRelevant, constants.StatusSale,
		constants.StatusVIPAdd, constants.StatusCallLater, constants.StatusTransfer:
		return true
	}
	return false
}

func orderValueRequired(status string) bool {
	return status == constants.StatusSale || status == constants.StatusVIPAdd
}

func nextCallRequired(status string) bool {
	return status == constants.StatusSale || status == constants.StatusVIPAdd ||
		status == constants.StatusCallLater
}

// parseOutcomeInput applies the per-status validation matrix and combines
// the date/time pairs. All problems are collected into one field-level
// error so the operator can fix the form in a single pass.
func parseOutcomeInput(in dto.SubmitCallOutcomeDTO, loc *time.Location) (outcomeInput, *apperrors.ValidationError) {
	verr := apperrors.NewValidationError()
	out := outcomeInput{
		Status:     in.Status,
		Note:       strings.TrimSpace(in.Note),
		OrderValue: in.OrderValue,
		TransferTo: in.TransferToOperator,
	}

	if !constants.IsOutcomeStatus(in.Status) {
		verr.Add("status", "unknown outcome status")
		return out, verr
	}

	if noteRequired(in.Status) && out.Note == "" {
		verr.Add("note", "note is required for this outcome")
	}

	if orderValueRequired(in.Status) {
		switch {
		case in.OrderValue == nil:
			verr.Add("order_value", "order value is required for this outcome")
		case in.OrderValue.IsNegative():
			verr.Add("order_value", "order value must not be negative")
		}
	}

	nextCall, err := utils.CombineDateTime(in.NextCallDate, in.NextCallTime, loc)
	if err != nil {
		verr.Add("next_call_at", err.Error())
	}
	out.NextCallAt = nextCall
	if nextCallRequired(in.Status) && err == nil && nextCall == nil {
		verr.Add("next_call_at", "next call date and time are required for this outcome")
	}

	deferUntil, err := utils.CombineDateTime(in.DeferDate, in.DeferTime, loc)
	if err != nil {
		verr.Add("defer_until", err.Error())
	}
	out.DeferUntil = deferUntil

	if in.Status == constants.StatusTransfer && in.TransferToOperator == nil {
		verr.Add("transfer_to_operator", "target operator is required")
	}

	if verr.Empty() {
		return out, nil
	}
	return out, verr
}

func actionTypeFor(status string) string {
	switch status {
	case constants.StatusSale, constants.StatusVIPAdd, constants.StatusCallLater, constants.StatusNotSpokenDM:
		return constants.ActionConnected
	case constants.StatusNotRelevant, constants.StatusTransfer:
		return constants.ActionInternal
	default: // no_answer, no_interest, nonexistent_number
		return constants.ActionUnconnected
	}
}

// applyTransition mutates the contact in place per the outcome and returns
// the history record to append. Pure: no clock reads, no I/O. The lock
// clearing itself happens in the persistence step, unconditionally.
func applyTransition(c *entities.Contact, in outcomeInput, operatorID uint64, now time.Time) *entities.CallRecord {
	rec := &entities.CallRecord{
		ContactID:  c.ID,
		OperatorID: null.Uint64From(operatorID),
		ActionType: actionTypeFor(in.Status),
		Status:     in.Status,
		Note:       in.Note,
	}

	assign := func(id uint64) {
		c.AssignedOperatorID = null.Uint64From(id)
		c.AssignedAt = null.TimeFrom(now)
	}
	unassign := func() {
		c.AssignedOperatorID = null.Uint64{}
		c.AssignedAt = null.Time{}
	}
	activate := func() {
		c.Active = true
		c.DeactivatedUntil = null.Time{}
	}
	deactivateUntil := func(t time.Time) {
		c.Active = false
		c.DeactivatedUntil = null.TimeFrom(t)
	}

	switch in.Status {
	case constants.StatusNoInterest:
		deactivateUntil(utils.DateOnly(now).AddDate(0, 0, constants.NoInterestDormantDays))
		c.NoAnswerStreak = 0
		unassign()

	case constants.StatusNotRelevant:
		deactivateUntil(utils.NextMonday(now))
		c.NoAnswerStreak = 0
		unassign()

	case constants.StatusNonexistent:
		c.PermanentlyBlocked = true
		c.Active = false
		c.DeactivatedUntil = null.Time{}
		c.NoAnswerStreak = 0
		unassign()

	case constants.StatusSale:
		c.LastSaleAt = null.TimeFrom(now)
		activate()
		c.NoAnswerStreak = 0
		assign(operatorID)
		rec.ScheduledCallAt = nullTimeFromPtr(in.NextCallAt)
		rec.OrderValue = nullDecimalFromPtr(in.OrderValue)

	case constants.StatusVIPAdd:
		c.VIP = true
		c.VIPAddedAt = null.TimeFrom(now)
		activate()
		c.NoAnswerStreak = 0
		assign(operatorID)
		rec.ScheduledCallAt = nullTimeFromPtr(in.NextCallAt)
		rec.OrderValue = nullDecimalFromPtr(in.OrderValue)

	case constants.StatusNoAnswer:
		wasActive := c.Active
		c.NoAnswerStreak++
		switch {
		case c.NoAnswerStreak >= constants.NoAnswerDeactivateAt:
			// Chronic unreachability wins over any deferral.
			c.Active = false
		case in.DeferUntil != nil:
			activate()
			assign(operatorID)
			rec.ScheduledCallAt = nullTimeFromPtr(in.DeferUntil)
		case !wasActive:
			// Already dormant, nothing more to do.
		default:
			deactivateUntil(utils.NextMonday(now))
		}

	case constants.StatusCallLater:
		activate()
		c.NoAnswerStreak = 0
		assign(operatorID)
		rec.ScheduledCallAt = nullTimeFromPtr(in.NextCallAt)

	case constants.StatusNotSpokenDM:
		deactivateUntil(utils.NextMonday(now))
		c.NoAnswerStreak = 0
		unassign()

	case constants.StatusTransfer:
		activate()
		c.NoAnswerStreak = 0
		assign(*in.TransferTo)
		rec.ScheduledCallAt = nullTimeFromPtr(in.DeferUntil)
	}

	return rec
}

func nullTimeFromPtr(t *time.Time) null.Time {
	if t == nil {
		return null.Time{}
	}
	return null.TimeFrom(*t)
}

func nullDecimalFromPtr(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// SubmitCallOutcome runs the full pipeline: validate, load and row-lock the
// contact, apply the transition, append the history record, persist. All or
// nothing.
func (s *OutcomeService) SubmitCallOutcome(ctx context.Context, operatorID, contactID uint64, in dto.SubmitCallOutcomeDTO) (*dto.CallRecordDTO, error) {
	now := time.Now()

	input, verr := parseOutcomeInput(in, time.Local)
	if verr != nil {
		return nil, verr
	}

	if input.TransferTo != nil {
		if *input.TransferTo == operatorID {
			verr := apperrors.NewValidationError()
			verr.Add("transfer_to_operator", "cannot transfer a contact to yourself")
			return nil, verr
		}
		target, err := s.operatorRepo.FindOperator(ctx, *input.TransferTo)
		if err != nil || !target.Active {
			verr := apperrors.NewValidationError()
			verr.Add("transfer_to_operator", "target operator not found or inactive")
			return nil, verr
		}
	}

	var rec *entities.CallRecord
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		c, err := s.contactRepo.FindContactForUpdate(ctx, tx, contactID)
		if err != nil {
			return err
		}
		if err := s.locks.EnsureHeld(c, operatorID, now); err != nil {
			return err
		}

		rec = applyTransition(c, input, operatorID, now)

		id, err := s.callRecordRepo.CreateCallRecord(ctx, tx, rec)
		if err != nil {
			return err
		}
		rec.ID = id
		rec.CreatedAt = now

		return s.contactRepo.ApplyOutcome(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("call outcome recorded",
		zap.Uint64("operatorId", operatorID),
		zap.Uint64("contactId", contactID),
		zap.String("status", input.Status))

	out := dto.CallRecordDTOFromEntity(rec)
	return &out, nil
}
