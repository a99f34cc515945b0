package dto

import (
	"github.com/shopspring/decimal"

	"callcenter-crm/internal/entities"
)

// SubmitCallOutcomeDTO is the operator's call result form. Which fields are
// required depends on the status; the outcome service enforces the matrix
// and rejects partial date/time pairs with field-level errors.
type SubmitCallOutcomeDTO struct {
	Status             string           `json:"status" validate:"required,outcome_status"`
	Note               string           `json:"note"`
	OrderValue         *decimal.Decimal `json:"order_value"`
	NextCallDate       string           `json:"next_call_date"` // 02.01.2006
	NextCallTime       string           `json:"next_call_time"` // 15:04
	DeferDate          string           `json:"defer_date"`
	DeferTime          string           `json:"defer_time"`
	TransferToOperator *uint64          `json:"transfer_to_operator"`
}

type CallRecordDTO struct {
	ID              uint64  `json:"id"`
	ContactID       uint64  `json:"contact_id"`
	OperatorID      *uint64 `json:"operator_id"`
	ActionType      string  `json:"action_type"`
	Status          string  `json:"status"`
	Note            string  `json:"note"`
	ScheduledCallAt *string `json:"scheduled_call_at"`
	OrderValue      *string `json:"order_value"`
	CreatedAt       string  `json:"created_at"`
}

func CallRecordDTOFromEntity(r *entities.CallRecord) CallRecordDTO {
	out := CallRecordDTO{
		ID:         r.ID,
		ContactID:  r.ContactID,
		ActionType: r.ActionType,
		Status:     r.Status,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt.Local().Format(dtoTimeLayout),
	}
	if r.OperatorID.Valid {
		out.OperatorID = &r.OperatorID.Uint64
	}
	out.ScheduledCallAt = formatNullTime(r.ScheduledCallAt.Valid, r.ScheduledCallAt.Time)
	if r.OrderValue.Valid {
		s := r.OrderValue.Decimal.StringFixed(2)
		out.OrderValue = &s
	}
	return out
}
