package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

// CallRecord is one append-only history entry. Created exclusively by the
// outcome state machine, never updated or deleted afterwards.
type CallRecord struct {
	ID              uint64
	ContactID       uint64
	OperatorID      null.Uint64 // null if the operator was later deleted
	ActionType      string      // connected / unconnected / internal
	Status          string
	Note            string
	ScheduledCallAt null.Time
	OrderValue      decimal.NullDecimal // present only for sale outcomes
	CreatedAt       time.Time
}
