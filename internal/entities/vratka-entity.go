package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

// Vratka is an imported product return. Read-only for the core: the
// selection engine consumes it only through the "returns on file" filter.
type Vratka struct {
	ID            uint64
	ContactID     uint64
	ReturnDate    time.Time
	Reason        string
	Agent         string
	InvoiceNumber string
	InvoiceDate   null.Time
	InvoiceAmount decimal.NullDecimal
	ReturnAmount  decimal.NullDecimal
	ImportedAt    time.Time
}
