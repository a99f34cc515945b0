package dto

import "callcenter-crm/internal/entities"

type VratkaDTO struct {
	ID            uint64  `json:"id"`
	ContactID     uint64  `json:"contact_id"`
	ReturnDate    string  `json:"return_date"`
	Reason        string  `json:"reason"`
	Agent         string  `json:"agent"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   *string `json:"invoice_date"`
	InvoiceAmount *string `json:"invoice_amount"`
	ReturnAmount  *string `json:"return_amount"`
	ImportedAt    string  `json:"imported_at"`
}

func VratkaDTOFromEntity(v *entities.Vratka) VratkaDTO {
	out := VratkaDTO{
		ID:            v.ID,
		ContactID:     v.ContactID,
		ReturnDate:    v.ReturnDate.Format("2006-01-02"),
		Reason:        v.Reason,
		Agent:         v.Agent,
		InvoiceNumber: v.InvoiceNumber,
		ImportedAt:    v.ImportedAt.Local().Format(dtoTimeLayout),
	}
	out.InvoiceDate = formatNullDate(v.InvoiceDate.Valid, v.InvoiceDate.Time)
	if v.InvoiceAmount.Valid {
		s := v.InvoiceAmount.Decimal.StringFixed(2)
		out.InvoiceAmount = &s
	}
	if v.ReturnAmount.Valid {
		s := v.ReturnAmount.Decimal.StringFixed(2)
		out.ReturnAmount = &s
	}
	return out
}
