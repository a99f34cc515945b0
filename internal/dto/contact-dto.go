package dto

import (
	"time"

	"callcenter-crm/internal/entities"
)

const dtoTimeLayout = "2006-01-02 15:04:05"

type ContactDTO struct {
	ID           uint64  `json:"id"`
	CustomerCode *string `json:"customer_code"`
	PriorityCode string  `json:"priority_code"`
	Salutation   string  `json:"salutation"`
	Title        string  `json:"title"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	FullName     string  `json:"full_name"`
	LastOrder    string  `json:"last_order"`
	Ranking      *string `json:"ranking"`
	Phone1       string  `json:"phone1"`
	Phone2       string  `json:"phone2"`
	BirthDate    *string `json:"birth_date"`
	LastContact  string  `json:"last_contact"`
	Campaign     string  `json:"campaign"`
	Street       string  `json:"street"`
	City         string  `json:"city"`
	Zip          string  `json:"zip"`
	Recency      string  `json:"recency"`

	VIP        bool    `json:"vip"`
	VIPAddedAt *string `json:"vip_added_at"`
	VIPNote    string  `json:"vip_note"`

	PermanentlyBlocked bool    `json:"permanently_blocked"`
	NoAnswerStreak     int     `json:"no_answer_streak"`
	Active             bool    `json:"active"`
	DeactivatedUntil   *string `json:"deactivated_until"`
	LastSaleAt         *string `json:"last_sale_at"`

	AssignedOperatorID *uint64 `json:"assigned_operator_id"`
	ImportedAt         *string `json:"imported_at"`
	CreatedAt          string  `json:"created_at"`
}

type CreateContactDTO struct {
	CustomerCode string `json:"customer_code"`
	PriorityCode string `json:"priority_code"`
	Salutation   string `json:"salutation"`
	Title        string `json:"title"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name" validate:"required"`
	LastOrder    string `json:"last_order"`
	Ranking      string `json:"ranking"`
	Phone1       string `json:"phone1" validate:"omitempty,cz_phone"`
	Phone2       string `json:"phone2"`
	BirthDate    string `json:"birth_date"` // 02.01.2006
	LastContact  string `json:"last_contact"`
	Campaign     string `json:"campaign"`
	Street       string `json:"street"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	Recency      string `json:"recency"`
	VIPNote      string `json:"vip_note"`
}

type UpdateContactDTO struct {
	PriorityCode *string `json:"priority_code"`
	Salutation   *string `json:"salutation"`
	Title        *string `json:"title"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Ranking      *string `json:"ranking"`
	Phone1       *string `json:"phone1" validate:"omitempty,cz_phone"`
	Phone2       *string `json:"phone2"`
	Campaign     *string `json:"campaign"`
	Street       *string `json:"street"`
	City         *string `json:"city"`
	Zip          *string `json:"zip"`
	Recency      *string `json:"recency"`
	VIP          *bool   `json:"vip"`
	VIPNote      *string `json:"vip_note"`
	Active       *bool   `json:"active"`
}

// ContactDetailDTO is the operator call screen payload.
type ContactDetailDTO struct {
	Contact ContactDTO      `json:"contact"`
	History []CallRecordDTO `json:"history"`
	Vratky  []VratkaDTO     `json:"vratky"`
}

func ContactDTOFromEntity(c *entities.Contact) ContactDTO {
	out := ContactDTO{
		ID:                 c.ID,
		PriorityCode:       c.PriorityCode,
		Salutation:         c.Salutation,
		Title:              c.Title,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		FullName:           c.FullName(),
		LastOrder:          c.LastOrder,
		Phone1:             c.Phone1,
		Phone2:             c.Phone2,
		LastContact:        c.LastContact,
		Campaign:           c.Campaign,
		Street:             c.Street,
		City:               c.City,
		Zip:                c.Zip,
		Recency:            c.Recency,
		VIP:                c.VIP,
		VIPNote:            c.VIPNote,
		PermanentlyBlocked: c.PermanentlyBlocked,
		NoAnswerStreak:     c.NoAnswerStreak,
		Active:             c.Active,
		CreatedAt:          c.CreatedAt.Local().Format(dtoTimeLayout),
	}

	if c.CustomerCode.Valid {
		out.CustomerCode = &c.CustomerCode.String
	}
	if c.Ranking.Valid {
		out.Ranking = &c.Ranking.String
	}
	if c.AssignedOperatorID.Valid {
		out.AssignedOperatorID = &c.AssignedOperatorID.Uint64
	}
	out.BirthDate = formatNullDate(c.BirthDate.Valid, c.BirthDate.Time)
	out.VIPAddedAt = formatNullTime(c.VIPAddedAt.Valid, c.VIPAddedAt.Time)
	out.DeactivatedUntil = formatNullDate(c.DeactivatedUntil.Valid, c.DeactivatedUntil.Time)
	out.LastSaleAt = formatNullTime(c.LastSaleAt.Valid, c.LastSaleAt.Time)
	out.ImportedAt = formatNullTime(c.ImportedAt.Valid, c.ImportedAt.Time)

	return out
}

func formatNullTime(valid bool, t time.Time) *string {
	if !valid {
		return nil
	}
	s := t.Local().Format(dtoTimeLayout)
	return &s
}

func formatNullDate(valid bool, t time.Time) *string {
	if !valid {
		return nil
	}
	s := t.Local().Format("2006-01-02")
	return &s
}
