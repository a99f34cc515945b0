package dto

import "callcenter-crm/internal/entities"

type OperatorDTO struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Fio       string  `json:"fio"`
	Email     *string `json:"email"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
}

type CreateOperatorDTO struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Fio      string `json:"fio" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateOperatorDTO struct {
	Fio      *string `json:"fio"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Active   *bool   `json:"active"`
}

func OperatorDTOFromEntity(o *entities.Operator) OperatorDTO {
	out := OperatorDTO{
		ID:        o.ID,
		Username:  o.Username,
		Fio:       o.Fio,
		Active:    o.Active,
		CreatedAt: o.CreatedAt.Local().Format(dtoTimeLayout),
	}
	if o.Email.Valid {
		out.Email = &o.Email.String
	}
	return out
}
