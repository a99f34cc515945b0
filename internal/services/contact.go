package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	"callcenter-crm/pkg/types"
	"callcenter-crm/pkg/utils"
)

const contactHistoryLimit = 50

// ContactService is the admin/read side: list, detail with history, manual
// create and edit. The selection and outcome services own the lifecycle
// mutations; this one never touches locks, streaks or assignment.
type ContactService struct {
	contactRepo    repositories.ContactRepositoryInterface
	callRecordRepo repositories.CallRecordRepositoryInterface
	vratkaRepo     repositories.VratkaRepositoryInterface
	logger         *zap.Logger
}

func NewContactService(
	contactRepo repositories.ContactRepositoryInterface,
	callRecordRepo repositories.CallRecordRepositoryInterface,
	vratkaRepo repositories.VratkaRepositoryInterface,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo:    contactRepo,
		callRecordRepo: callRecordRepo,
		vratkaRepo:     vratkaRepo,
		logger:         logger,
	}
}

func (s *ContactService) GetContacts(ctx context.Context, filter types.Filter) ([]dto.ContactDTO, uint64, error) {
	contacts, total, err := s.contactRepo.GetContacts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.ContactDTO, 0, len(contacts))
	for i := range contacts {
		out = append(out, dto.ContactDTOFromEntity(&contacts[i]))
	}
	return out, total, nil
}

// GetContactDetail is the call-screen payload: the contact plus its call
// history and returns on file.
func (s *ContactService) GetContactDetail(ctx context.Context, id uint64) (*dto.ContactDetailDTO, error) {
	contact, err := s.contactRepo.FindContact(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.callRecordRepo.GetContactHistory(ctx, id, contactHistoryLimit)
	if err != nil {
		return nil, err
	}
	vratky, err := s.vratkaRepo.GetByContact(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &dto.ContactDetailDTO{
		Contact: dto.ContactDTOFromEntity(contact),
		History: make([]dto.CallRecordDTO, 0, len(history)),
		Vratky:  make([]dto.VratkaDTO, 0, len(vratky)),
	}
	for i := range history {
		detail.History = append(detail.History, dto.CallRecordDTOFromEntity(&history[i]))
	}
	for i := range vratky {
		detail.Vratky = append(detail.Vratky, dto.VratkaDTOFromEntity(&vratky[i]))
	}
	return detail, nil
}

func (s *ContactService) CreateContact(ctx context.Context, payload dto.CreateContactDTO) (*dto.ContactDTO, error) {
	contact := &entities.Contact{
		CustomerCode: null.NewString(payload.CustomerCode, payload.CustomerCode != ""),
		PriorityCode: payload.PriorityCode,
		Salutation:   payload.Salutation,
		Title:        payload.Title,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		LastOrder:    payload.LastOrder,
		Ranking:      null.NewString(payload.Ranking, payload.Ranking != ""),
		Phone1:       payload.Phone1,
		Phone2:       payload.Phone2,
		LastContact:  payload.LastContact,
		Campaign:     payload.Campaign,
		Street:       payload.Street,
		City:         payload.City,
		Zip:          payload.Zip,
		Recency:      payload.Recency,
		VIPNote:      payload.VIPNote,
		Active:       true,
	}

	if payload.BirthDate != "" {
		birthDate, err := time.ParseInLocation(utils.DateLayout, payload.BirthDate, time.Local)
		if err != nil {
			return nil, err
		}
		contact.BirthDate = null.TimeFrom(birthDate)
	}

	created, err := s.contactRepo.CreateContact(ctx, contact)
	if err != nil {
		return nil, err
	}

	s.logger.Info("contact created manually", zap.Uint64("contactId", created.ID))
	out := dto.ContactDTOFromEntity(created)
	return &out, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, id uint64, payload dto.UpdateContactDTO) (*dto.ContactDTO, error) {
	if err := s.contactRepo.UpdateContact(ctx, id, payload); err != nil {
		return nil, err
	}
	updated, err := s.contactRepo.FindContact(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ContactDTOFromEntity(updated)
	return &out, nil
}
