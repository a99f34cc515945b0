package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	"callcenter-crm/pkg/types"
	"callcenter-crm/pkg/utils"
)

type OperatorService struct {
	operatorRepo repositories.OperatorRepositoryInterface
	logger       *zap.Logger
}

func NewOperatorService(operatorRepo repositories.OperatorRepositoryInterface, logger *zap.Logger) *OperatorService {
	return &OperatorService{operatorRepo: operatorRepo, logger: logger}
}

func (s *OperatorService) GetOperators(ctx context.Context, filter types.Filter) ([]dto.OperatorDTO, uint64, error) {
	operators, total, err := s.operatorRepo.GetOperators(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.OperatorDTO, 0, len(operators))
	for i := range operators {
		out = append(out, dto.OperatorDTOFromEntity(&operators[i]))
	}
	return out, total, nil
}

func (s *OperatorService) FindOperator(ctx context.Context, id uint64) (*dto.OperatorDTO, error) {
	operator, err := s.operatorRepo.FindOperator(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.OperatorDTOFromEntity(operator)
	return &out, nil
}

func (s *OperatorService) CreateOperator(ctx context.Context, payload dto.CreateOperatorDTO) (*dto.OperatorDTO, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	operator := &entities.Operator{
		Username:     payload.Username,
		Fio:          payload.Fio,
		Email:        null.NewString(payload.Email, payload.Email != ""),
		PasswordHash: hash,
		Active:       true,
	}

	created, err := s.operatorRepo.CreateOperator(ctx, operator)
	if err != nil {
		return nil, err
	}

	s.logger.Info("operator created", zap.Uint64("operatorId", created.ID), zap.String("username", created.Username))
	out := dto.OperatorDTOFromEntity(created)
	return &out, nil
}

func (s *OperatorService) UpdateOperator(ctx context.Context, id uint64, payload dto.UpdateOperatorDTO) (*dto.OperatorDTO, error) {
	var passwordHash *string
	if payload.Password != nil {
		hash, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}

	if err := s.operatorRepo.UpdateOperator(ctx, id, payload, passwordHash); err != nil {
		return nil, err
	}
	return s.FindOperator(ctx, id)
}
