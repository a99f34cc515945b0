package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/repositories"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/service"
	"callcenter-crm/pkg/utils"
)

type AuthService struct {
	operatorRepo repositories.OperatorRepositoryInterface
	jwtService   service.JWTService
	logger       *zap.Logger
}

func NewAuthService(
	operatorRepo repositories.OperatorRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Login never distinguishes "no such operator" from "wrong password" in its
// error, only in the log.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	operator, err := s.operatorRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("login attempt for unknown operator", zap.String("username", payload.Username))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !operator.Active {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(operator.PasswordHash, payload.Password); err != nil {
		s.logger.Warn("login attempt with wrong password", zap.String("username", payload.Username))
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(operator.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Operator:     dto.OperatorDTOFromEntity(operator),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	operator, err := s.operatorRepo.FindOperator(ctx, claims.OperatorID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !operator.Active {
		return nil, apperrors.ErrUnauthorized
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(operator.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Operator:     dto.OperatorDTOFromEntity(operator),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, operatorID uint64) (*dto.OperatorDTO, error) {
	operator, err := s.operatorRepo.FindOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	out := dto.OperatorDTOFromEntity(operator)
	return &out, nil
}
