// Package auth handles merchant registration, login and bearer tokens.
package auth

import (
	"context"
	"errors"
	"time"

	domainerrors "github.com/sohamgherwada/PayQI/internal/errors"
	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/repositories"
	"github.com/sohamgherwada/PayQI/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, email, password string) (*models.Merchant, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(tokenStr string) (*models.MerchantClaims, error)
	GetMerchantByEmail(ctx context.Context, email string) (*models.Merchant, error)
}

// Config holds token issuing parameters.
type Config struct {
	JWTSecret    string
	TokenExpires time.Duration
}

type service struct {
	merchants repositories.MerchantRepository
	cfg       Config
	logger    *zap.Logger
}

func NewService(merchants repositories.MerchantRepository, cfg Config, logger *zap.Logger) Service {
	if cfg.TokenExpires == 0 {
		cfg.TokenExpires = 60 * time.Minute
	}
	return &service{
		merchants: merchants,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *service) Register(ctx context.Context, email, password string) (*models.Merchant, error) {
	if !validation.IsEmail(email) {
		return nil, domainerrors.Unprocessable("invalid email address")
	}
	if len(password) < validation.MinPasswordLength {
		return nil, domainerrors.Unprocessable("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	merchant := &models.Merchant{
		Email:        email,
		PasswordHash: string(hash),
		KYCVerified:  false,
	}
	if err := s.merchants.Create(ctx, merchant); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, domainerrors.ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("merchant registered", zap.Uint("merchant_id", merchant.ID))
	return merchant, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	merchant, err := s.merchants.GetByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and bad password.
		return "", domainerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(password)); err != nil {
		return "", domainerrors.ErrInvalidCredentials
	}

	now := time.Now()
	claims := models.MerchantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   merchant.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenExpires)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "payqi-api",
		},
		MerchantID: merchant.ID,
		Email:      merchant.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return "", err
	}
	return signed, nil
}

// ParseToken validates signature and expiry; an expired token is invalid.
func (s *service) ParseToken(tokenStr string) (*models.MerchantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.MerchantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, domainerrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*models.MerchantClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domainerrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *service) GetMerchantByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	merchant, err := s.merchants.GetByEmail(ctx, email)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken
	}
	return merchant, nil
}
