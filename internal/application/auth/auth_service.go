package authservice

import (
	"context"

	"github.com/tuncanbit/lnpay/internal/domain"
)

type IAuthService interface {
	VerifyToken(ctx context.Context, tokenString string) (*domain.Claim, error)
	VerifyAPIKey(ctx context.Context, apiKey string) error
}
