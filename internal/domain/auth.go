package domain

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

type Claim struct {
	AccountID    uuid.UUID `json:"account_id"`
	TwoFAEnabled bool      `json:"two_fa_enabled"`
	jwt.StandardClaims
}
