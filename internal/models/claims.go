package models

import "github.com/golang-jwt/jwt/v5"

// MerchantClaims are the JWT claims carried by a merchant access token.
// The merchant email travels as the registered Subject claim.
type MerchantClaims struct {
	jwt.RegisteredClaims
	MerchantID uint   `json:"merchant_id"`
	Email      string `json:"email"`
}
