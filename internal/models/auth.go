package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the acting principal used for audit attribution.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// PrincipalSystem is recorded when a mutation has no authenticated caller.
const PrincipalSystem = "system"
