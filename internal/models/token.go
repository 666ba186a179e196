package models

import "github.com/golang-jwt/jwt/v5"

// Role enumerates coarse access levels carried in tokens.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// JWTClaims is the access-token payload issued by the identity provider.
type JWTClaims struct {
	UserID string `json:"uid"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
