// Package auth is the narrow contract with the external identity service:
// an opaque credential goes in, a subject id and role come out. The core
// never inspects credentials anywhere else.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
)

// Identity is the resolved acting identity of a request.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify resolves a bearer token to an identity.
func (v *TokenVerifier) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.Wrap(err, apperr.KindUnauthenticated, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.Unauthenticatedf("malformed token claims")
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Identity{}, apperr.Unauthenticatedf("token carries no valid user id")
	}

	role := model.Role(fmt.Sprint(claims["role"]))
	switch role {
	case model.RolePatient, model.RoleDoctor, model.RoleAdmin:
	default:
		return Identity{}, apperr.Unauthenticatedf("token carries unknown role %q", role)
	}

	return Identity{UserID: userID, Role: role}, nil
}

// Issue creates a signed token for an identity. Token issuance belongs to
// the auth service; this wrapper exists for local setups and tests.
func (v *TokenVerifier) Issue(id Identity, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id.UserID.String(),
		"role":    string(id.Role),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", apperr.Internal(err, "sign token")
	}
	return signed, nil
}

type ctxKey struct{}

// ContextWithIdentity stores the resolved identity for downstream handlers.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom retrieves the identity resolved by the auth middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
