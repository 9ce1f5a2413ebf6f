package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Имена JWT claims
const (
	jwtClaimSubject = "sub"
	jwtClaimRole    = "role"
)

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("token claims not found in context")
	}
	return claims, nil
}

func GetSubjectFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	sub, ok := claims[jwtClaimSubject].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimSubject)
	}
	return sub, nil
}

func GetRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}
	role, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimRole, roleClaim)
	}
	return role, nil
}
