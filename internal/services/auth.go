package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// JWTClaims is what the identity provider signs. Subject carries the user id.
type JWTClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AuthService identifies the actor behind a request. Issuing tokens happens elsewhere.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log          *logger.Logger
	actors       ActorService
	jwtSecretKey string
}

func NewAuthService(log *logger.Logger, actors ActorService, jwtSecretKey string) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		actors:       actors,
		jwtSecretKey: jwtSecretKey,
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, ErrInvalidToken
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	// best effort: the request proceeds without a refreshed actor row
	if as.actors != nil {
		if err := as.actors.Touch(ctx, userID, claims.Name, claims.Email); err != nil {
			as.log.Warn("actor upsert failed", "actor_id", userID, "error", err)
		}
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:   userID,
		UserName: claims.Name,
	}), nil
}
