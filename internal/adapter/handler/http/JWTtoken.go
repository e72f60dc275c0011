package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type JWTTokenService struct {
	secretKey []byte
	issuer    string
	duration  time.Duration
	logger    ports.LoggerPort
}

func NewJWTTokenService(secretKey, issuer string, duration time.Duration, logger ports.LoggerPort) *JWTTokenService {
	return &JWTTokenService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		duration:  duration,
		logger:    logger,
	}
}

// CreateToken signs an HS256 token carrying the user's id, email and roles.
func (j *JWTTokenService) CreateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: user.Email,
		Roles: user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		j.logger.Error("Failed to sign jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "CreateToken",
		})
		return "", err
	}

	return signed, nil
}

func (j *JWTTokenService) VerifyToken(token string) (*domain.TokenPayload, error) {
	parsedToken, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	})
	if err != nil {
		j.logger.Error("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return nil, err
	}

	claims, ok := parsedToken.Claims.(*tokenClaims)
	if !ok {
		j.logger.Error("Failed claims from token", map[string]interface{}{
			"method": "VerifyToken",
		})
		return nil, errors.New("failed to verify")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.New("invalid subject claim")
	}

	payload := &domain.TokenPayload{
		UserID: userID,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}

	return payload, nil
}
