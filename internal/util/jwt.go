package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain"
)

// TokenPurpose distinguishes the two claim shapes signed with the same
// key. A verification token must never pass as a session and vice versa.
type TokenPurpose string

const (
	PurposeSession TokenPurpose = "session"
	PurposeVerify  TokenPurpose = "verify"
)

type Claims struct {
	AccountID uuid.UUID    `json:"sub_id"`
	Username  string       `json:"username,omitempty"`
	Role      domain.Role  `json:"role,omitempty"`
	Purpose   TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies session and verification tokens. The key
// is injected at construction and read-only afterwards.
type JWTManager struct {
	secret          []byte
	sessionTTL      time.Duration
	verificationTTL time.Duration
}

func NewJWTManager(secret string, sessionTTL, verificationTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), sessionTTL: sessionTTL, verificationTTL: verificationTTL}
}

func (m *JWTManager) SessionTTL() time.Duration {
	return m.sessionTTL
}

func (m *JWTManager) GenerateSession(account *domain.Account) (string, time.Time, error) {
	return m.generate(Claims{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		Purpose:   PurposeSession,
	}, m.sessionTTL)
}

func (m *JWTManager) GenerateVerification(accountID uuid.UUID) (string, time.Time, error) {
	return m.generate(Claims{
		AccountID: accountID,
		Purpose:   PurposeVerify,
	}, m.verificationTTL)
}

func (m *JWTManager) generate(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.AccountID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, expiry, and purpose. All failure modes
// collapse into domain.ErrInvalidToken so forged and merely expired
// tokens are indistinguishable to callers.
func (m *JWTManager) Parse(tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, domain.ErrInvalidToken
	}
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
