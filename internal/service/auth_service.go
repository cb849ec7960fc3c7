package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository/ports"
	"github.com/quizhub/quizhub-api/internal/util"
)

// Mailer delivers the account mails. Implementations own formatting and
// transport; the service only decides when a mail goes out.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, secret string) error
}

type AuthService struct {
	accounts ports.AccountRepository
	mailer   Mailer
	jwt      *util.JWTManager
	resetTTL time.Duration
	aud      string

	validateGoogleToken func(ctx context.Context, idTok, audience string) (*idtoken.Payload, error)
}

func NewAuthService(accounts ports.AccountRepository, mailer Mailer, jwt *util.JWTManager, resetTTL time.Duration, googleAud string) *AuthService {
	return &AuthService{
		accounts:            accounts,
		mailer:              mailer,
		jwt:                 jwt,
		resetTTL:            resetTTL,
		aud:                 googleAud,
		validateGoogleToken: idtoken.Validate,
	}
}

type LoginResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// Register creates an unverified account and mails a verification link.
// The token never appears in the response; the ack is the same whether or
// not the mail body is ever read.
func (s *AuthService) Register(ctx context.Context, username, email, password, confirmPassword string) error {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" || confirmPassword == "" {
		return domain.Validation("all fields are required")
	}
	if password != confirmPassword {
		return domain.Validation("passwords do not match")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, username, email, hash, domain.RoleUser)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create account: %w", err)
	}

	return s.sendVerification(ctx, account)
}

// VerifyEmail consumes a verification token. Verifying twice reports
// ErrAlreadyVerified rather than silently succeeding again.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwt.Parse(token, util.PurposeVerify)
	if err != nil {
		return domain.ErrInvalidToken
	}
	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}
	if account.IsVerified {
		return domain.ErrAlreadyVerified
	}
	if err := s.accounts.MarkVerified(ctx, account.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// ResendVerification issues a fresh token with its own full TTL,
// independent of whatever the registration mail carried.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}
	if account.IsVerified {
		return domain.ErrAlreadyVerified
	}
	return s.sendVerification(ctx, account)
}

// Login authenticates by email. Unverified accounts are refused before
// the password verdict matters: correct credentials never earn a session
// until the email is confirmed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !account.IsVerified {
		return nil, domain.ErrUnverified
	}
	if !util.VerifyPassword(password, account.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}
	return s.issueSession(account)
}

// LoginWithGoogle validates a Google ID token and signs the bearer in,
// creating a verified account on first sight of the email.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (*LoginResult, error) {
	if s.aud == "" {
		return nil, domain.ErrBadCredentials
	}
	payload, err := s.validateGoogleToken(ctx, idTok, s.aud)
	if err != nil {
		return nil, domain.ErrBadCredentials
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, domain.ErrBadCredentials
	}
	account, err := s.accounts.UpsertGoogleAccount(ctx, name, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("upsert account: %w", err)
	}
	return s.issueSession(account)
}

// Authenticate resolves the account behind a session token. The account
// is re-fetched so a deleted account fails even with a valid signature.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.jwt.Parse(token, util.PurposeSession)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}

// RequestPasswordReset stores the digest of a fresh secret and mails the
// raw value. A pending reset for the same account is overwritten: last
// write wins, only the newest secret is honored.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	secret, err := util.GenerateResetSecret()
	if err != nil {
		return fmt.Errorf("generate reset secret: %w", err)
	}
	expiry := time.Now().Add(s.resetTTL)
	if err := s.accounts.SetResetSecret(ctx, account.ID, util.HashResetSecret(secret), expiry); err != nil {
		return fmt.Errorf("store reset secret: %w", err)
	}
	if err := s.mailer.SendPasswordReset(ctx, account.Email, secret); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset secret. Wrong and expired secrets are
// indistinguishable from the outside; a consumed secret is cleared and
// cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, rawSecret, newPassword, confirmPassword string) error {
	if newPassword == "" || confirmPassword == "" {
		return domain.Validation("all fields are required")
	}
	if newPassword != confirmPassword {
		return domain.Validation("passwords do not match")
	}

	account, err := s.accounts.FindByResetSecretHash(ctx, util.HashResetSecret(rawSecret), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidResetSecret
		}
		return fmt.Errorf("find account: %w", err)
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.accounts.ClearResetSecret(ctx, account.ID); err != nil {
		return fmt.Errorf("clear reset secret: %w", err)
	}
	return nil
}

// ChangePassword rotates the password of an authenticated account.
func (s *AuthService) ChangePassword(ctx context.Context, account *domain.Account, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.Validation("all fields are required")
	}
	if !util.VerifyPassword(currentPassword, account.PasswordHash) {
		return domain.ErrBadCredentials
	}
	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ListAccounts trusts the transport layer to have clamped the page
// bounds; it forwards them as-is so the reported pagination always
// matches the query that ran.
func (s *AuthService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	return s.accounts.List(ctx, limit, offset)
}

func (s *AuthService) issueSession(account *domain.Account) (*LoginResult, error) {
	token, expiresAt, err := s.jwt.GenerateSession(account)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &LoginResult{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) sendVerification(ctx context.Context, account *domain.Account) error {
	token, _, err := s.jwt.GenerateVerification(account.ID)
	if err != nil {
		return fmt.Errorf("sign verification token: %w", err)
	}
	if err := s.mailer.SendVerification(ctx, account.Email, token); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
