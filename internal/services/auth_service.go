package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fathima-sithara/taskhub/internal/mailer"
	"github.com/fathima-sithara/taskhub/internal/models"
	"github.com/fathima-sithara/taskhub/internal/repository"
	"github.com/fathima-sithara/taskhub/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost matches the cost the rest of the platform uses for
// account passwords.
const passwordHashCost = 10

type authService struct {
	users         repository.UserRepository
	verifications repository.VerificationRepository
	tokens        *token.Issuer
	mail          mailer.Mailer

	frontendURL      string
	verificationTTL  time.Duration
	resetPasswordTTL time.Duration
	sessionTTL       time.Duration
	dispatchTimeout  time.Duration

	logger *zap.SugaredLogger
}

type AuthServiceOpts struct {
	FrontendURL      string
	VerificationTTL  time.Duration
	ResetPasswordTTL time.Duration
	SessionTTL       time.Duration
	DispatchTimeout  time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	verifications repository.VerificationRepository,
	tokens *token.Issuer,
	mail mailer.Mailer,
	opts AuthServiceOpts,
	logger *zap.SugaredLogger,
) AuthService {
	return &authService{
		users:            users,
		verifications:    verifications,
		tokens:           tokens,
		mail:             mail,
		frontendURL:      opts.FrontendURL,
		verificationTTL:  opts.VerificationTTL,
		resetPasswordTTL: opts.ResetPasswordTTL,
		sessionTTL:       opts.SessionTTL,
		dispatchTimeout:  opts.DispatchTimeout,
		logger:           logger,
	}
}

// Register creates an unverified account and dispatches a verification email.
// The user and verification record stay persisted even when the dispatch
// fails, so the login flow can re-send later.
func (s *authService) Register(ctx context.Context, name, email, password string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// The unique index on email catches registrations that raced
			// past the existence check above.
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return s.sendVerificationEmail(ctx, user)
}

// Login authenticates a user and returns a session token plus the user.
// Login never succeeds for an unverified user: if the outstanding
// verification record is still active the user is told to check their inbox,
// otherwise a fresh verification email is issued and sent.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		// Same failure as a wrong password, to prevent user enumeration.
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsEmailVerified {
		rec, err := s.verifications.FindByUserAndPurpose(ctx, user.ID, string(token.PurposeEmailVerification))
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("failed to check verification record: %w", err)
		}
		if rec != nil && rec.Active(time.Now()) {
			return "", nil, ErrEmailNotVerified
		}
		if err := s.verifications.DeleteByUserAndPurpose(ctx, user.ID, string(token.PurposeEmailVerification)); err != nil {
			return "", nil, fmt.Errorf("failed to purge stale verification record: %w", err)
		}
		if err := s.sendVerificationEmail(ctx, user); err != nil {
			return "", nil, err
		}
		return "", nil, ErrVerificationResent
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.SetLastLogin(ctx, user.ID, now); err != nil {
		// Authentication already succeeded, log and keep going.
		s.logger.Warnw("failed to update last login", "user_id", user.ID.Hex(), "error", err)
	}
	user.LastLogin = &now

	session, err := s.tokens.Issue(user.ID.Hex(), token.PurposeLogin, s.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return session, user, nil
}

// VerifyEmail consumes a verification token, flipping the user to verified.
// The record is deleted only after the flag is persisted, so an interrupted
// call can be retried with the same token.
func (s *authService) VerifyEmail(ctx context.Context, tokenStr string) error {
	claims, err := s.tokens.Verify(tokenStr, token.PurposeEmailVerification)
	if err != nil {
		return ErrUnauthorized
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return ErrUnauthorized
	}

	rec, err := s.verifications.Find(ctx, userID, tokenStr)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("failed to find verification record: %w", err)
	}
	// The record's own expiry is authoritative, it matches the original
	// issuance even if the signed token says otherwise.
	if !rec.Active(time.Now()) {
		return ErrTokenExpired
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if err := s.verifications.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to consume verification record: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a reset token for a verified account and emails
// the reset link. Unverified accounts get no reset path.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsEmailVerified {
		return ErrEmailNotVerified
	}

	rec, err := s.verifications.FindByUserAndPurpose(ctx, user.ID, string(token.PurposePasswordReset))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check reset record: %w", err)
	}
	if rec != nil {
		if rec.Active(time.Now()) {
			return ErrResetAlreadySent
		}
		if err := s.verifications.DeleteByUserAndPurpose(ctx, user.ID, string(token.PurposePasswordReset)); err != nil {
			return fmt.Errorf("failed to purge stale reset record: %w", err)
		}
	}

	signed, err := s.issueRecord(ctx, user.ID, token.PurposePasswordReset, s.resetPasswordTTL)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrResetAlreadySent
		}
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, signed)
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password</p>`, link)
	return s.dispatch(ctx, user.Email, "Reset Password", body)
}

// CompletePasswordReset consumes a reset token and stores the new password.
// The record is deleted only after the new hash is persisted.
func (s *authService) CompletePasswordReset(ctx context.Context, tokenStr, newPassword, confirmPassword string) error {
	claims, err := s.tokens.Verify(tokenStr, token.PurposePasswordReset)
	if err != nil {
		return ErrUnauthorized
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return ErrUnauthorized
	}

	rec, err := s.verifications.Find(ctx, userID, tokenStr)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("failed to find reset record: %w", err)
	}
	if !rec.Active(time.Now()) {
		return ErrTokenExpired
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.verifications.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to consume reset record: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to its user.
func (s *authService) Authenticate(ctx context.Context, tokenStr string) (*models.User, error) {
	claims, err := s.tokens.Verify(tokenStr, token.PurposeLogin)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// sendVerificationEmail issues a fresh verification token, records it in the
// ledger and dispatches the link.
func (s *authService) sendVerificationEmail(ctx context.Context, user *models.User) error {
	signed, err := s.issueRecord(ctx, user.ID, token.PurposeEmailVerification, s.verificationTTL)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailNotVerified
		}
		return err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, signed)
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email</p>`, link)
	return s.dispatch(ctx, user.Email, "Verify your email", body)
}

func (s *authService) issueRecord(ctx context.Context, userID primitive.ObjectID, purpose token.Purpose, ttl time.Duration) (string, error) {
	signed, err := s.tokens.Issue(userID.Hex(), purpose, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to issue %s token: %w", purpose, err)
	}
	rec := &models.Verification{
		UserID:    userID,
		Token:     signed,
		Purpose:   string(purpose),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.verifications.Create(ctx, rec); err != nil {
		return "", err
	}
	return signed, nil
}

func (s *authService) dispatch(ctx context.Context, to, subject, body string) error {
	dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	if err := s.mail.Send(dctx, to, subject, body); err != nil {
		s.logger.Errorw("email dispatch failed", "to", to, "subject", subject, "error", err)
		return ErrDispatchFailed
	}
	return nil
}
