// Package service implements the credential and session authority: login,
// registration, password change and reset, external login, and role
// resolution. It composes the security primitives with the account
// repository and emits audit events for every credential-affecting operation.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sdms/backend/internal/account/domain"
	"sdms/backend/internal/account/repository"
	"sdms/backend/internal/extauth"
	"sdms/backend/internal/security"
)

// Sentinel errors for the credential authority; the transport layer maps them
// to uniform external responses.
var (
	// ErrInvalidCredentials covers unknown email, inactive account, and wrong
	// password alike, so a caller cannot enumerate accounts from the error.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailAlreadyRegistered is returned when registration collides with
	// an existing email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrEmailInUse is returned when a profile update would take another
	// account's email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrAccountNotFound is returned for operations on a missing account id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrStartupNotFound is returned when employee registration names a
	// startup that does not exist.
	ErrStartupNotFound = errors.New("startup not found")
	// ErrInvalidResetToken covers every reset redemption failure: unknown
	// email, token mismatch, and expired token.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrInvalidEmail is returned for malformed email input.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when a new password is shorter than the
	// minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// AuthResult holds the outcome of a successful login.
type AuthResult struct {
	AccountID int64
	Email     string
	Username  string
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
}

// AccountRepo is the account persistence needed by the auth service.
type AccountRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account, p domain.Profile) error
	Update(ctx context.Context, a *domain.Account) error
	ProfileLinks(ctx context.Context, id int64) (domain.ProfileLinks, error)
}

// StartupChecker validates startup linkage targets for employee registration.
type StartupChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ExternalVerifier validates third-party identity assertions.
type ExternalVerifier interface {
	Verify(ctx context.Context, provider, assertion string) (*extauth.Identity, error)
}

// AuditLogger records credential events. Implementations must be best-effort;
// the service never checks for audit failure.
type AuditLogger interface {
	LogUserAction(ctx context.Context, accountID int64, action, detail string)
	LogEntityChange(ctx context.Context, action string, entityID int64, oldValue, newValue any)
}

// AuthService is the credential authority orchestrator. It is stateless per
// call; the only state between calls is the signed token held by the client.
type AuthService struct {
	accounts AccountRepo
	startups StartupChecker
	external ExternalVerifier
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	audit    AuditLogger
	resetTTL time.Duration
	now      func() time.Time

	// dummy digest verified on the unknown-email login path so a missing
	// account costs the same as a wrong password.
	dummyHash []byte
	dummySalt []byte
}

// NewAuthService returns an AuthService with the given dependencies.
// startups and external may be nil when employee registration or external
// login are not wired.
func NewAuthService(
	accounts AccountRepo,
	startups StartupChecker,
	external ExternalVerifier,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	audit AuditLogger,
	resetTTL time.Duration,
) (*AuthService, error) {
	dummy, err := randomSecret()
	if err != nil {
		return nil, err
	}
	dummyHash, dummySalt, err := hasher.Hash(dummy)
	if err != nil {
		return nil, err
	}
	if resetTTL <= 0 {
		resetTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:  accounts,
		startups:  startups,
		external:  external,
		hasher:    hasher,
		tokens:    tokens,
		audit:     audit,
		resetTTL:  resetTTL,
		now:       time.Now,
		dummyHash: dummyHash,
		dummySalt: dummySalt,
	}, nil
}

// Login authenticates with email and password and returns a fresh session
// token. Unknown email, inactive account, and wrong password all fail with
// the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acct == nil || !acct.Active {
		// Burn a verification anyway so the miss is not observably faster.
		s.hasher.Verify(password, s.dummyHash, s.dummySalt)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, acct.PasswordHash, acct.PasswordSalt) {
		return nil, ErrInvalidCredentials
	}
	result, err := s.issueFor(ctx, acct)
	if err != nil {
		return nil, err
	}
	s.audit.LogUserAction(ctx, acct.ID, "Login", "Successful login")
	return result, nil
}

// RegisterAdminInput carries the fields for admin registration.
type RegisterAdminInput struct {
	Email      string
	Username   string
	Name       string
	Phone      string
	Password   string
	AdminLevel string
	Department string
}

// RegisterAdmin creates an account with a linked administrator profile.
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*domain.Account, error) {
	return s.register(ctx, registration{
		Email:    in.Email,
		Username: in.Username,
		Name:     in.Name,
		Phone:    in.Phone,
		Password: in.Password,
	}, domain.AdminProfile{AdminLevel: in.AdminLevel, Department: in.Department})
}

// RegisterFounderInput carries the fields for startup-founder registration.
type RegisterFounderInput struct {
	Email       string
	Username    string
	Name        string
	Phone       string
	Password    string
	CompanyName string
}

// RegisterFounder creates an account with a linked startup-founder profile.
func (s *AuthService) RegisterFounder(ctx context.Context, in RegisterFounderInput) (*domain.Account, error) {
	return s.register(ctx, registration{
		Email:    in.Email,
		Username: in.Username,
		Name:     in.Name,
		Phone:    in.Phone,
		Password: in.Password,
	}, domain.FounderProfile{CompanyName: in.CompanyName})
}

// RegisterEmployeeInput carries the fields for employee registration.
type RegisterEmployeeInput struct {
	Email        string
	Username     string
	Name         string
	Phone        string
	Password     string
	StartupID    int64
	EmployeeRole string
}

// RegisterEmployee creates an account with a linked employee profile after
// validating that the startup exists.
func (s *AuthService) RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*domain.Account, error) {
	if s.startups == nil {
		return nil, ErrStartupNotFound
	}
	exists, err := s.startups.Exists(ctx, in.StartupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStartupNotFound
	}
	return s.register(ctx, registration{
		Email:    in.Email,
		Username: in.Username,
		Name:     in.Name,
		Phone:    in.Phone,
		Password: in.Password,
	}, domain.EmployeeProfile{
		StartupID:    in.StartupID,
		EmployeeRole: in.EmployeeRole,
		HireDate:     s.now().UTC(),
	})
}

type registration struct {
	Email    string
	Username string
	Name     string
	Phone    string
	Password string
}

// register creates the account and its profile in one transaction. The email
// uniqueness pre-check keeps the common duplicate case cheap; the storage
// unique constraint settles concurrent registrations.
func (s *AuthService) register(ctx context.Context, in registration, profile domain.Profile) (*domain.Account, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hash, salt, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	acct := &domain.Account{
		Email:        email,
		Username:     strings.TrimSpace(in.Username),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         profile.Role(),
		PasswordHash: hash,
		PasswordSalt: salt,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, acct, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	s.audit.LogEntityChange(ctx, "Create", acct.ID, nil, accountSummary(acct))
	return acct, nil
}

// ChangePassword verifies the current password and replaces the stored
// hash/salt with a fresh derivation of newPassword.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int64, currentPassword, newPassword string) error {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrInvalidCredentials
	}
	if !s.hasher.Verify(currentPassword, acct.PasswordHash, acct.PasswordSalt) {
		return ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, salt, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	acct.PasswordHash = hash
	acct.PasswordSalt = salt
	acct.UpdatedAt = s.now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		return err
	}
	s.audit.LogUserAction(ctx, acct.ID, "PasswordChange", "Password changed successfully")
	return nil
}

// UpdateProfileInput carries the mutable account fields.
type UpdateProfileInput struct {
	Email  string
	Name   string
	Phone  string
	Active bool
}

// UpdateProfile applies the input to the account. An email change is checked
// for uniqueness against every other account and fails with ErrEmailInUse.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID int64, in UpdateProfileInput) (*domain.Account, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}
	newEmail := normalizeEmail(in.Email)
	if newEmail != acct.Email {
		if err := validateEmail(newEmail); err != nil {
			return nil, err
		}
		other, err := s.accounts.GetByEmail(ctx, newEmail)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != acct.ID {
			return nil, ErrEmailInUse
		}
	}
	old := accountSummary(acct)
	acct.Email = newEmail
	acct.Name = strings.TrimSpace(in.Name)
	acct.Phone = strings.TrimSpace(in.Phone)
	acct.Active = in.Active
	acct.UpdatedAt = s.now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.audit.LogEntityChange(ctx, "Update", acct.ID, old, accountSummary(acct))
	return acct, nil
}

// Deactivate marks the account inactive. Deactivated accounts fail login with
// the generic credential error; outstanding tokens still run to expiry.
func (s *AuthService) Deactivate(ctx context.Context, accountID int64) error {
	return s.setActive(ctx, accountID, false, "Deactivate", "Account deactivated")
}

// Reactivate marks the account active again.
func (s *AuthService) Reactivate(ctx context.Context, accountID int64) error {
	return s.setActive(ctx, accountID, true, "Reactivate", "Account reactivated")
}

func (s *AuthService) setActive(ctx context.Context, accountID int64, active bool, action, detail string) error {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrAccountNotFound
	}
	acct.Active = active
	acct.UpdatedAt = s.now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		return err
	}
	s.audit.LogUserAction(ctx, acct.ID, action, detail)
	return nil
}

// RequestPasswordReset generates a single-use reset token for the account
// with the given email and stores it with an expiry. The token is returned to
// the delivery collaborator and never audited. An unknown email returns
// ("", nil) so the caller-visible response is identical either way.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	acct, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	if acct == nil {
		return "", nil
	}
	token, err := security.NewResetToken()
	if err != nil {
		return "", err
	}
	expires := s.now().UTC().Add(s.resetTTL)
	acct.ResetToken = token
	acct.ResetTokenExpires = &expires
	acct.UpdatedAt = s.now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		return "", err
	}
	s.audit.LogUserAction(ctx, acct.ID, "PasswordResetRequested", "Password reset token generated")
	return token, nil
}

// ResetPassword redeems a reset token. It succeeds only when the email
// matches, the stored token equals the supplied one, and the expiry has not
// passed; every failure is the same ErrInvalidResetToken. On success the new
// hash/salt and the cleared token are written in one update, so the token can
// never be redeemed twice.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	acct, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrInvalidResetToken
	}
	if !security.ResetTokenEqual(token, acct.ResetToken) {
		return ErrInvalidResetToken
	}
	if acct.ResetTokenExpires == nil || !s.now().UTC().Before(*acct.ResetTokenExpires) {
		return ErrInvalidResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, salt, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	acct.PasswordHash = hash
	acct.PasswordSalt = salt
	acct.ClearResetToken()
	acct.UpdatedAt = s.now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		return err
	}
	s.audit.LogUserAction(ctx, acct.ID, "PasswordReset", "Password reset successfully")
	return nil
}

// ExternalLogin validates a third-party identity assertion and logs the
// matching local account in, creating it first if the verified email is
// unknown. New accounts get a random unusable local password and a founder
// profile; password login stays impossible until an explicit reset.
func (s *AuthService) ExternalLogin(ctx context.Context, provider, assertion string) (*AuthResult, error) {
	if s.external == nil {
		return nil, extauth.ErrUnsupportedProvider
	}
	ident, err := s.external.Verify(ctx, provider, assertion)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(ident.Email)
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		acct, err = s.createExternalAccount(ctx, ident, email)
		if err != nil {
			return nil, err
		}
	}
	if !acct.Active {
		return nil, ErrInvalidCredentials
	}
	result, err := s.issueFor(ctx, acct)
	if err != nil {
		return nil, err
	}
	s.audit.LogUserAction(ctx, acct.ID, "ExternalLogin",
		fmt.Sprintf("Successful login via %s", ident.Provider))
	return result, nil
}

func (s *AuthService) createExternalAccount(ctx context.Context, ident *extauth.Identity, email string) (*domain.Account, error) {
	// Unusable local password: random, thrown away after hashing.
	secret, err := randomSecret()
	if err != nil {
		return nil, err
	}
	hash, salt, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	acct := &domain.Account{
		Email:        email,
		Username:     email,
		Name:         strings.TrimSpace(ident.Name),
		Role:         domain.RoleFounder,
		PasswordHash: hash,
		PasswordSalt: salt,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.accounts.Create(ctx, acct, domain.FounderProfile{})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a concurrent find-or-create for the same email; the row
			// exists now, use it.
			return s.accounts.GetByEmail(ctx, email)
		}
		return nil, err
	}
	s.audit.LogEntityChange(ctx, "Create", acct.ID, nil, accountSummary(acct))
	return acct, nil
}

// ResolveRole derives the account's effective role from its profile linkage.
func (s *AuthService) ResolveRole(ctx context.Context, accountID int64) (domain.Role, error) {
	links, err := s.accounts.ProfileLinks(ctx, accountID)
	if err != nil {
		return "", err
	}
	return links.EffectiveRole(), nil
}

// ValidateToken validates a bearer token and returns its claims.
func (s *AuthService) ValidateToken(token string) (*security.Claims, error) {
	return s.tokens.Validate(token)
}

// issueFor resolves the account's role from its linkage and mints a token.
func (s *AuthService) issueFor(ctx context.Context, acct *domain.Account) (*AuthResult, error) {
	role, err := s.ResolveRole(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.Issue(acct.ID, string(role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccountID: acct.ID,
		Email:     acct.Email,
		Username:  acct.Username,
		Role:      role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

type summary struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role"`
	Active   bool        `json:"active"`
}

func accountSummary(a *domain.Account) summary {
	return summary{ID: a.ID, Email: a.Email, Username: a.Username, Role: a.Role, Active: a.Active}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return security.ErrEmptyPassword
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
