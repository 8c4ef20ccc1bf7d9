package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

const (
	claimEmail     = "email"
	claimTelephone = "telephone"
)

const (
	msgRegistered = "user registered successfully"
	msgLoggedIn   = "login successful"
	msgUpdated    = "profile updated successfully"
	msgRefreshed  = "token refreshed successfully"
)

// dummyPassword is hashed once per service so that logins for unknown emails
// pay the same verification cost as logins with a wrong password.
const dummyPassword = "accounts-service:no-such-user"

// CredentialService orchestrates registration, login, profile update and
// token refresh. It holds no per-call state; every mutation re-issues both
// tokens so a token always reflects the latest persisted identity.
type CredentialService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens *TokenIssuer
	guard  ports.ClaimGuard
	audit  ports.AuditRecorder

	allowRoleSelection bool
	dummyHash          string
	now                func() time.Time
	log                zerolog.Logger
}

// CredentialOption customises a CredentialService.
type CredentialOption func(*CredentialService)

// WithClaimGuard reserves emails and telephones while they are being written.
func WithClaimGuard(g ports.ClaimGuard) CredentialOption {
	return func(s *CredentialService) { s.guard = g }
}

// WithAuditRecorder records the outcome of every operation.
func WithAuditRecorder(a ports.AuditRecorder) CredentialOption {
	return func(s *CredentialService) { s.audit = a }
}

// WithRoleSelection lets registrants pick a role other than CUSTOMER.
func WithRoleSelection(allow bool) CredentialOption {
	return func(s *CredentialService) { s.allowRoleSelection = allow }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) CredentialOption {
	return func(s *CredentialService) { s.now = now }
}

func NewCredentialService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens *TokenIssuer,
	log zerolog.Logger,
	opts ...CredentialOption,
) *CredentialService {
	s := &CredentialService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	hash, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("failed to precompute dummy password hash")
	}
	s.dummyHash = hash
	return s
}

// Register creates a new account after checking that neither the email nor
// the telephone is already claimed.
func (s *CredentialService) Register(ctx context.Context, req domain.RegistrationRequest) (*domain.AuthResult, error) {
	if req.Email == "" || req.Telephone == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email, telephone and password are required", domain.ErrInvalidInput)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, err
	}
	if role != domain.RoleCustomer && !s.allowRoleSelection {
		return nil, fmt.Errorf("%w: role %s cannot be self-assigned", domain.ErrForbidden, role)
	}

	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureTelephoneFree(ctx, req.Telephone, ""); err != nil {
		return nil, err
	}

	release, err := s.claim(ctx, claim{claimEmail, req.Email}, claim{claimTelephone, req.Telephone})
	if err != nil {
		return nil, err
	}
	defer release()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user, err := s.users.Save(ctx, &domain.User{
		Name:         req.Name,
		Surnames:     req.Surnames,
		Email:        req.Email,
		Telephone:    req.Telephone,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	access, refresh, err := s.tokens.pair(user)
	if err != nil {
		return nil, err
	}

	s.record(domain.EventRegistered, user.Email, user.ID)
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user registered")

	return &domain.AuthResult{
		StatusCode:   http.StatusCreated,
		Message:      msgRegistered,
		Token:        access,
		RefreshToken: refresh,
		User:         domain.NewUserView(user),
	}, nil
}

// Login authenticates email and password. An unknown email and a wrong
// password are indistinguishable to the caller.
func (s *CredentialService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.record(domain.EventLoginFailed, email, "")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.record(domain.EventLoginFailed, email, user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.pair(user)
	if err != nil {
		return nil, err
	}

	s.record(domain.EventLoggedIn, user.Email, user.ID)
	s.log.Debug().Str("user_id", user.ID).Msg("user logged in")

	return &domain.AuthResult{
		StatusCode:   http.StatusOK,
		Message:      msgLoggedIn,
		Token:        access,
		RefreshToken: refresh,
		User:         domain.NewUserView(user),
	}, nil
}

// UpdateMyData applies the non-nil fields of upd to the caller's account.
// Uniqueness of the submitted email and telephone is checked first, then the
// current password gates the whole update.
func (s *CredentialService) UpdateMyData(ctx context.Context, identity string, upd domain.ProfileUpdate, currentPassword string) (*domain.AuthResult, error) {
	if (upd.Email != nil && *upd.Email == "") || (upd.Telephone != nil && *upd.Telephone == "") {
		return nil, fmt.Errorf("%w: email and telephone cannot be blank", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, identity)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if upd.Email != nil {
		if err := s.ensureEmailFree(ctx, *upd.Email, user.ID); err != nil {
			return nil, err
		}
	}
	if upd.Telephone != nil {
		if err := s.ensureTelephoneFree(ctx, *upd.Telephone, user.ID); err != nil {
			return nil, err
		}
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return nil, fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidCredentials)
	}

	var claims []claim
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Surnames != nil {
		user.Surnames = *upd.Surnames
	}
	if upd.Telephone != nil && *upd.Telephone != user.Telephone {
		claims = append(claims, claim{claimTelephone, *upd.Telephone})
		user.Telephone = *upd.Telephone
	}
	if upd.Email != nil && *upd.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, *upd.Email)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: new email is already in use", domain.ErrDuplicateResource)
		}
		claims = append(claims, claim{claimEmail, *upd.Email})
		user.Email = *upd.Email
	}

	release, err := s.claim(ctx, claims...)
	if err != nil {
		return nil, err
	}
	defer release()

	user.UpdatedAt = s.now().UTC()
	updated, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	access, refresh, err := s.tokens.pair(updated)
	if err != nil {
		return nil, err
	}

	s.record(domain.EventProfileUpdated, updated.Email, updated.ID)
	s.log.Info().Str("user_id", updated.ID).Msg("profile updated")

	return &domain.AuthResult{
		StatusCode:   http.StatusOK,
		Message:      msgUpdated,
		Token:        access,
		RefreshToken: refresh,
		User:         domain.NewUpdatedUserView(updated),
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *CredentialService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	access, refresh, err := s.tokens.pair(user)
	if err != nil {
		return nil, err
	}

	s.record(domain.EventTokenRefreshed, user.Email, user.ID)

	return &domain.AuthResult{
		StatusCode:   http.StatusOK,
		Message:      msgRefreshed,
		Token:        access,
		RefreshToken: refresh,
		User:         domain.NewUserView(user),
	}, nil
}

// Profile returns the public view of the caller's account.
func (s *CredentialService) Profile(ctx context.Context, identity string) (*domain.UserView, error) {
	user, err := s.users.FindByEmail(ctx, identity)
	if err != nil {
		return nil, err
	}
	return domain.NewUserView(user), nil
}

func (s *CredentialService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	return conflict(existing, err, selfID, "email is already registered")
}

func (s *CredentialService) ensureTelephoneFree(ctx context.Context, telephone, selfID string) error {
	existing, err := s.users.FindByTelephone(ctx, telephone)
	return conflict(existing, err, selfID, "telephone is already registered")
}

// conflict turns a lookup result into ErrDuplicateResource when the value is
// held by a user other than selfID.
func conflict(existing *domain.User, err error, selfID, msg string) error {
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("uniqueness check: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateResource, msg)
	}
	return nil
}

type claim struct {
	kind  string
	value string
}

// claim reserves every value through the guard. A value held by someone else
// fails the call with ErrDuplicateResource; a guard outage is logged and the
// store's unique indexes remain the last line. The returned func releases
// whatever was acquired.
func (s *CredentialService) claim(ctx context.Context, claims ...claim) (func(), error) {
	if s.guard == nil || len(claims) == 0 {
		return func() {}, nil
	}

	var held []claim
	release := func() {
		rctx := context.WithoutCancel(ctx)
		for _, c := range held {
			if err := s.guard.Release(rctx, c.kind, c.value); err != nil {
				s.log.Warn().Err(err).Str("kind", c.kind).Msg("failed to release claim")
			}
		}
	}

	for _, c := range claims {
		ok, err := s.guard.Acquire(ctx, c.kind, c.value)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", c.kind).Msg("claim guard unavailable, relying on store constraints")
			continue
		}
		if !ok {
			release()
			return nil, fmt.Errorf("%w: %s is being claimed by another request", domain.ErrDuplicateResource, c.kind)
		}
		held = append(held, c)
	}
	return release, nil
}

func (s *CredentialService) record(typ domain.AccountEventType, email, userID string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AccountEvent{
		Type:       typ,
		Email:      email,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
	})
}
