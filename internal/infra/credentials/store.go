package credentials

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"kovil/internal/domain"
	"kovil/internal/infra"
)

const minUsernameLength = 3

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)

	commonPrefixes = []string{"password", "123456", "admin", "temple"}
)

// WeakPasswordError lists every strength rule a new password failed.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "password does not meet security requirements: " + strings.Join(e.Reasons, ", ")
}

// ChangeRequest is a signed-in admin asking to replace their username and password.
type ChangeRequest struct {
	CurrentUsername string
	CurrentPassword string
	NewUsername     string
	NewPassword     string
	ConfirmPassword string
}

// Store validates and maintains administrator credentials.
type Store struct {
	repo   domain.AdminRepository
	logger zerolog.Logger
	cost   int
}

func NewStore(repo domain.AdminRepository, logger zerolog.Logger) *Store {
	return &Store{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *Store) WithCost(cost int) *Store {
	s.cost = cost
	return s
}

// Seed creates the given accounts when their username is still free and
// returns how many were inserted. Existing accounts are never overwritten.
func (s *Store) Seed(ctx context.Context, seeds []infra.AdminSeed) (int, error) {
	created := 0
	for _, seed := range seeds {
		role := domain.AdminRole(strings.ToLower(strings.TrimSpace(seed.Role)))
		if role == "" {
			role = domain.AdminRoleAdmin
		}
		if !role.Valid() {
			return created, fmt.Errorf("seed %q: unknown role %q", seed.Username, seed.Role)
		}
		hash, err := s.hash(seed.Password)
		if err != nil {
			return created, err
		}
		admin := &domain.Admin{
			ID:           uuid.NewString(),
			Username:     strings.TrimSpace(seed.Username),
			PasswordHash: hash,
			Role:         role,
		}
		ok, err := s.repo.Insert(ctx, admin)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", seed.Username, err)
		}
		if ok {
			created++
			s.logger.Info().Str("username", admin.Username).Str("role", string(role)).Msg("admin account seeded")
		}
	}
	return created, nil
}

// Validate checks a username/password pair. Unknown users and wrong passwords
// both yield domain.ErrInvalidCredentials.
func (s *Store) Validate(ctx context.Context, username, password string) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.repo.TouchLogin(ctx, admin.ID); err != nil {
		s.logger.Warn().Err(err).Str("username", admin.Username).Msg("record login time")
	}
	return admin, nil
}

func (s *Store) Get(ctx context.Context, username string) (*domain.Admin, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

func (s *Store) List(ctx context.Context) ([]domain.Admin, error) {
	return s.repo.List(ctx)
}

// Update replaces the credentials of the signed-in admin after re-checking
// the current password.
func (s *Store) Update(ctx context.Context, req ChangeRequest) (*domain.Admin, error) {
	newUsername := strings.TrimSpace(req.NewUsername)
	if req.CurrentPassword == "" || newUsername == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return nil, &domain.ValidationError{Reasons: []string{"All fields are required"}}
	}
	if req.NewPassword != req.ConfirmPassword {
		return nil, &domain.ValidationError{Reasons: []string{"New password and confirm password do not match"}}
	}
	if len(newUsername) < minUsernameLength {
		return nil, &domain.ValidationError{Reasons: []string{fmt.Sprintf("Username must be at least %d characters long", minUsernameLength)}}
	}

	admin, err := s.Validate(ctx, req.CurrentUsername, req.CurrentPassword)
	if err != nil {
		return nil, err
	}
	if reasons := CheckPasswordStrength(req.NewPassword); len(reasons) > 0 {
		return nil, &WeakPasswordError{Reasons: reasons}
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCredentials(ctx, admin.ID, newUsername, hash); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, &domain.ValidationError{Reasons: []string{"Username is already taken"}}
		}
		return nil, fmt.Errorf("update credentials: %w", err)
	}
	s.logger.Info().Str("from", admin.Username).Str("to", newUsername).Msg("admin credentials changed")

	admin.Username = newUsername
	admin.PasswordHash = hash
	return admin, nil
}

// SetPassword creates the account or resets its password without the
// current-password check. It backs the operator CLI.
func (s *Store) SetPassword(ctx context.Context, username, password string, role domain.AdminRole) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength {
		return nil, &domain.ValidationError{Reasons: []string{fmt.Sprintf("Username must be at least %d characters long", minUsernameLength)}}
	}
	if reasons := CheckPasswordStrength(password); len(reasons) > 0 {
		return nil, &WeakPasswordError{Reasons: reasons}
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if err := s.repo.UpdateCredentials(ctx, existing.ID, existing.Username, hash); err != nil {
			return nil, fmt.Errorf("reset password: %w", err)
		}
		existing.PasswordHash = hash
		return existing, nil
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}

	if role == "" {
		role = domain.AdminRoleAdmin
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	admin := &domain.Admin{ID: uuid.NewString(), Username: username, PasswordHash: hash, Role: role}
	ok, err := s.repo.Insert(ctx, admin)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	if !ok {
		return nil, &domain.ValidationError{Reasons: []string{"Username is already taken"}}
	}
	return admin, nil
}

// CheckPasswordStrength returns the rules password breaks, in a fixed order.
func CheckPasswordStrength(password string) []string {
	var reasons []string
	if len(password) < 8 {
		reasons = append(reasons, "Password must be at least 8 characters long")
	}
	if !upperRe.MatchString(password) {
		reasons = append(reasons, "Password must contain at least one uppercase letter")
	}
	if !lowerRe.MatchString(password) {
		reasons = append(reasons, "Password must contain at least one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		reasons = append(reasons, "Password must contain at least one number")
	}
	if !specialRe.MatchString(password) {
		reasons = append(reasons, "Password must contain at least one special character")
	}
	lower := strings.ToLower(password)
	for _, prefix := range commonPrefixes {
		if strings.HasPrefix(lower, prefix) {
			reasons = append(reasons, "Password contains common patterns and is not secure")
			break
		}
	}
	return reasons
}

func (s *Store) hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	raw, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(raw), nil
}
