package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"riot-reimagined/internal/config"
	"riot-reimagined/internal/constants"
	"riot-reimagined/internal/domain"
	"riot-reimagined/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenSecretMissing = errors.New("JWT_SECRET is not configured")
)

// UserStore is the persistence the user directory needs.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateRiotID(ctx context.Context, id, gameName, tagLine string) error
}

type SignupInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RiotIDInput struct {
	GameName string `json:"gameName" validate:"required,max=32"`
	TagLine  string `json:"tagLine" validate:"required,max=8"`
}

type UserService struct {
	store    UserStore
	secret   []byte
	validate *validator.Validate
	now      func() time.Time
	logger   zerolog.Logger
}

func NewUserService(store UserStore, cfg *config.Config, logger zerolog.Logger) *UserService {
	return &UserService{
		store:    store,
		secret:   []byte(cfg.JWTSecret),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		logger:   logger,
	}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = repository.NormalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	_, err := s.store.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, errors.Wrap(err, "lookup email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), constants.PasswordHashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, errors.Wrap(err, "generate user id")
	}

	user := &domain.User{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, errors.Wrap(err, "create user")
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user created")
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are reported identically.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, *domain.User, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	user, err := s.store.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, errors.Wrap(err, "lookup email")
	}
	if !VerifyPassword(user, in.Password) {
		s.logger.Debug().Str("user_id", user.ID).Msg("password mismatch")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func VerifyPassword(user *domain.User, password string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *UserService) IssueToken(userID string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenSecretMissing
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(constants.TokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ParseToken returns the user id a valid token was issued for.
func (s *UserService) ParseToken(raw string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenSecretMissing
	}
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	user, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return user, nil
}

// LinkRiotID stores the player's Riot ID on their profile.
func (s *UserService) LinkRiotID(ctx context.Context, userID string, in RiotIDInput) (*domain.User, error) {
	in.GameName = strings.TrimSpace(in.GameName)
	in.TagLine = strings.TrimPrefix(strings.TrimSpace(in.TagLine), "#")
	if err := s.check(in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	err := s.store.UpdateRiotID(ctx, userID, in.GameName, in.TagLine)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update riot id")
	}
	s.logger.Info().Str("user_id", userID).Msg("riot id linked")
	return s.GetByID(ctx, userID)
}

func (s *UserService) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.Wrapf(ErrInvalidInput, "%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return errors.Wrap(ErrInvalidInput, "malformed input")
}
