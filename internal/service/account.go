package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhishek991-rag/PFM-Backend/internal/auth"
	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/notify"
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int64) error
}

// OwnedRecords deletes every record of one kind belonging to a user.
type OwnedRecords interface {
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// Tokens issues and verifies access tokens.
type Tokens interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name               string `json:"name" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=6"`
	CurrencyPreference string `json:"currencyPreference" validate:"omitempty,currency"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfilePatch is the body of a profile update request.
type ProfilePatch struct {
	Name               models.Optional[string] `json:"name"`
	Email              models.Optional[string] `json:"email"`
	Password           models.Optional[string] `json:"password"`
	CurrencyPreference models.Optional[string] `json:"currencyPreference"`
}

type profile struct {
	Name               string `json:"name" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email"`
	CurrencyPreference string `json:"currencyPreference" validate:"required,currency"`
}

type newPassword struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Session is returned by register and login.
type Session struct {
	models.User
	Token string `json:"token"`
}

// AccountService registers, authenticates and deletes users.
type AccountService struct {
	users           UserStore
	owned           []OwnedRecords
	tokens          Tokens
	mailer          notify.Mailer
	defaultCurrency string
	log             zerolog.Logger
	hasher          logger.Hasher
}

// AccountDeps groups AccountService collaborators. Owned lists one store
// per record kind; each is emptied when an account is deleted.
type AccountDeps struct {
	Users           UserStore
	Owned           []OwnedRecords
	Tokens          Tokens
	Mailer          notify.Mailer
	DefaultCurrency string
}

// NewAccountService creates an AccountService.
func NewAccountService(deps AccountDeps, log zerolog.Logger, hasher logger.Hasher) *AccountService {
	currency := strings.ToUpper(deps.DefaultCurrency)
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &AccountService{
		users:           deps.Users,
		owned:           deps.Owned,
		tokens:          deps.Tokens,
		mailer:          deps.Mailer,
		defaultCurrency: currency,
		log:             log.With().Str("component", "accounts").Logger(),
		hasher:          hasher,
	}
}

// Register creates an account, sends a welcome mail and returns a session.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CurrencyPreference = strings.ToUpper(strings.TrimSpace(in.CurrencyPreference))
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if in.CurrencyPreference == "" {
		in.CurrencyPreference = s.defaultCurrency
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, models.NewValidationError("email", "user already exists")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := models.User{
		Name:               in.Name,
		Email:              in.Email,
		PasswordHash:       hash,
		CurrencyPreference: in.CurrencyPreference,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, notify.WelcomeMessage(u.Name, u.Email)); err != nil {
			s.log.Warn().Err(err).Str("user_hash", s.hasher.UserID(u.ID)).Msg("Failed to send welcome email")
		}
	}
	s.log.Info().Str("user_hash", s.hasher.UserID(u.ID)).Msg("User registered")

	return s.session(&u)
}

// Login checks credentials. Unknown email and wrong password fail the same
// way.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.VerifyPassword(in.Password, u.PasswordHash)
	if err != nil || !ok {
		return nil, models.ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *AccountService) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: *u, Token: token}, nil
}

// Authenticate resolves a bearer token to its user. A valid token for a
// deleted account is rejected.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthenticated
	}
	return u, err
}

// Profile returns userID's account.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies p to userID's account. A new password is re-hashed.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, p ProfilePatch) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := profile{Name: u.Name, Email: u.Email, CurrencyPreference: u.CurrencyPreference}
	p.Name.Apply(&next.Name)
	p.Email.Apply(&next.Email)
	p.CurrencyPreference.Apply(&next.CurrencyPreference)
	next.Name = strings.TrimSpace(next.Name)
	next.Email = strings.ToLower(strings.TrimSpace(next.Email))
	next.CurrencyPreference = strings.ToUpper(strings.TrimSpace(next.CurrencyPreference))
	if err := validateStruct(&next); err != nil {
		return nil, err
	}

	if p.Password.Set {
		pw := newPassword{Password: p.Password.Value}
		if err := validateStruct(&pw); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(pw.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	u.Name = next.Name
	u.Email = next.Email
	u.CurrencyPreference = next.CurrencyPreference
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAccount removes every owned record kind and then the user. The
// steps are independent; a failure part way leaves earlier deletes done.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int64) error {
	var removed int64
	for _, records := range s.owned {
		n, err := records.DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		removed += n
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().
		Str("user_hash", s.hasher.UserID(userID)).
		Int64("records_removed", removed).
		Msg("Account deleted")
	return nil
}
