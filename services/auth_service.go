package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"matchtalk/auth"
	"matchtalk/domain"
	"matchtalk/errors"
	"matchtalk/repositories"
)

type RegisterCommand struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Gender   string `json:"gender" validate:"required,oneof=M F"`
	Age      int    `json:"age" validate:"required,gte=18,lte=120"`
	Bio      string `json:"bio" validate:"max=500"`
}

type LoginCommand struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token string          `json:"token"`
	User  ParticipantView `json:"user"`
}

type IAuthService interface {
	Register(cmd RegisterCommand) (Session, error)
	Login(cmd LoginCommand) (Session, error)
	DeleteAccount(userID uuid.UUID) error
}

// AuthService owns the account lifecycle: registration, login and the
// explicit deletion cascade.
type AuthService struct {
	users         repositories.IUserRepository
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	typing        repositories.ITypingRepository
	blocks        repositories.IBlockRepository
	tokens        auth.TokenManager
	validate      *validator.Validate
	log           *slog.Logger
}

func NewAuthService(
	users repositories.IUserRepository,
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	typing repositories.ITypingRepository,
	blocks repositories.IBlockRepository,
	tokens auth.TokenManager,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		conversations: conversations,
		messages:      messages,
		typing:        typing,
		blocks:        blocks,
		tokens:        tokens,
		validate:      validator.New(),
		log:           log,
	}
}

// Register creates an account. Users under 18 are rejected at the
// validation stage, before anything is written.
func (s *AuthService) Register(cmd RegisterCommand) (Session, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return Session{}, asFieldErrors(err)
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return Session{}, errors.Internal("hashing password", err)
	}

	user := domain.User{
		ID:           uuid.New(),
		Username:     cmd.Username,
		PasswordHash: hash,
		Gender:       cmd.Gender,
		Age:          cmd.Age,
		Bio:          cmd.Bio,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return Session{}, errors.Internal("signing token", err)
	}
	s.log.Info("user registered", "user_id", user.ID)
	return Session{Token: token, User: ParticipantView{ID: user.ID, Username: user.Username}}, nil
}

func (s *AuthService) Login(cmd LoginCommand) (Session, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return Session{}, asFieldErrors(err)
	}

	user, err := s.users.GetByUsername(cmd.Username)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return Session{}, errors.Unauthenticated("Invalid username or password.")
		}
		return Session{}, err
	}

	ok, err := auth.VerifyPassword(cmd.Password, user.PasswordHash)
	if err != nil {
		return Session{}, errors.Internal("verifying password", err)
	}
	if !ok {
		return Session{}, errors.Unauthenticated("Invalid username or password.")
	}
	// double-check age after authentication
	if user.Age < 18 {
		return Session{}, errors.Forbidden("Your account indicates you are under 18. Access denied.")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return Session{}, errors.Internal("signing token", err)
	}
	return Session{Token: token, User: ParticipantView{ID: user.ID, Username: user.Username}}, nil
}

// DeleteAccount removes the user and everything the user owns: every
// conversation with its messages, unread indexes and typing state, every
// block edge in either direction, the presence record and the profile.
// Deliberately an explicit routine rather than an implicit cascade.
func (s *AuthService) DeleteAccount(userID uuid.UUID) error {
	conversations, err := s.conversations.ListForUser(userID)
	if err != nil {
		return err
	}
	for _, conv := range conversations {
		if err := s.messages.PurgeConversation(conv); err != nil {
			return err
		}
		if err := s.typing.PurgeConversation(conv.ID); err != nil {
			return err
		}
		if err := s.conversations.Delete(conv); err != nil {
			return err
		}
	}
	if err := s.blocks.PurgeUser(userID); err != nil {
		return err
	}
	if err := s.users.Delete(userID); err != nil {
		return err
	}
	s.log.Info("account deleted", "user_id", userID, "conversations_removed", len(conversations))
	return nil
}

// asFieldErrors converts validator output into the field-level validation
// error shape the API envelope exposes.
func asFieldErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.CodeValidation, "validation failed", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch {
		case field == "age" && (fe.Tag() == "gte" || fe.Tag() == "required"):
			fields[field] = "You must be at least 18 years old to use this site."
		case fe.Tag() == "required":
			fields[field] = "This field is required."
		case fe.Tag() == "min":
			fields[field] = fmt.Sprintf("Must be at least %s characters.", fe.Param())
		case fe.Tag() == "max":
			fields[field] = fmt.Sprintf("Must be at most %s characters.", fe.Param())
		case fe.Tag() == "oneof":
			fields[field] = fmt.Sprintf("Must be one of: %s.", fe.Param())
		default:
			fields[field] = "Invalid value."
		}
	}
	return errors.Validation(fields)
}
