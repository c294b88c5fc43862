package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"nutriagenda/internal/auth"
	"nutriagenda/internal/db"
	"nutriagenda/internal/entities"
	apperrors "nutriagenda/internal/errors"
	"nutriagenda/internal/repository"
	"nutriagenda/internal/utils"
)

type AuthService interface {
	Register(req entities.RegisterRequest) (*entities.AuthResponse, error)
	Login(req entities.LoginRequest) (*entities.AuthResponse, error)
}

type authService struct {
	users  repository.UserRepository
	secret string
}

func NewAuthService(users repository.UserRepository, secret string) AuthService {
	return &authService{users: users, secret: secret}
}

func (s *authService) Register(req entities.RegisterRequest) (*entities.AuthResponse, error) {
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return nil, apperrors.InvalidInput("email, name and password are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.InvalidInput("password must be at least 8 characters")
	}
	role, ok := utils.ParseRole(req.Role)
	if !ok {
		return nil, apperrors.InvalidInput("role must be NUTRITIONIST or CLIENT")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &db.User{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role.String(),
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.EmailTaken("email already registered")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.respondWithToken(user)
}

func (s *authService) Login(req entities.LoginRequest) (*entities.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("error loading user by email: %w", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	return s.respondWithToken(user)
}

func (s *authService) respondWithToken(user *db.User) (*entities.AuthResponse, error) {
	token, err := auth.MakeToken(user, s.secret)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}
	return &entities.AuthResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Token:  token,
	}, nil
}
