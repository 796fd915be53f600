// Package services holds the authentication flow: credential checks, token
// issuing and the login payload assembly.
package services

import (
	"context"
	"errors"

	"github.com/meuprojeto/portal-estagios/internal/lib/jwt"
	"github.com/meuprojeto/portal-estagios/internal/lib/password"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// UserRepository resolves identities by email.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// StudentRepository loads the student payload behind a STUDENT identity.
type StudentRepository interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
}

// CompanyRepository loads the company payload behind a COMPANY identity.
type CompanyRepository interface {
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
}

// LoginResult is the payload returned on a successful login.
type LoginResult struct {
	Token          string        `json:"token"`
	Tipo           string        `json:"tipo"`
	ID             int64         `json:"id"`
	Nome           string        `json:"nome"`
	Email          string        `json:"email"`
	Role           models.Role   `json:"role"`
	AreasInteresse []models.Area `json:"areasInteresse,omitempty"`
}

// AuthService checks credentials and issues tokens.
type AuthService struct {
	users     UserRepository
	students  StudentRepository
	companies CompanyRepository
	jwtMaker  jwt.Maker
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, students StudentRepository, companies CompanyRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:     users,
		students:  students,
		companies: companies,
		jwtMaker:  jwtMaker,
	}
}

// Login verifies the email and senha pair and returns a signed token plus the
// caller's public identity. An unknown email and a wrong senha produce the
// same ErrInvalidCredentials; a known identity whose role payload is missing
// produces ErrProfileNotFound.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.CompareHash(user.SenhaHash, senha); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	result := &LoginResult{
		Tipo:  "Bearer",
		ID:    user.ID,
		Nome:  user.Nome,
		Email: user.Email,
		Role:  user.Role,
	}

	switch user.Role {
	case models.RoleStudent:
		st, err := s.students.GetStudent(ctx, user.ID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.ErrProfileNotFound
			}
			return nil, err
		}
		result.AreasInteresse = st.AreasInteresse
	case models.RoleCompany:
		if _, err := s.companies.GetCompany(ctx, user.ID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.ErrProfileNotFound
			}
			return nil, err
		}
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	result.Token = token
	return result, nil
}

// ValidateToken parses a token and returns the identity claims it carries.
func (s *AuthService) ValidateToken(_ context.Context, token string) (email, role string, err error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}
