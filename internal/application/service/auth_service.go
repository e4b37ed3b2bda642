package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// Claims is the JWT payload carried by every authenticated request
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies access tokens
type AuthService struct {
	users  port.UserRepository
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService
func NewAuthService(users port.UserRepository, secret string, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterInput is the account creation payload
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
}

var validRoles = map[string]bool{
	entity.RoleVendor:    true,
	entity.RolePICGudang: true,
	entity.RoleApprover:  true,
	entity.RoleAdmin:     true,
}

// Register creates a new active account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(in.Email) == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "email is required"})
	}
	if len(in.Password) < 8 {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if !validRoles[in.Role] {
		fields = append(fields, apperror.FieldError{Field: "role", Message: "role must be vendor, pic_gudang, approver or admin"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Name:         in.Name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		Company:      in.Company,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("email", user.Email), zap.String("role", user.Role))
	return user, nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}
	if !user.IsActive {
		return "", nil, apperror.NewUnauthorized("account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *entity.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns its claims
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid token claims")
	}
	return claims, nil
}

// Profile returns the authenticated user's account
func (s *AuthService) Profile(ctx context.Context, actor port.Actor) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("user", actor.ID)
	}
	return user, nil
}
