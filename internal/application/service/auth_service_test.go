package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates active account with hashed password", func(t *testing.T) {
		var created *entity.User
		users := &mockUserRepo{
			createFunc: func(ctx context.Context, user *entity.User) error {
				user.ID = 7
				created = user
				return nil
			},
		}
		svc := NewAuthService(users, "test-secret", time.Hour, zap.NewNop())

		user, err := svc.Register(context.Background(), RegisterInput{
			Name:     "PT Maju Jaya",
			Email:    "  Vendor@Example.COM ",
			Password: "rahasia-123",
			Role:     entity.RoleVendor,
		})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.Email != "vendor@example.com" {
			t.Errorf("Register() email = %s, want normalized", user.Email)
		}
		if !user.IsActive {
			t.Errorf("Register() account inactive")
		}
		if created.PasswordHash == "rahasia-123" || created.PasswordHash == "" {
			t.Errorf("Register() stored password unhashed")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("rahasia-123")); err != nil {
			t.Errorf("Register() hash does not verify: %v", err)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{}, "test-secret", time.Hour, zap.NewNop())

		_, err := svc.Register(context.Background(), RegisterInput{
			Name:     "",
			Email:    "",
			Password: "short",
			Role:     "superuser",
		})
		if !apperror.IsValidation(err) {
			t.Fatalf("Register() error = %v, want validation", err)
		}
		verr := err.(*apperror.ValidationError)
		if len(verr.Fields) != 4 {
			t.Errorf("Register() field errors = %v, want 4", verr.Fields)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	account := func(active bool) *entity.User {
		return &entity.User{
			ID:           7,
			Email:        "vendor@example.com",
			PasswordHash: "",
			Role:         entity.RoleVendor,
			IsActive:     active,
		}
	}

	t.Run("valid credentials issue parseable token", func(t *testing.T) {
		user := account(true)
		user.PasswordHash = hashFor(t, "rahasia-123")
		users := &mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				if email != "vendor@example.com" {
					t.Errorf("Login() looked up %s, want normalized email", email)
				}
				return user, nil
			},
		}
		svc := NewAuthService(users, "test-secret", time.Hour, zap.NewNop())

		token, got, err := svc.Login(context.Background(), " Vendor@Example.com ", "rahasia-123")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if got.ID != 7 {
			t.Errorf("Login() user = %+v", got)
		}

		claims, err := svc.ParseToken(token)
		if err != nil {
			t.Fatalf("ParseToken() error = %v", err)
		}
		if claims.UserID != 7 || claims.Role != entity.RoleVendor {
			t.Errorf("ParseToken() claims = %+v", claims)
		}
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		user := account(true)
		user.PasswordHash = hashFor(t, "rahasia-123")
		users := &mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return user, nil
			},
		}
		svc := NewAuthService(users, "test-secret", time.Hour, zap.NewNop())

		_, _, err := svc.Login(context.Background(), "vendor@example.com", "wrong")
		if !apperror.IsUnauthorized(err) {
			t.Errorf("Login() error = %v, want unauthorized", err)
		}
	})

	t.Run("unknown email unauthorized", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{}, "test-secret", time.Hour, zap.NewNop())

		_, _, err := svc.Login(context.Background(), "nobody@example.com", "rahasia-123")
		if !apperror.IsUnauthorized(err) {
			t.Errorf("Login() error = %v, want unauthorized", err)
		}
	})

	t.Run("inactive account unauthorized", func(t *testing.T) {
		user := account(false)
		user.PasswordHash = hashFor(t, "rahasia-123")
		users := &mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return user, nil
			},
		}
		svc := NewAuthService(users, "test-secret", time.Hour, zap.NewNop())

		_, _, err := svc.Login(context.Background(), "vendor@example.com", "rahasia-123")
		if !apperror.IsUnauthorized(err) {
			t.Errorf("Login() error = %v, want unauthorized", err)
		}
	})
}

func TestAuthService_ParseToken(t *testing.T) {
	t.Run("rejects token signed with another secret", func(t *testing.T) {
		issuer := NewAuthService(&mockUserRepo{}, "secret-a", time.Hour, zap.NewNop())
		verifier := NewAuthService(&mockUserRepo{}, "secret-b", time.Hour, zap.NewNop())

		token, err := issuer.issueToken(&entity.User{ID: 1, Role: entity.RoleAdmin})
		if err != nil {
			t.Fatalf("issueToken() error = %v", err)
		}
		if _, err := verifier.ParseToken(token); !apperror.IsUnauthorized(err) {
			t.Errorf("ParseToken() error = %v, want unauthorized", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{}, "test-secret", time.Hour, zap.NewNop())
		svc.now = fixedClock(time.Now().Add(-2 * time.Hour))

		token, err := svc.issueToken(&entity.User{ID: 1, Role: entity.RoleAdmin})
		if err != nil {
			t.Fatalf("issueToken() error = %v", err)
		}
		if _, err := svc.ParseToken(token); !apperror.IsUnauthorized(err) {
			t.Errorf("ParseToken() error = %v, want unauthorized", err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{}, "test-secret", time.Hour, zap.NewNop())
		if _, err := svc.ParseToken("not.a.token"); !apperror.IsUnauthorized(err) {
			t.Errorf("ParseToken() error = %v, want unauthorized", err)
		}
	})
}
