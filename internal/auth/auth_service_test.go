package auth_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-dms/internal/auth"
	autherrors "go-dms/internal/auth/errors"
	"go-dms/internal/domain"
	"go-dms/internal/employee"
	employeeerrors "go-dms/internal/employee/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepository struct {
	createFn     func(ctx context.Context, user *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeRBACService struct {
	loadCalls int
}

func (f *fakeRBACService) LoadPolicy() error { f.loadCalls++; return nil }

func (f *fakeRBACService) Enforce(req domain.EnforceRequest) (bool, error) { return true, nil }

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, row *employee.Employee) error {
	return errors.New("not implemented")
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, row *employee.Employee) error {
	return errors.New("not implemented")
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context, status string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func activeUser(t *testing.T, password string) *auth.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	employeeID := uuid.New()
	return &auth.User{
		ID:         uuid.New(),
		EmployeeID: &employeeID,
		Name:       "Dara Sok",
		Email:      "dara@dealer.test",
		Password:   string(hashed),
		Role:       "SALES",
		IsActive:   true,
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims
}

func TestLoginIssuesTokensWithIdentityClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := activeUser(t, "s3cret-pass")
	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			assert.Equal(t, "dara@dealer.test", email)
			return user, nil
		},
	}
	rbacSvc := &fakeRBACService{}
	svc := auth.NewService(repo, rbacSvc, &fakeEmployeeRepository{})

	accessToken, refreshToken, resp, err := svc.Login(context.Background(), "dara@dealer.test", "s3cret-pass")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, user.ID.String(), resp.ID)
	assert.Equal(t, "SALES", resp.Role)
	assert.Equal(t, 1, rbacSvc.loadCalls)

	claims := parseClaims(t, accessToken)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, user.EmployeeID.String(), claims["employee_id"])
	assert.Equal(t, "SALES", claims["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := activeUser(t, "s3cret-pass")
	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err := svc.Login(context.Background(), "dara@dealer.test", "wrong")

	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err := svc.Login(context.Background(), "ghost@dealer.test", "whatever")

	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := activeUser(t, "s3cret-pass")
	user.IsActive = false
	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err := svc.Login(context.Background(), "dara@dealer.test", "s3cret-pass")

	assert.ErrorIs(t, err, autherrors.ErrUserInactive)
}

func TestRefreshTokenRotatesTokenPair(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := activeUser(t, "s3cret-pass")
	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, refreshToken, _, err := svc.Login(context.Background(), "dara@dealer.test", "s3cret-pass")
	assert.NoError(t, err)

	newAccess, newRefresh, resp, err := svc.RefreshToken(context.Background(), refreshToken)

	assert.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, user.ID.String(), resp.ID)

	claims := parseClaims(t, newAccess)
	assert.Equal(t, user.ID.String(), claims["user_id"])
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err := svc.RefreshToken(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestGetMeRejectsMalformedID(t *testing.T) {
	svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, err := svc.GetMe(context.Background(), "abc")

	assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
}

func TestRegisterCreatesAccountForExistingEmployee(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	employeeID := uuid.New()
	var created *auth.User
	repo := &fakeAuthRepository{
		createFn: func(ctx context.Context, user *auth.User) error {
			created = user
			return nil
		},
	}
	employees := &fakeEmployeeRepository{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			assert.Equal(t, employeeID.String(), id)
			return &employee.Employee{FullName: "Dara Sok"}, nil
		},
	}
	rbacSvc := &fakeRBACService{}
	svc := auth.NewService(repo, rbacSvc, employees)

	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:       "Dara Sok",
		Email:      "dara@dealer.test",
		Password:   "s3cret-pass",
		EmployeeID: employeeID.String(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", resp.Role)
	assert.Equal(t, employeeID.String(), resp.EmployeeID)
	assert.NotNil(t, created)
	assert.NotEqual(t, "s3cret-pass", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
	assert.Equal(t, 1, rbacSvc.loadCalls)
}

func TestRegisterRejectsUnknownEmployee(t *testing.T) {
	employees := &fakeEmployeeRepository{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{}, employees)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:       "Ghost",
		Email:      "ghost@dealer.test",
		Password:   "s3cret-pass",
		EmployeeID: uuid.NewString(),
	})

	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}
