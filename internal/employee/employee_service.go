package employee

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeeerrors "go-dms/internal/employee/errors"
	"go-dms/internal/shared/cache"
	"go-dms/internal/shared/contextutil"
	"go-dms/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Cache entity for employee reads; writes invalidate every key under it.
const cacheEntity = "employee"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, status string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	BasicSalaryFor(ctx context.Context, employeeID string) (float64, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	cache   *cache.Cache
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, c *cache.Cache) Service {
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		cache:   c,
		sf:      &singleflight.Group{},
		logger:  zap.L().Named("employee.service"),
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("position", req.Position),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}
	if req.BasicSalary <= 0 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByEmail(ctx, req.Email); err == nil {
		return EmployeeResponse{}, employeeerrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeResponse{}, err
	}

	seq, err := s.counter.GetNextValue(ctx, counter.TypeEmployeeNumber, "")
	if err != nil {
		s.logger.Error("create employee generate number failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	row := &Employee{
		ID:             uuid.New(),
		EmployeeNumber: counter.EmployeeNumber(seq),
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Position:       req.Position,
		BasicSalary:    req.BasicSalary,
		HireDate:       hireDate,
		Status:         StatusActive,
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateCache(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", row.ID.String()),
		zap.String("employee_number", row.EmployeeNumber),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]EmployeeResponse, error) {
	if status != "" && !validStatus(status) {
		return nil, employeeerrors.ErrInvalidStatus
	}

	rows, err := s.repo.FindAll(ctx, status)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, err
	}

	return mapToListResponse(rows), nil
}

// GetOptions serves the picker shape from cache. Singleflight collapses
// concurrent misses into one database read.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error) {
	key := cache.NewKey(cacheEntity, map[string]string{"view": "options"})

	if s.cache != nil {
		var cached []EmployeeOptionResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	v, err, _ := s.sf.Do(key.String(), func() (interface{}, error) {
		rows, err := s.repo.FindActive(ctx)
		if err != nil {
			return nil, err
		}

		resp := make([]EmployeeOptionResponse, len(rows))
		for i, row := range rows {
			resp[i] = EmployeeOptionResponse{
				ID:             row.ID.String(),
				EmployeeNumber: row.EmployeeNumber,
				FullName:       row.FullName,
				Position:       row.Position,
			}
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, resp); err != nil {
				s.logger.Warn("cache employee options failed", zap.Error(err))
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}
	if req.BasicSalary <= 0 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}
	if !validStatus(req.Status) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if req.Email != row.Email {
		if other, err := qtx.FindByEmail(ctx, req.Email); err == nil && other.ID != row.ID {
			return EmployeeResponse{}, employeeerrors.ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, err
		}
	}

	row.FullName = req.FullName
	row.Email = req.Email
	row.Phone = req.Phone
	row.Position = req.Position
	row.BasicSalary = req.BasicSalary
	row.HireDate = hireDate
	row.Status = req.Status

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateCache(ctx)

	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCache(ctx)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

// BasicSalaryFor returns the employee's basic monthly salary for payroll.
// A record with no salary on file is a bookkeeping error, not a zero payout.
func (s *service) BasicSalaryFor(ctx context.Context, employeeID string) (float64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return 0, employeeerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, employeeerrors.ErrEmployeeNotFound
		}
		return 0, err
	}

	if row.BasicSalary <= 0 {
		return 0, employeeerrors.ErrSalaryMissing
	}

	return row.BasicSalary, nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheEntity); err != nil {
		s.logger.Warn("invalidate employee cache failed", zap.Error(err))
	}
}

func mapToResponse(row Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             row.ID.String(),
		EmployeeNumber: row.EmployeeNumber,
		FullName:       row.FullName,
		Email:          row.Email,
		Phone:          row.Phone,
		Position:       row.Position,
		BasicSalary:    row.BasicSalary,
		HireDate:       row.HireDate.Format("2006-01-02"),
		Status:         row.Status,
	}
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
