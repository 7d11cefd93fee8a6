package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-dms/internal/adjustment"
	"go-dms/internal/attendance"
	"go-dms/internal/employee"
	"go-dms/internal/events"
	"go-dms/internal/messaging/kafka"
	"go-dms/internal/payperiod"
	payrollerrors "go-dms/internal/payroll/errors"
	"go-dms/internal/shared/contextutil"
	"go-dms/internal/shared/counter"
	"go-dms/internal/shared/filestore"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttendanceSource supplies the period's attendance rows per employee.
type AttendanceSource interface {
	ForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error)
}

// EmployeeSource supplies the staff roster and salary lookups.
type EmployeeSource interface {
	GetAll(ctx context.Context, status string) ([]employee.EmployeeResponse, error)
	BasicSalaryFor(ctx context.Context, employeeID string) (float64, error)
}

// AdjustmentSource supplies the period's netted credits and debits.
type AdjustmentSource interface {
	BalanceFor(ctx context.Context, employeeID string, period payperiod.Period) (adjustment.Balance, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, actorID string, req GeneratePayrollRequest) ([]PayrollResponse, error)
	GetAll(ctx context.Context, filter ListFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	MarkProcessed(ctx context.Context, id string) (PayrollResponse, error)
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (PayrollResponse, error)
	ReversePayment(ctx context.Context, id string) (PayrollResponse, error)
	GeneratePayslip(ctx context.Context, id string) (string, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	counter     counter.Repository
	outbox      kafka.OutboxRepository
	attendances AttendanceSource
	employees   EmployeeSource
	adjustments AdjustmentSource
	files       filestore.Store
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	attendances AttendanceSource,
	employees EmployeeSource,
	adjustments AdjustmentSource,
	files filestore.Store,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		counter:     counterRepo,
		outbox:      outboxRepo,
		attendances: attendances,
		employees:   employees,
		adjustments: adjustments,
		files:       files,
		logger:      zap.L().Named("payroll.service"),
		now:         time.Now,
	}
}

// Generate computes and persists one record per target employee for the
// period. Records already locked in (PROCESSED or PAID) are left untouched;
// a PENDING record is recomputed in place, so reruns converge on the same
// figures. Any employee with no salary on file aborts the whole run.
func (s *service) Generate(ctx context.Context, actorID string, req GeneratePayrollRequest) ([]PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	generatedBy, err := uuid.Parse(actorID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}

	period, err := payperiod.ParseKey(req.Period)
	if err != nil {
		return nil, payrollerrors.ErrInvalidPeriodKey
	}

	targets := req.EmployeeIDs
	if len(targets) == 0 {
		roster, err := s.employees.GetAll(ctx, employee.StatusActive)
		if err != nil {
			return nil, err
		}
		for _, emp := range roster {
			targets = append(targets, emp.ID)
		}
	}
	if len(targets) == 0 {
		return nil, payrollerrors.ErrNoEmployees
	}
	for _, id := range targets {
		if _, err := uuid.Parse(id); err != nil {
			return nil, payrollerrors.ErrInvalidEmployeeID
		}
	}

	s.logger.Info("payroll generation started",
		zap.String("request_id", rid),
		zap.String("period", period.Key()),
		zap.Int("employees", len(targets)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	from, to := period.Bounds()

	results := make([]PayrollResponse, 0, len(targets))
	for _, employeeID := range targets {
		existing, err := qtx.FindByEmployeeAndPeriod(ctx, employeeID, period.Key())
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if found && existing.Status != StatusPending {
			// Locked in; keep the figures the money moved on.
			results = append(results, mapToResponse(*existing))
			continue
		}

		salary, err := s.employees.BasicSalaryFor(ctx, employeeID)
		if err != nil {
			s.logger.Error("payroll generation aborted",
				zap.String("request_id", rid),
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return nil, err
		}

		rows, err := s.attendances.ForPeriod(ctx, employeeID, from, to)
		if err != nil {
			return nil, err
		}
		regular, overtime, err := SumHours(rows, period)
		if err != nil {
			return nil, err
		}

		balance, err := s.adjustments.BalanceFor(ctx, employeeID, period)
		if err != nil {
			return nil, err
		}

		calc := Calculate(CalculationInput{
			BasicSalary:   salary,
			RegularHours:  regular,
			OvertimeHours: overtime,
			Credits:       balance.Credits,
			Debits:        balance.Debits,
		})

		var record *PayrollRecord
		if found {
			record = existing
		} else {
			seq, err := s.counter.GetNextValue(ctx, counter.TypePayrollRef, period.Key())
			if err != nil {
				return nil, err
			}
			record = &PayrollRecord{
				ID:         uuid.New(),
				PayrollRef: counter.PayrollRef(period.Key(), seq),
				EmployeeID: uuid.MustParse(employeeID),
				PeriodKey:  period.Key(),
				Status:     StatusPending,
			}
		}

		record.RegularHours = regular
		record.OvertimeHours = overtime
		record.HourlyRate = calc.HourlyRate
		record.BasicPay = calc.BasicPay
		record.OvertimePay = calc.OvertimePay
		record.Credits = balance.Credits
		record.GrossPay = calc.GrossPay
		record.Tax = calc.Tax
		record.Debits = balance.Debits
		record.NetPay = calc.NetPay
		record.GeneratedBy = generatedBy

		if found {
			if err := qtx.Update(ctx, record); err != nil {
				return nil, err
			}
		} else {
			if err := qtx.Create(ctx, record); err != nil {
				return nil, err
			}
		}

		if s.outbox != nil {
			event := events.PayrollGeneratedEvent{
				EventType:   "payroll_generated",
				PayrollID:   record.ID.String(),
				EmployeeID:  record.EmployeeID.String(),
				PeriodKey:   record.PeriodKey,
				NetPay:      record.NetPay,
				GeneratedBy: generatedBy.String(),
				OccurredAt:  s.now().UTC(),
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return nil, err
			}
			if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
				ID:            uuid.NewString(),
				RequestID:     rid,
				AggregateType: "payroll",
				AggregateID:   record.ID.String(),
				EventType:     event.EventType,
				Topic:         events.PayrollGeneratedTopic,
				Payload:       payload,
				Status:        kafka.OutboxStatusPending,
			}); err != nil {
				return nil, err
			}
		}

		results = append(results, mapToResponse(*record))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("payroll generation finished",
		zap.String("request_id", rid),
		zap.String("period", period.Key()),
		zap.Int("records", len(results)),
	)

	return results, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilterRequest) ([]PayrollResponse, error) {
	if filter.Period != "" {
		if _, err := payperiod.ParseKey(filter.Period); err != nil {
			return nil, payrollerrors.ErrInvalidPeriodKey
		}
	}

	rows, err := s.repo.FindAll(ctx, filter.Period, filter.EmployeeID, filter.Status)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	row, err := s.findRecord(ctx, s.repo, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) MarkProcessed(ctx context.Context, id string) (PayrollResponse, error) {
	return s.transition(ctx, id, func(row *PayrollRecord) error {
		if row.Status != StatusPending {
			return payrollerrors.ErrNotPending
		}
		row.Status = StatusProcessed
		return nil
	})
}

func (s *service) MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (PayrollResponse, error) {
	if !validPaymentMethod(req.PaymentMethod) {
		return PayrollResponse{}, payrollerrors.ErrInvalidPaymentMethod
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidDateFormat
	}

	return s.transition(ctx, id, func(row *PayrollRecord) error {
		if row.Status == StatusPaid {
			return payrollerrors.ErrAlreadyPaid
		}
		if row.Status != StatusProcessed {
			return payrollerrors.ErrNotProcessed
		}
		row.Status = StatusPaid
		row.PaymentMethod = &req.PaymentMethod
		row.PaymentDate = &paymentDate
		return nil
	})
}

// ReversePayment unwinds a payment made in error. The record drops back to
// PENDING so the next generation run can recompute it.
func (s *service) ReversePayment(ctx context.Context, id string) (PayrollResponse, error) {
	return s.transition(ctx, id, func(row *PayrollRecord) error {
		if row.Status != StatusPaid {
			return payrollerrors.ErrNotPaid
		}
		row.Status = StatusPending
		row.PaymentMethod = nil
		row.PaymentDate = nil
		return nil
	})
}

// GeneratePayslip renders the record into a PDF, stores it, and saves the
// reference on the record. Called by the payroll-generated consumer.
func (s *service) GeneratePayslip(ctx context.Context, id string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := s.findRecord(ctx, qtx, id)
	if err != nil {
		return "", err
	}

	data, err := buildPayslipPDF(*row)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("payslip-%s.pdf", row.PayrollRef)
	url, err := s.files.Save(ctx, name, data)
	if err != nil {
		return "", err
	}

	row.PayslipURL = &url
	if err := qtx.Update(ctx, row); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	s.logger.Info("payslip stored",
		zap.String("payroll_id", row.ID.String()),
		zap.String("url", url),
	)

	return url, nil
}

func (s *service) transition(ctx context.Context, id string, apply func(*PayrollRecord) error) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := s.findRecord(ctx, qtx, id)
	if err != nil {
		return PayrollResponse{}, err
	}

	if err := apply(row); err != nil {
		return PayrollResponse{}, err
	}

	if err := qtx.Update(ctx, row); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) findRecord(ctx context.Context, repo Repository, id string) (*PayrollRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPayrollNotFound
	}

	row, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return row, nil
}

func mapToResponse(row PayrollRecord) PayrollResponse {
	resp := PayrollResponse{
		ID:            row.ID.String(),
		PayrollRef:    row.PayrollRef,
		EmployeeID:    row.EmployeeID.String(),
		Period:        row.PeriodKey,
		RegularHours:  row.RegularHours,
		OvertimeHours: row.OvertimeHours,
		HourlyRate:    row.HourlyRate,
		BasicPay:      row.BasicPay,
		OvertimePay:   row.OvertimePay,
		Credits:       row.Credits,
		GrossPay:      row.GrossPay,
		Tax:           row.Tax,
		Debits:        row.Debits,
		NetPay:        row.NetPay,
		Status:        row.Status,
		PaymentMethod: row.PaymentMethod,
		PayslipURL:    row.PayslipURL,
		GeneratedBy:   row.GeneratedBy.String(),
	}
	if row.PaymentDate != nil {
		d := row.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &d
	}
	return resp
}

func mapToListResponse(rows []PayrollRecord) []PayrollResponse {
	res := make([]PayrollResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
