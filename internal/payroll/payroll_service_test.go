package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-dms/internal/adjustment"
	"go-dms/internal/attendance"
	"go-dms/internal/employee"
	employeeerrors "go-dms/internal/employee/errors"
	"go-dms/internal/events"
	"go-dms/internal/messaging/kafka"
	"go-dms/internal/payperiod"
	"go-dms/internal/payroll"
	payrollerrors "go-dms/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn                  func(tx *sql.Tx) payroll.Repository
	createFn                  func(ctx context.Context, row *payroll.PayrollRecord) error
	updateFn                  func(ctx context.Context, row *payroll.PayrollRecord) error
	findByIDFn                func(ctx context.Context, id string) (*payroll.PayrollRecord, error)
	findByEmployeeAndPeriodFn func(ctx context.Context, employeeID, periodKey string) (*payroll.PayrollRecord, error)
	findAllFn                 func(ctx context.Context, periodKey, employeeID, status string) ([]payroll.PayrollRecord, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, row *payroll.PayrollRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, row)
	}
	return nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, row *payroll.PayrollRecord) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, row)
	}
	return nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByEmployeeAndPeriod(ctx context.Context, employeeID, periodKey string) (*payroll.PayrollRecord, error) {
	if f.findByEmployeeAndPeriodFn != nil {
		return f.findByEmployeeAndPeriodFn(ctx, employeeID, periodKey)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAll(ctx context.Context, periodKey, employeeID, status string) ([]payroll.PayrollRecord, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, periodKey, employeeID, status)
	}
	return nil, nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string, scope string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeAttendanceSource struct {
	rows map[string][]attendance.Attendance
}

func (f *fakeAttendanceSource) ForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	return f.rows[employeeID], nil
}

type fakeEmployeeSource struct {
	roster   []employee.EmployeeResponse
	salaries map[string]float64
}

func (f *fakeEmployeeSource) GetAll(ctx context.Context, status string) ([]employee.EmployeeResponse, error) {
	return f.roster, nil
}

func (f *fakeEmployeeSource) BasicSalaryFor(ctx context.Context, employeeID string) (float64, error) {
	salary, ok := f.salaries[employeeID]
	if !ok {
		return 0, employeeerrors.ErrSalaryMissing
	}
	return salary, nil
}

type fakeAdjustmentSource struct {
	balances map[string]adjustment.Balance
}

func (f *fakeAdjustmentSource) BalanceFor(ctx context.Context, employeeID string, period payperiod.Period) (adjustment.Balance, error) {
	return f.balances[employeeID], nil
}

type fakeFileStore struct {
	saved map[string][]byte
}

func (f *fakeFileStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[name] = data
	return "file:///payslips/" + name, nil
}

type payrollServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     payroll.Service
	repo        *fakePayrollRepository
	outbox      *fakeOutboxRepository
	attendances *fakeAttendanceSource
	employees   *fakeEmployeeSource
	adjustments *fakeAdjustmentSource
	files       *fakeFileStore
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &payrollServiceDeps{
		db:          db,
		sqlMock:     sqlMock,
		repo:        &fakePayrollRepository{},
		outbox:      &fakeOutboxRepository{},
		attendances: &fakeAttendanceSource{rows: map[string][]attendance.Attendance{}},
		employees:   &fakeEmployeeSource{salaries: map[string]float64{}},
		adjustments: &fakeAdjustmentSource{balances: map[string]adjustment.Balance{}},
		files:       &fakeFileStore{},
	}
	deps.service = payroll.NewService(
		db, deps.repo, &fakeCounterRepository{}, deps.outbox,
		deps.attendances, deps.employees, deps.adjustments, deps.files,
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func workedDay(day int, hours, overtime float64) attendance.Attendance {
	return attendance.Attendance{
		AttendanceDate: time.Date(2024, time.April, day, 0, 0, 0, 0, time.UTC),
		HoursWorked:    hours,
		OvertimeHours:  overtime,
	}
}

func TestGenerate_SingleEmployee(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	emp := uuid.New()
	deps.employees.salaries[emp.String()] = 24000
	deps.attendances.rows[emp.String()] = []attendance.Attendance{
		workedDay(1, 8, 1),
	}

	var created *payroll.PayrollRecord
	deps.repo.createFn = func(ctx context.Context, row *payroll.PayrollRecord) error {
		created = row
		return nil
	}

	results, err := deps.service.Generate(context.Background(), uuid.New().String(), payroll.GeneratePayrollRequest{
		Period:      "2024-04",
		EmployeeIDs: []string{emp.String()},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.NotNil(t, created)

	r := results[0]
	assert.Equal(t, "PR-2024-04-0001", r.PayrollRef)
	assert.Equal(t, 100.0, r.HourlyRate)
	assert.Equal(t, 800.0, r.BasicPay)
	assert.Equal(t, 150.0, r.OvertimePay)
	assert.Equal(t, 950.0, r.GrossPay)
	assert.Equal(t, 47.50, r.Tax)
	assert.Equal(t, 902.50, r.NetPay)
	assert.Equal(t, payroll.StatusPending, r.Status)

	assert.Len(t, deps.outbox.created, 1)
	var event events.PayrollGeneratedEvent
	assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &event))
	assert.Equal(t, "payroll_generated", event.EventType)
	assert.Equal(t, "2024-04", event.PeriodKey)
	assert.Equal(t, 902.50, event.NetPay)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestGenerate_IncludesAdjustmentBalance(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	emp := uuid.New()
	deps.employees.salaries[emp.String()] = 24000
	deps.attendances.rows[emp.String()] = []attendance.Attendance{
		workedDay(1, 8, 0),
	}
	deps.adjustments.balances[emp.String()] = adjustment.Balance{Credits: 1000, Debits: 200, Net: 800}

	results, err := deps.service.Generate(context.Background(), uuid.New().String(), payroll.GeneratePayrollRequest{
		Period:      "2024-04",
		EmployeeIDs: []string{emp.String()},
	})

	assert.NoError(t, err)
	r := results[0]
	// 800 basic + 1000 credits = 1800 gross, 5% tax, minus 200 debits.
	assert.Equal(t, 1800.0, r.GrossPay)
	assert.Equal(t, 90.0, r.Tax)
	assert.Equal(t, 200.0, r.Debits)
	assert.Equal(t, 1510.0, r.NetPay)
}

func TestGenerate_RerunRecomputesPendingInPlace(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	emp := uuid.New()
	deps.employees.salaries[emp.String()] = 24000
	deps.attendances.rows[emp.String()] = []attendance.Attendance{
		workedDay(1, 8, 0),
		workedDay(2, 8, 0),
	}

	existing := &payroll.PayrollRecord{
		ID:         uuid.New(),
		PayrollRef: "PR-2024-04-0001",
		EmployeeID: emp,
		PeriodKey:  "2024-04",
		BasicPay:   800, // stale figure from the first run
		Status:     payroll.StatusPending,
	}
	deps.repo.findByEmployeeAndPeriodFn = func(ctx context.Context, employeeID, periodKey string) (*payroll.PayrollRecord, error) {
		return existing, nil
	}

	createCalls := 0
	deps.repo.createFn = func(ctx context.Context, row *payroll.PayrollRecord) error {
		createCalls++
		return nil
	}
	var updated *payroll.PayrollRecord
	deps.repo.updateFn = func(ctx context.Context, row *payroll.PayrollRecord) error {
		updated = row
		return nil
	}

	results, err := deps.service.Generate(context.Background(), uuid.New().String(), payroll.GeneratePayrollRequest{
		Period:      "2024-04",
		EmployeeIDs: []string{emp.String()},
	})

	assert.NoError(t, err)
	assert.Zero(t, createCalls)
	assert.NotNil(t, updated)
	assert.Equal(t, "PR-2024-04-0001", results[0].PayrollRef)
	assert.Equal(t, 1600.0, results[0].BasicPay)
}

func TestGenerate_LeavesProcessedRecordAlone(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	emp := uuid.New()
	deps.repo.findByEmployeeAndPeriodFn = func(ctx context.Context, employeeID, periodKey string) (*payroll.PayrollRecord, error) {
		return &payroll.PayrollRecord{
			ID:         uuid.New(),
			EmployeeID: emp,
			PeriodKey:  "2024-04",
			NetPay:     902.50,
			Status:     payroll.StatusProcessed,
		}, nil
	}

	updateCalls := 0
	deps.repo.updateFn = func(ctx context.Context, row *payroll.PayrollRecord) error {
		updateCalls++
		return nil
	}

	results, err := deps.service.Generate(context.Background(), uuid.New().String(), payroll.GeneratePayrollRequest{
		Period:      "2024-04",
		EmployeeIDs: []string{emp.String()},
	})

	assert.NoError(t, err)
	assert.Zero(t, updateCalls)
	assert.Equal(t, payroll.StatusProcessed, results[0].Status)
	assert.Empty(t, deps.outbox.created)
}

func TestGenerate_AbortsOnMissingSalary(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	good, bad := uuid.New(), uuid.New()
	deps.employees.salaries[good.String()] = 24000

	_, err := deps.service.Generate(context.Background(), uuid.New().String(), payroll.GeneratePayrollRequest{
		Period:      "2024-04",
		EmployeeIDs: []string{good.String(), bad.String()},
	})

	assert.ErrorIs(t, err, employeeerrors.ErrSalaryMissing)
}

func TestGenerate_UsesActiveRosterByDefault(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	a, b := uuid.New(), uuid.New()
	deps.employees.roster = []employee.EmployeeResponse{
		{ID: a.String()}, {ID: b.String()},
	}
	deps.employees.salaries[a.String()] = 24000
	deps.employees.salaries[b.String()] = 30000

	results, err := deps.service.Generate(context.Background(), uuid.New().String(), payroll.GeneratePayrollRequest{
		Period: "2024-04",
	})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Len(t, deps.outbox.created, 2)
}

func TestGenerate_RejectsBadPeriodKey(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Generate(context.Background(), uuid.New().String(), payroll.GeneratePayrollRequest{
		Period: "April 2024",
	})

	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriodKey)
}

func TestMarkProcessed_ThenPaid(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	record := &payroll.PayrollRecord{ID: uuid.New(), Status: payroll.StatusPending}
	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
		return record, nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.MarkProcessed(context.Background(), record.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusProcessed, resp.Status)

	expectTx(t, deps.sqlMock, true)
	resp, err = deps.service.MarkPaid(context.Background(), record.ID.String(), payroll.MarkPaidRequest{
		PaymentMethod: payroll.PaymentBankTransfer,
		PaymentDate:   "2024-04-25",
	})
	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, resp.Status)
	assert.Equal(t, payroll.PaymentBankTransfer, *resp.PaymentMethod)
	assert.Equal(t, "2024-04-25", *resp.PaymentDate)
}

func TestMarkPaid_RequiresProcessed(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	record := &payroll.PayrollRecord{ID: uuid.New(), Status: payroll.StatusPending}
	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
		return record, nil
	}

	_, err := deps.service.MarkPaid(context.Background(), record.ID.String(), payroll.MarkPaidRequest{
		PaymentMethod: payroll.PaymentCash,
		PaymentDate:   "2024-04-25",
	})

	assert.ErrorIs(t, err, payrollerrors.ErrNotProcessed)
}

func TestReversePayment(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	method := payroll.PaymentCash
	paid := time.Date(2024, time.April, 25, 0, 0, 0, 0, time.UTC)
	record := &payroll.PayrollRecord{
		ID:            uuid.New(),
		Status:        payroll.StatusPaid,
		PaymentMethod: &method,
		PaymentDate:   &paid,
	}
	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
		return record, nil
	}

	resp, err := deps.service.ReversePayment(context.Background(), record.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusPending, resp.Status)
	assert.Nil(t, resp.PaymentMethod)
	assert.Nil(t, resp.PaymentDate)
}

func TestReversePayment_RequiresPaid(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	record := &payroll.PayrollRecord{ID: uuid.New(), Status: payroll.StatusProcessed}
	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
		return record, nil
	}

	_, err := deps.service.ReversePayment(context.Background(), record.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrNotPaid)
}

func TestGeneratePayslip_StoresPDFAndURL(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	record := &payroll.PayrollRecord{
		ID:         uuid.New(),
		PayrollRef: "PR-2024-04-0007",
		EmployeeID: uuid.New(),
		PeriodKey:  "2024-04",
		NetPay:     902.50,
		Status:     payroll.StatusProcessed,
	}
	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
		return record, nil
	}

	var updated *payroll.PayrollRecord
	deps.repo.updateFn = func(ctx context.Context, row *payroll.PayrollRecord) error {
		updated = row
		return nil
	}

	url, err := deps.service.GeneratePayslip(context.Background(), record.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, "file:///payslips/payslip-PR-2024-04-0007.pdf", url)

	assert.NotNil(t, updated.PayslipURL)
	assert.Equal(t, url, *updated.PayslipURL)

	data := deps.files.saved["payslip-PR-2024-04-0007.pdf"]
	assert.True(t, len(data) > 0)
	assert.Contains(t, string(data), "%PDF-1.4")
	assert.Contains(t, string(data), "PR-2024-04-0007")
}

func TestGeneratePayslip_UnknownRecord(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.GeneratePayslip(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
}
