package adjustment_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-dms/internal/adjustment"
	adjustmenterrors "go-dms/internal/adjustment/errors"
	"go-dms/internal/payperiod"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAdjustmentRepository struct {
	withTxFn            func(tx *sql.Tx) adjustment.Repository
	createBatchFn       func(ctx context.Context, rows []adjustment.Adjustment) error
	findByIDFn          func(ctx context.Context, id string) (*adjustment.Adjustment, error)
	findByDateRangeFn   func(ctx context.Context, from, to time.Time, employeeID, adjType string) ([]adjustment.Adjustment, error)
	findActiveThroughFn func(ctx context.Context, employeeID string, end time.Time) ([]adjustment.Adjustment, error)
	deleteFn            func(ctx context.Context, id string) error
}

func (f *fakeAdjustmentRepository) WithTx(tx *sql.Tx) adjustment.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAdjustmentRepository) CreateBatch(ctx context.Context, rows []adjustment.Adjustment) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, rows)
	}
	return nil
}

func (f *fakeAdjustmentRepository) FindByID(ctx context.Context, id string) (*adjustment.Adjustment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdjustmentRepository) FindByDateRange(ctx context.Context, from, to time.Time, employeeID, adjType string) ([]adjustment.Adjustment, error) {
	if f.findByDateRangeFn != nil {
		return f.findByDateRangeFn(ctx, from, to, employeeID, adjType)
	}
	return nil, nil
}

func (f *fakeAdjustmentRepository) FindActiveThrough(ctx context.Context, employeeID string, end time.Time) ([]adjustment.Adjustment, error) {
	if f.findActiveThroughFn != nil {
		return f.findActiveThroughFn(ctx, employeeID, end)
	}
	return nil, nil
}

func (f *fakeAdjustmentRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type adjustmentServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service adjustment.Service
	repo    *fakeAdjustmentRepository
}

func setupAdjustmentServiceTest(t *testing.T) *adjustmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAdjustmentRepository{}
	svc := adjustment.NewService(db, repo, nil)

	return &adjustmentServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func TestCreate_ExpandsRecipients(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	var created []adjustment.Adjustment
	deps.repo.createBatchFn = func(ctx context.Context, rows []adjustment.Adjustment) error {
		created = rows
		return nil
	}

	recipients := []string{uuid.New().String(), uuid.New().String(), uuid.New().String()}
	resp, err := deps.service.Create(context.Background(), uuid.New().String(), adjustment.CreateAdjustmentRequest{
		Type:        adjustment.TypeBonus,
		EmployeeIDs: recipients,
		Amount:      500,
		Date:        "2024-04-05",
	})

	assert.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Len(t, resp, 3)

	groupID := created[0].GroupID
	for i, row := range created {
		assert.Equal(t, 500.0, row.Amount)
		assert.Equal(t, 1500.0, row.TotalAmount)
		assert.Equal(t, groupID, row.GroupID)
		assert.Equal(t, recipients[i], row.EmployeeID.String())
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestCreate_VisitTypeOverridesAmount(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	var created []adjustment.Adjustment
	deps.repo.createBatchFn = func(ctx context.Context, rows []adjustment.Adjustment) error {
		created = rows
		return nil
	}

	visitType := "View car in Bangkok – Completed"
	_, err := deps.service.Create(context.Background(), uuid.New().String(), adjustment.CreateAdjustmentRequest{
		Type:        adjustment.TypeCommission,
		EmployeeIDs: []string{uuid.New().String()},
		Amount:      999, // typed-in amount loses to the price list
		Date:        "2024-04-05",
		VisitType:   &visitType,
	})

	assert.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, 600.0, created[0].Amount)
	assert.Equal(t, &visitType, created[0].VisitType)
}

func TestCreate_VisitTypeRequiresCommission(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	visitType := "View car in Bangkok – Completed"
	_, err := deps.service.Create(context.Background(), uuid.New().String(), adjustment.CreateAdjustmentRequest{
		Type:        adjustment.TypeBonus,
		EmployeeIDs: []string{uuid.New().String()},
		Amount:      500,
		Date:        "2024-04-05",
		VisitType:   &visitType,
	})

	assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidType)
}

func TestCreate_RejectsUnknownVisitType(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	visitType := "Moon delivery"
	_, err := deps.service.Create(context.Background(), uuid.New().String(), adjustment.CreateAdjustmentRequest{
		Type:        adjustment.TypeCommission,
		EmployeeIDs: []string{uuid.New().String()},
		Date:        "2024-04-05",
		VisitType:   &visitType,
	})

	assert.ErrorIs(t, err, adjustmenterrors.ErrUnknownVisitType)
}

func TestCreate_InstallmentsOnlyForAdvances(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Create(context.Background(), uuid.New().String(), adjustment.CreateAdjustmentRequest{
		Type:         adjustment.TypeDeduction,
		EmployeeIDs:  []string{uuid.New().String()},
		Amount:       600,
		Date:         "2024-04-05",
		Installments: 3,
	})

	assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidInstallments)
}

func TestCreate_RejectsNonPositiveAmount(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Create(context.Background(), uuid.New().String(), adjustment.CreateAdjustmentRequest{
		Type:        adjustment.TypeAddition,
		EmployeeIDs: []string{uuid.New().String()},
		Amount:      0,
		Date:        "2024-04-05",
	})

	assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidAmount)
}

func TestCreate_RejectsBadDate(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Create(context.Background(), uuid.New().String(), adjustment.CreateAdjustmentRequest{
		Type:        adjustment.TypeBonus,
		EmployeeIDs: []string{uuid.New().String()},
		Amount:      500,
		Date:        "05/04/2024",
	})

	assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidDateFormat)
}

func TestDelete_NotFound(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	err := deps.service.Delete(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, adjustmenterrors.ErrAdjustmentNotFound)
}

func TestReconcilePeriod_SortsAndNets(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	deps.repo.findActiveThroughFn = func(ctx context.Context, employeeID string, end time.Time) ([]adjustment.Adjustment, error) {
		return []adjustment.Adjustment{
			{Type: adjustment.TypeBonus, EmployeeID: b, Amount: 300, AdjustmentDate: onDate(2024, time.April, 2)},
			{Type: adjustment.TypeAdvance, EmployeeID: a, Amount: 600, Installments: 3, AdjustmentDate: onDate(2024, time.April, 2)},
			{Type: adjustment.TypeCommission, EmployeeID: a, Amount: 800, AdjustmentDate: onDate(2024, time.April, 15)},
		}, nil
	}

	resp, err := deps.service.ReconcilePeriod(context.Background(), "2024-04")
	assert.NoError(t, err)
	assert.Equal(t, "2024-04", resp.Period)
	assert.Len(t, resp.Employees, 2)

	assert.Equal(t, a.String(), resp.Employees[0].EmployeeID)
	assert.Equal(t, 800.0, resp.Employees[0].Credits)
	assert.Equal(t, 200.0, resp.Employees[0].Debits)
	assert.Equal(t, 600.0, resp.Employees[0].Net)

	assert.Equal(t, b.String(), resp.Employees[1].EmployeeID)
	assert.Equal(t, 300.0, resp.Employees[1].Net)
}

func TestReconcilePeriod_RejectsBadKey(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.ReconcilePeriod(context.Background(), "April 2024")
	assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidPeriodKey)
}

func TestBalanceFor_SingleEmployee(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	employee := uuid.New()
	deps.repo.findActiveThroughFn = func(ctx context.Context, employeeID string, end time.Time) ([]adjustment.Adjustment, error) {
		assert.Equal(t, employee.String(), employeeID)
		return []adjustment.Adjustment{
			{Type: adjustment.TypeBonus, EmployeeID: employee, Amount: 1000, AdjustmentDate: onDate(2024, time.April, 10)},
			{Type: adjustment.TypeEmployeeExpense, EmployeeID: employee, Amount: 250, AdjustmentDate: onDate(2024, time.April, 12)},
		}, nil
	}

	balance, err := deps.service.BalanceFor(context.Background(), employee.String(), payperiod.Period{Month: time.April, Year: 2024})
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, balance.Credits)
	assert.Equal(t, 250.0, balance.Debits)
	assert.Equal(t, 750.0, balance.Net)
}

func TestVisitTypes_SortedWithRates(t *testing.T) {
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	types := deps.service.VisitTypes()
	assert.Len(t, types, 6)
	for i := 1; i < len(types); i++ {
		assert.Less(t, types[i-1].Name, types[i].Name)
	}
	for _, vt := range types {
		assert.Greater(t, vt.Amount, 0.0)
	}
}
