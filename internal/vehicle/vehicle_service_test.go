package vehicle_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"go-dms/internal/events"
	"go-dms/internal/messaging/kafka"
	"go-dms/internal/vehicle"
	vehicleerrors "go-dms/internal/vehicle/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeVehicleRepository struct {
	withTxFn    func(tx *sql.Tx) vehicle.Repository
	createFn    func(ctx context.Context, row *vehicle.Vehicle) error
	updateFn    func(ctx context.Context, row *vehicle.Vehicle) error
	findByIDFn  func(ctx context.Context, id string) (*vehicle.Vehicle, error)
	findByVINFn func(ctx context.Context, vin string) (*vehicle.Vehicle, error)
	findAllFn   func(ctx context.Context, status, make string) ([]vehicle.Vehicle, error)
	deleteFn    func(ctx context.Context, id string) error
}

func (f *fakeVehicleRepository) WithTx(tx *sql.Tx) vehicle.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeVehicleRepository) Create(ctx context.Context, row *vehicle.Vehicle) error {
	if f.createFn != nil {
		return f.createFn(ctx, row)
	}
	return nil
}

func (f *fakeVehicleRepository) Update(ctx context.Context, row *vehicle.Vehicle) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, row)
	}
	return nil
}

func (f *fakeVehicleRepository) FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVehicleRepository) FindByVIN(ctx context.Context, vin string) (*vehicle.Vehicle, error) {
	if f.findByVINFn != nil {
		return f.findByVINFn(ctx, vin)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVehicleRepository) FindAll(ctx context.Context, status, make string) ([]vehicle.Vehicle, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, status, make)
	}
	return nil, nil
}

func (f *fakeVehicleRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
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

type vehicleServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service vehicle.Service
	repo    *fakeVehicleRepository
	outbox  *fakeOutboxRepository
}

func setupVehicleServiceTest(t *testing.T) *vehicleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeVehicleRepository{}
	outbox := &fakeOutboxRepository{}
	svc := vehicle.NewService(db, repo, &fakeCounterRepository{}, outbox, nil)

	return &vehicleServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, outbox: outbox}
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

func TestCreate_AssignsStockNumber(t *testing.T) {
	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	var created *vehicle.Vehicle
	deps.repo.createFn = func(ctx context.Context, row *vehicle.Vehicle) error {
		created = row
		return nil
	}

	resp, err := deps.service.Create(context.Background(), vehicle.CreateVehicleRequest{
		VIN:           "JT2BG22K0W0123456",
		Make:          "Toyota",
		Model:         "Camry",
		ModelYear:     2019,
		PurchasePrice: 450000,
		PurchaseDate:  "2024-02-10",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Regexp(t, `^VH-\d{4}-0001$`, resp.StockNumber)
	assert.Equal(t, vehicle.StatusInStock, resp.Status)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestCreate_RejectsDuplicateVIN(t *testing.T) {
	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	deps.repo.findByVINFn = func(ctx context.Context, vin string) (*vehicle.Vehicle, error) {
		return &vehicle.Vehicle{ID: uuid.New(), VIN: vin}, nil
	}

	_, err := deps.service.Create(context.Background(), vehicle.CreateVehicleRequest{
		VIN:           "JT2BG22K0W0123456",
		Make:          "Toyota",
		Model:         "Camry",
		ModelYear:     2019,
		PurchasePrice: 450000,
		PurchaseDate:  "2024-02-10",
	})

	assert.ErrorIs(t, err, vehicleerrors.ErrVINTaken)
}

func TestSell_MarksSoldAndStagesEvent(t *testing.T) {
	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	id := uuid.New()
	deps.repo.findByIDFn = func(ctx context.Context, rid string) (*vehicle.Vehicle, error) {
		return &vehicle.Vehicle{ID: id, StockNumber: "VH-2024-0042", Status: vehicle.StatusInStock}, nil
	}

	var updated *vehicle.Vehicle
	deps.repo.updateFn = func(ctx context.Context, row *vehicle.Vehicle) error {
		updated = row
		return nil
	}

	actor := uuid.New()
	resp, err := deps.service.Sell(context.Background(), id.String(), actor.String(), vehicle.SellVehicleRequest{
		SalePrice: 520000,
		SaleDate:  "2024-04-05",
	})

	assert.NoError(t, err)
	assert.Equal(t, vehicle.StatusSold, resp.Status)
	assert.NotNil(t, updated.SalePrice)
	assert.Equal(t, 520000.0, *updated.SalePrice)
	assert.Equal(t, actor, *updated.SoldBy)

	assert.Len(t, deps.outbox.created, 1)
	staged := deps.outbox.created[0]
	assert.Equal(t, events.VehicleSoldTopic, staged.Topic)
	assert.Equal(t, kafka.OutboxStatusPending, staged.Status)

	var event events.VehicleSoldEvent
	assert.NoError(t, json.Unmarshal(staged.Payload, &event))
	assert.Equal(t, "vehicle_sold", event.EventType)
	assert.Equal(t, "VH-2024-0042", event.StockNumber)
	assert.Equal(t, 520000.0, event.SalePrice)
	assert.Equal(t, actor.String(), event.SoldBy)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestSell_RejectsAlreadySold(t *testing.T) {
	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	id := uuid.New()
	deps.repo.findByIDFn = func(ctx context.Context, rid string) (*vehicle.Vehicle, error) {
		return &vehicle.Vehicle{ID: id, Status: vehicle.StatusSold}, nil
	}

	_, err := deps.service.Sell(context.Background(), id.String(), uuid.New().String(), vehicle.SellVehicleRequest{
		SalePrice: 520000,
		SaleDate:  "2024-04-05",
	})

	assert.ErrorIs(t, err, vehicleerrors.ErrAlreadySold)
	assert.Empty(t, deps.outbox.created)
}

func TestSell_RejectsVehicleInMaintenance(t *testing.T) {
	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	id := uuid.New()
	deps.repo.findByIDFn = func(ctx context.Context, rid string) (*vehicle.Vehicle, error) {
		return &vehicle.Vehicle{ID: id, Status: vehicle.StatusMaintenance}, nil
	}

	_, err := deps.service.Sell(context.Background(), id.String(), uuid.New().String(), vehicle.SellVehicleRequest{
		SalePrice: 520000,
		SaleDate:  "2024-04-05",
	})

	assert.ErrorIs(t, err, vehicleerrors.ErrNotInStock)
}

func TestUpdate_CannotFlipToSold(t *testing.T) {
	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	id := uuid.New()
	deps.repo.findByIDFn = func(ctx context.Context, rid string) (*vehicle.Vehicle, error) {
		return &vehicle.Vehicle{ID: id, Status: vehicle.StatusInStock}, nil
	}

	_, err := deps.service.Update(context.Background(), id.String(), vehicle.UpdateVehicleRequest{
		Status: vehicle.StatusSold,
	})

	assert.ErrorIs(t, err, vehicleerrors.ErrAlreadySold)
}

func TestDelete_RejectsSoldVehicle(t *testing.T) {
	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	id := uuid.New()
	deps.repo.findByIDFn = func(ctx context.Context, rid string) (*vehicle.Vehicle, error) {
		return &vehicle.Vehicle{ID: id, Status: vehicle.StatusSold}, nil
	}

	err := deps.service.Delete(context.Background(), id.String())
	assert.ErrorIs(t, err, vehicleerrors.ErrAlreadySold)
}
