package vehicle

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-dms/internal/events"
	"go-dms/internal/messaging/kafka"
	"go-dms/internal/shared/cache"
	"go-dms/internal/shared/contextutil"
	"go-dms/internal/shared/counter"
	vehicleerrors "go-dms/internal/vehicle/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheEntity = "vehicle"

//go:generate mockgen -source=vehicle_service.go -destination=mock/vehicle_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error)
	GetAll(ctx context.Context, filter ListFilterRequest) ([]VehicleResponse, error)
	GetByID(ctx context.Context, id string) (VehicleResponse, error)
	Update(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error)
	Sell(ctx context.Context, id, actorID string, req SellVehicleRequest) (VehicleResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	cache   *cache.Cache
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	c *cache.Cache,
) Service {
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		cache:   c,
		logger:  zap.L().Named("vehicle.service"),
		now:     time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error) {
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return VehicleResponse{}, vehicleerrors.ErrInvalidDateFormat
	}
	if req.PurchasePrice <= 0 {
		return VehicleResponse{}, vehicleerrors.ErrInvalidPrice
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return VehicleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByVIN(ctx, req.VIN); err == nil {
		return VehicleResponse{}, vehicleerrors.ErrVINTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return VehicleResponse{}, err
	}

	// Stock numbers restart each calendar year.
	year := s.now().UTC().Year()
	seq, err := s.counter.GetNextValue(ctx, counter.TypeVehicleStock, counter.YearScope(year))
	if err != nil {
		s.logger.Error("create vehicle generate stock number failed", zap.Error(err))
		return VehicleResponse{}, err
	}

	row := &Vehicle{
		ID:            uuid.New(),
		StockNumber:   counter.StockNumber(year, seq),
		VIN:           req.VIN,
		Make:          req.Make,
		Model:         req.Model,
		ModelYear:     req.ModelYear,
		Color:         req.Color,
		Mileage:       req.Mileage,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
		Status:        StatusInStock,
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create vehicle persist failed", zap.Error(err))
		return VehicleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return VehicleResponse{}, err
	}

	s.invalidateCache(ctx)

	s.logger.Info("create vehicle success",
		zap.String("vehicle_id", row.ID.String()),
		zap.String("stock_number", row.StockNumber),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilterRequest) ([]VehicleResponse, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, vehicleerrors.ErrInvalidStatus
	}

	key := cache.NewKey(cacheEntity, map[string]string{
		"status": filter.Status,
		"make":   filter.Make,
	})

	if s.cache != nil {
		var cached []VehicleResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.repo.FindAll(ctx, filter.Status, filter.Make)
	if err != nil {
		return nil, err
	}

	resp := mapToListResponse(rows)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			s.logger.Warn("cache vehicle list failed", zap.Error(err))
		}
	}

	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (VehicleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return VehicleResponse{}, vehicleerrors.ErrInvalidVehicleID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VehicleResponse{}, vehicleerrors.ErrVehicleNotFound
		}
		return VehicleResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return VehicleResponse{}, vehicleerrors.ErrInvalidVehicleID
	}
	if !validStatus(req.Status) {
		return VehicleResponse{}, vehicleerrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return VehicleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VehicleResponse{}, vehicleerrors.ErrVehicleNotFound
		}
		return VehicleResponse{}, err
	}

	// The sale fields only move through Sell; Update cannot flip a vehicle
	// to SOLD or back.
	if row.Status == StatusSold || req.Status == StatusSold {
		return VehicleResponse{}, vehicleerrors.ErrAlreadySold
	}

	row.Color = req.Color
	row.Mileage = req.Mileage
	row.Status = req.Status

	if err := qtx.Update(ctx, row); err != nil {
		return VehicleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return VehicleResponse{}, err
	}

	s.invalidateCache(ctx)

	return mapToResponse(*row), nil
}

// Sell marks the vehicle sold and stages a vehicle.sold event in the outbox
// within the same transaction. The consumer books the seller's commission.
func (s *service) Sell(ctx context.Context, id, actorID string, req SellVehicleRequest) (VehicleResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return VehicleResponse{}, vehicleerrors.ErrInvalidVehicleID
	}
	soldBy, err := uuid.Parse(actorID)
	if err != nil {
		return VehicleResponse{}, vehicleerrors.ErrInvalidVehicleID
	}

	saleDate, err := time.Parse("2006-01-02", req.SaleDate)
	if err != nil {
		return VehicleResponse{}, vehicleerrors.ErrInvalidDateFormat
	}
	if req.SalePrice <= 0 {
		return VehicleResponse{}, vehicleerrors.ErrInvalidPrice
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return VehicleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VehicleResponse{}, vehicleerrors.ErrVehicleNotFound
		}
		return VehicleResponse{}, err
	}

	if row.Status == StatusSold {
		return VehicleResponse{}, vehicleerrors.ErrAlreadySold
	}
	if row.Status != StatusInStock {
		return VehicleResponse{}, vehicleerrors.ErrNotInStock
	}

	row.SalePrice = &req.SalePrice
	row.SaleDate = &saleDate
	row.SoldBy = &soldBy
	row.Status = StatusSold

	if err := qtx.Update(ctx, row); err != nil {
		return VehicleResponse{}, err
	}

	if s.outbox != nil {
		event := events.VehicleSoldEvent{
			EventType:   "vehicle_sold",
			VehicleID:   row.ID.String(),
			StockNumber: row.StockNumber,
			SalePrice:   req.SalePrice,
			SoldBy:      soldBy.String(),
			OccurredAt:  s.now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return VehicleResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "vehicle",
			AggregateID:   row.ID.String(),
			EventType:     event.EventType,
			Topic:         events.VehicleSoldTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("sell vehicle outbox persist failed",
				zap.String("vehicle_id", row.ID.String()),
				zap.Error(err),
			)
			return VehicleResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return VehicleResponse{}, err
	}

	s.invalidateCache(ctx)

	s.logger.Info("sell vehicle success",
		zap.String("request_id", rid),
		zap.String("vehicle_id", row.ID.String()),
		zap.String("stock_number", row.StockNumber),
		zap.Float64("sale_price", req.SalePrice),
	)

	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return vehicleerrors.ErrInvalidVehicleID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return vehicleerrors.ErrVehicleNotFound
		}
		return err
	}
	if row.Status == StatusSold {
		return vehicleerrors.ErrAlreadySold
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCache(ctx)

	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheEntity); err != nil {
		s.logger.Warn("invalidate vehicle cache failed", zap.Error(err))
	}
}

func mapToResponse(row Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:            row.ID.String(),
		StockNumber:   row.StockNumber,
		VIN:           row.VIN,
		Make:          row.Make,
		Model:         row.Model,
		ModelYear:     row.ModelYear,
		Color:         row.Color,
		Mileage:       row.Mileage,
		PurchasePrice: row.PurchasePrice,
		PurchaseDate:  row.PurchaseDate.Format("2006-01-02"),
		SalePrice:     row.SalePrice,
		Status:        row.Status,
	}
	if row.SaleDate != nil {
		d := row.SaleDate.Format("2006-01-02")
		resp.SaleDate = &d
	}
	if row.SoldBy != nil {
		v := row.SoldBy.String()
		resp.SoldBy = &v
	}
	return resp
}

func mapToListResponse(rows []Vehicle) []VehicleResponse {
	res := make([]VehicleResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
