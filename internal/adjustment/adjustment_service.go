package adjustment

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	adjustmenterrors "go-dms/internal/adjustment/errors"
	"go-dms/internal/payperiod"
	"go-dms/internal/shared/money"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateAdjustmentRequest) ([]AdjustmentResponse, error)
	GetAll(ctx context.Context, filter ListFilterRequest) ([]AdjustmentResponse, error)
	Delete(ctx context.Context, id string) error
	ReconcilePeriod(ctx context.Context, periodKey string) (ReconciliationResponse, error)
	ReconcileVehicles(ctx context.Context, periodKey string) (VehicleReconciliationResponse, error)
	BalanceFor(ctx context.Context, employeeID string, period payperiod.Period) (Balance, error)
	VisitTypes() []VisitTypeResponse
}

type service struct {
	db          *sql.DB
	repo        Repository
	commissions *CommissionTable
}

func NewService(db *sql.DB, repo Repository, commissions *CommissionTable) Service {
	if commissions == nil {
		commissions = DefaultCommissionTable()
	}
	return &service{db: db, repo: repo, commissions: commissions}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateAdjustmentRequest) ([]AdjustmentResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return nil, adjustmenterrors.ErrInvalidEmployeeID
	}

	if !validType(req.Type) {
		return nil, adjustmenterrors.ErrInvalidType
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, adjustmenterrors.ErrInvalidDateFormat
	}

	if len(req.EmployeeIDs) == 0 {
		return nil, adjustmenterrors.ErrNoRecipients
	}

	recipients := make([]uuid.UUID, len(req.EmployeeIDs))
	for i, raw := range req.EmployeeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, adjustmenterrors.ErrInvalidEmployeeID
		}
		recipients[i] = id
	}

	amount := req.Amount

	// A visit type carries its own negotiated rate, which always wins over
	// whatever amount was typed in.
	var visitType *string
	if req.VisitType != nil && *req.VisitType != "" {
		if req.Type != TypeCommission {
			return nil, adjustmenterrors.ErrInvalidType
		}
		rate, ok := s.commissions.Rate(*req.VisitType)
		if !ok {
			return nil, adjustmenterrors.ErrUnknownVisitType
		}
		amount = rate
		visitType = req.VisitType
	}

	if amount <= 0 {
		return nil, adjustmenterrors.ErrInvalidAmount
	}

	installments := req.Installments
	if installments == 0 {
		installments = 1
	}
	if installments < 1 || (installments > 1 && req.Type != TypeAdvance) {
		return nil, adjustmenterrors.ErrInvalidInstallments
	}

	var vehicleID *uuid.UUID
	if req.VehicleID != nil && *req.VehicleID != "" {
		id, err := uuid.Parse(*req.VehicleID)
		if err != nil {
			return nil, adjustmenterrors.ErrInvalidVehicleID
		}
		vehicleID = &id
	}

	// One row per recipient at the full per-employee amount; the aggregate
	// goes to TotalAmount on every row.
	groupID := uuid.New()
	totalAmount := money.Round2(amount * float64(len(recipients)))

	rows := make([]Adjustment, len(recipients))
	for i, employeeID := range recipients {
		rows[i] = Adjustment{
			ID:             uuid.New(),
			GroupID:        groupID,
			Type:           req.Type,
			EmployeeID:     employeeID,
			VehicleID:      vehicleID,
			Amount:         amount,
			TotalAmount:    totalAmount,
			AdjustmentDate: date,
			Installments:   installments,
			VisitType:      visitType,
			Remarks:        req.Remarks,
			CreatedBy:      createdBy,
		}
	}

	if err := qtx.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilterRequest) ([]AdjustmentResponse, error) {
	var from, to time.Time
	if filter.Period != "" {
		period, err := payperiod.ParseKey(filter.Period)
		if err != nil {
			return nil, adjustmenterrors.ErrInvalidPeriodKey
		}
		from, to = period.Bounds()
	} else {
		to = time.Now().UTC()
		from = to.AddDate(-1, 0, 0)
	}

	if filter.Type != "" && !validType(filter.Type) {
		return nil, adjustmenterrors.ErrInvalidType
	}

	rows, err := s.repo.FindByDateRange(ctx, from, to, filter.EmployeeID, filter.Type)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adjustmenterrors.ErrAdjustmentNotFound
		}
		return err
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) ReconcilePeriod(ctx context.Context, periodKey string) (ReconciliationResponse, error) {
	period, err := payperiod.ParseKey(periodKey)
	if err != nil {
		return ReconciliationResponse{}, adjustmenterrors.ErrInvalidPeriodKey
	}

	_, end := period.Bounds()
	rows, err := s.repo.FindActiveThrough(ctx, "", end)
	if err != nil {
		return ReconciliationResponse{}, err
	}

	balances := Reconcile(rows, period)

	employees := make([]EmployeeBalanceResponse, 0, len(balances))
	for employeeID, b := range balances {
		employees = append(employees, EmployeeBalanceResponse{
			EmployeeID: employeeID.String(),
			Credits:    b.Credits,
			Debits:     b.Debits,
			Net:        b.Net,
		})
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].EmployeeID < employees[j].EmployeeID
	})

	return ReconciliationResponse{
		Period:    period.Key(),
		Employees: employees,
	}, nil
}

func (s *service) ReconcileVehicles(ctx context.Context, periodKey string) (VehicleReconciliationResponse, error) {
	period, err := payperiod.ParseKey(periodKey)
	if err != nil {
		return VehicleReconciliationResponse{}, adjustmenterrors.ErrInvalidPeriodKey
	}

	_, end := period.Bounds()
	rows, err := s.repo.FindActiveThrough(ctx, "", end)
	if err != nil {
		return VehicleReconciliationResponse{}, err
	}

	balances := ReconcileByVehicle(rows, period)

	vehicles := make([]VehicleBalanceResponse, 0, len(balances))
	for vehicleID, b := range balances {
		vehicles = append(vehicles, VehicleBalanceResponse{
			VehicleID: vehicleID.String(),
			Credits:   b.Credits,
			Debits:    b.Debits,
			Net:       b.Net,
		})
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].VehicleID < vehicles[j].VehicleID
	})

	return VehicleReconciliationResponse{
		Period:   period.Key(),
		Vehicles: vehicles,
	}, nil
}

// BalanceFor returns one employee's netted adjustments for a period. The
// payroll calculator folds the credits into gross pay and the debits into
// deductions.
func (s *service) BalanceFor(ctx context.Context, employeeID string, period payperiod.Period) (Balance, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Balance{}, adjustmenterrors.ErrInvalidEmployeeID
	}

	_, end := period.Bounds()
	rows, err := s.repo.FindActiveThrough(ctx, employeeID, end)
	if err != nil {
		return Balance{}, err
	}

	balances := Reconcile(rows, period)
	id := uuid.MustParse(employeeID)
	return balances[id], nil
}

func (s *service) VisitTypes() []VisitTypeResponse {
	names := s.commissions.VisitTypes()
	sort.Strings(names)

	res := make([]VisitTypeResponse, len(names))
	for i, name := range names {
		rate, _ := s.commissions.Rate(name)
		res[i] = VisitTypeResponse{Name: name, Amount: rate}
	}
	return res
}

func mapToResponse(a Adjustment) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:           a.ID.String(),
		GroupID:      a.GroupID.String(),
		Type:         a.Type,
		EmployeeID:   a.EmployeeID.String(),
		Amount:       a.Amount,
		TotalAmount:  a.TotalAmount,
		Date:         a.AdjustmentDate.Format("2006-01-02"),
		Installments: a.Installments,
		VisitType:    a.VisitType,
		Remarks:      a.Remarks,
		CreatedBy:    a.CreatedBy.String(),
	}
	if a.VehicleID != nil {
		v := a.VehicleID.String()
		resp.VehicleID = &v
	}
	return resp
}

func mapToListResponse(rows []Adjustment) []AdjustmentResponse {
	res := make([]AdjustmentResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
