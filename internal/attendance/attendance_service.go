package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-dms/internal/attendance/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error)
	StartBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)
	EndBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)
	CreateManual(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error)
	Correct(ctx context.Context, id string, req CorrectionRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, actorID string, canReadAll bool, filter ListFilterRequest) ([]AttendanceResponse, error)
	ForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
}

type service struct {
	db   *sql.DB
	repo Repository
	now  func() time.Time
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo, now: time.Now}
}

func (s *service) CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing.CheckIn != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	status := StatusPresent
	if now.Hour() > 9 || (now.Hour() == 9 && now.Minute() > 15) {
		status = StatusLate
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     employeeUUID,
		AttendanceDate: today,
		CheckIn:        &now,
		Status:         status,
		Source:         source,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error) {
	return s.updateToday(ctx, employeeID, func(row *Attendance, now time.Time) error {
		if row.CheckOut != nil {
			return attendanceerrors.ErrAlreadyCheckedOut
		}
		row.CheckOut = &now
		if req.Notes != nil {
			row.Notes = req.Notes
		}
		return nil
	})
}

func (s *service) StartBreak(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	return s.updateToday(ctx, employeeID, func(row *Attendance, now time.Time) error {
		if row.BreakStart != nil {
			return attendanceerrors.ErrBreakAlreadyStarted
		}
		if row.CheckOut != nil {
			return attendanceerrors.ErrAlreadyCheckedOut
		}
		row.BreakStart = &now
		return nil
	})
}

func (s *service) EndBreak(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	return s.updateToday(ctx, employeeID, func(row *Attendance, now time.Time) error {
		if row.BreakStart == nil {
			return attendanceerrors.ErrBreakNotStarted
		}
		if row.BreakEnd != nil {
			return attendanceerrors.ErrBreakAlreadyEnded
		}
		row.BreakEnd = &now
		return nil
	})
}

// updateToday loads today's record for the employee, applies mutate, then
// recomputes derived hours and saves.
func (s *service) updateToday(
	ctx context.Context,
	employeeID string,
	mutate func(row *Attendance, now time.Time) error,
) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrCheckInNotFound
		}
		return AttendanceResponse{}, err
	}

	if err := mutate(row, now); err != nil {
		return AttendanceResponse{}, err
	}

	if err := row.recompute(); err != nil {
		return AttendanceResponse{}, err
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) CreateManual(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	existing, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	status := req.Status
	if status == "" {
		status = StatusPresent
	}
	if !validStatus(status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     employeeUUID,
		AttendanceDate: date,
		Status:         status,
		Source:         "SHEET",
		Notes:          req.Notes,
	}

	if row.CheckIn, err = parseTimeOfDay(date, req.CheckIn); err != nil {
		return AttendanceResponse{}, err
	}
	if row.CheckOut, err = parseTimeOfDay(date, req.CheckOut); err != nil {
		return AttendanceResponse{}, err
	}
	if row.BreakStart, err = parseTimeOfDay(date, req.BreakStart); err != nil {
		return AttendanceResponse{}, err
	}
	if row.BreakEnd, err = parseTimeOfDay(date, req.BreakEnd); err != nil {
		return AttendanceResponse{}, err
	}

	if err := row.recompute(); err != nil {
		return AttendanceResponse{}, err
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Correct(ctx context.Context, id string, req CorrectionRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}

	date := row.AttendanceDate

	if req.CheckIn != nil {
		if row.CheckIn, err = parseTimeOfDay(date, req.CheckIn); err != nil {
			return AttendanceResponse{}, err
		}
	}
	if req.CheckOut != nil {
		if row.CheckOut, err = parseTimeOfDay(date, req.CheckOut); err != nil {
			return AttendanceResponse{}, err
		}
	}
	if req.BreakStart != nil {
		if row.BreakStart, err = parseTimeOfDay(date, req.BreakStart); err != nil {
			return AttendanceResponse{}, err
		}
	}
	if req.BreakEnd != nil {
		if row.BreakEnd, err = parseTimeOfDay(date, req.BreakEnd); err != nil {
			return AttendanceResponse{}, err
		}
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
		}
		row.Status = *req.Status
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := row.recompute(); err != nil {
		return AttendanceResponse{}, err
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool, filter ListFilterRequest) ([]AttendanceResponse, error) {
	from, to, err := parseRange(filter.From, filter.To, s.now)
	if err != nil {
		return nil, err
	}

	var (
		rows []Attendance
	)
	switch {
	case filter.EmployeeID != "" && canReadAll:
		rows, err = s.repo.FindByEmployeeAndRange(ctx, filter.EmployeeID, from, to)
	case canReadAll:
		rows, err = s.repo.FindAll(ctx, from, to)
	default:
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		rows, err = s.repo.FindByEmployeeAndRange(ctx, actorID, from, to)
	}
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// ForPeriod exposes raw records to the payroll calculator.
func (s *service) ForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error) {
	return s.repo.FindByEmployeeAndRange(ctx, employeeID, from, to)
}

func parseRange(fromStr, toStr string, now func() time.Time) (time.Time, time.Time, error) {
	to := now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, -1, 0)

	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDateFormat
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDateFormat
		}
	}
	return from, to, nil
}

// parseTimeOfDay combines a HH:MM string with the record's date. A nil or
// empty value clears the field.
func parseTimeOfDay(date time.Time, v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", *v)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTimeFormat
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return &combined, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		HoursWorked:    a.HoursWorked,
		OvertimeHours:  a.OvertimeHours,
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	resp.CheckIn = formatTime(a.CheckIn)
	resp.CheckOut = formatTime(a.CheckOut)
	resp.BreakStart = formatTime(a.BreakStart)
	resp.BreakEnd = formatTime(a.BreakEnd)
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
