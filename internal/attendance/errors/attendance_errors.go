package attendanceerrors

import (
	"net/http"

	"go-dms/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrCheckOutBeforeCheckIn = apperror.New(
		apperror.CodeInvalidInput,
		"check-out must not be before check-in",
		http.StatusBadRequest,
	)
	ErrIncompleteBreak = apperror.New(
		apperror.CodeInvalidInput,
		"break requires both start and end times",
		http.StatusBadRequest,
	)
	ErrBreakEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"break end must not be before break start",
		http.StatusBadRequest,
	)
	ErrBreakLongerThanShift = apperror.New(
		apperror.CodeInvalidInput,
		"break cannot be longer than the worked duration",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"already checked in for this date",
		http.StatusConflict,
	)
	ErrCheckInNotFound = apperror.New(
		apperror.CodeNotFound,
		"check-in not found for this date",
		http.StatusNotFound,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeConflict,
		"already checked out for this date",
		http.StatusConflict,
	)
	ErrBreakAlreadyStarted = apperror.New(
		apperror.CodeConflict,
		"break already started for this date",
		http.StatusConflict,
	)
	ErrBreakNotStarted = apperror.New(
		apperror.CodeConflict,
		"break has not been started for this date",
		http.StatusConflict,
	)
	ErrBreakAlreadyEnded = apperror.New(
		apperror.CodeConflict,
		"break already ended for this date",
		http.StatusConflict,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance status",
		http.StatusBadRequest,
	)
)
