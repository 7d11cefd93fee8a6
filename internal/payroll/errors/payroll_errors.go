package payrollerrors

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
	ErrInvalidPeriodKey = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period key, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentMethod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment method",
		http.StatusBadRequest,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"no employees to generate payroll for",
		http.StatusBadRequest,
	)
	ErrAttendanceOutsidePeriod = apperror.New(
		apperror.CodeInvalidInput,
		"attendance record falls outside the pay period",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"payroll record is not pending",
		http.StatusConflict,
	)
	ErrNotProcessed = apperror.New(
		apperror.CodeInvalidState,
		"payroll record is not processed",
		http.StatusConflict,
	)
	ErrNotPaid = apperror.New(
		apperror.CodeInvalidState,
		"payroll record is not paid",
		http.StatusConflict,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payroll record is already paid",
		http.StatusConflict,
	)
)
