package adjustmenterrors

import (
	"net/http"

	"go-dms/internal/shared/apperror"
)

var (
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid adjustment type",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment amount must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidInstallments = apperror.New(
		apperror.CodeInvalidInput,
		"installment count must be at least 1 and only applies to advances",
		http.StatusBadRequest,
	)
	ErrNoRecipients = apperror.New(
		apperror.CodeInvalidInput,
		"at least one recipient employee is required",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidVehicleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid vehicle id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodKey = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrUnknownVisitType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown visit type",
		http.StatusBadRequest,
	)
	ErrAdjustmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"adjustment not found",
		http.StatusNotFound,
	)
)
