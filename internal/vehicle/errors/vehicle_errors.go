package vehicleerrors

import (
	"net/http"

	"go-dms/internal/shared/apperror"
)

var (
	ErrInvalidVehicleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid vehicle id",
		http.StatusBadRequest,
	)
	ErrVehicleNotFound = apperror.New(
		apperror.CodeNotFound,
		"vehicle not found",
		http.StatusNotFound,
	)
	ErrVINTaken = apperror.New(
		apperror.CodeConflict,
		"a vehicle with this VIN already exists",
		http.StatusConflict,
	)
	ErrInvalidPrice = apperror.New(
		apperror.CodeInvalidInput,
		"price must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid vehicle status",
		http.StatusBadRequest,
	)
	ErrAlreadySold = apperror.New(
		apperror.CodeInvalidState,
		"vehicle is already sold",
		http.StatusConflict,
	)
	ErrNotInStock = apperror.New(
		apperror.CodeInvalidState,
		"vehicle is not in stock",
		http.StatusConflict,
	)
)
