package areaerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

var (
	ErrAreaNotFound = apperror.New(
		apperror.CodeNotFound,
		"area not found",
		http.StatusNotFound,
	)
	ErrDuplicateAreaName = apperror.New(
		apperror.CodeConflict,
		"an area with this name already exists",
		http.StatusConflict,
	)
	ErrAreaHasWorkers = apperror.New(
		apperror.CodeConflict,
		"area still has workers assigned and cannot be deleted",
		http.StatusConflict,
	)
	ErrInvalidAreaID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid area id",
		http.StatusBadRequest,
	)
)
