package workererrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

var (
	ErrWorkerNotFound = apperror.New(
		apperror.CodeNotFound,
		"worker not found",
		http.StatusNotFound,
	)
	ErrDuplicateWorkerID = apperror.New(
		apperror.CodeConflict,
		"a worker with this id already exists",
		http.StatusConflict,
	)
	ErrAreaNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"assigned area does not exist",
		http.StatusBadRequest,
	)
	ErrWorkerOutOfScope = apperror.New(
		apperror.CodeForbidden,
		"worker is outside your resolved scope",
		http.StatusForbidden,
	)
)
