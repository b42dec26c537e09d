package attendanceerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

var (
	ErrNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"role is not authorized for this record's current stage",
		http.StatusForbidden,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrRecordLocked = apperror.New(
		apperror.CodeInvalidState,
		"record is under review and its figures can no longer be edited",
		http.StatusBadRequest,
	)
	ErrNegativeDayCount = apperror.New(
		apperror.CodeInvalidInput,
		"day counts must not be negative",
		http.StatusBadRequest,
	)
	ErrNormalDaysExceedMonth = apperror.New(
		apperror.CodeInvalidInput,
		"normal days exceed the calendar days of the target month",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reporting period",
		http.StatusBadRequest,
	)
	ErrWorkerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"worker does not exist",
		http.StatusBadRequest,
	)
	ErrWorkerOutOfScope = apperror.New(
		apperror.CodeForbidden,
		"worker is outside your resolved scope",
		http.StatusForbidden,
	)
)
