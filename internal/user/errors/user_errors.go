package usererrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"invalid role",
		http.StatusBadRequest,
	)
	ErrInvalidAreaAssignment = apperror.New(
		apperror.CodeInvalidInput,
		"area assignment must reference existing areas or ALL",
		http.StatusBadRequest,
	)
)
