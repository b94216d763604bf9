package usererrors

import (
	"net/http"

	"go-shiftly/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already in use",
		http.StatusConflict,
	)
	ErrWrongPassword = apperror.New(
		apperror.CodeUnauthorized,
		"current password is incorrect",
		http.StatusUnauthorized,
	)
)
