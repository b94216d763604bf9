package shifterrors

import (
	"net/http"

	"go-shiftly/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
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
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_time must be after start_time",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be DRAFT or PUBLISHED",
		http.StatusBadRequest,
	)
	ErrShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"shift not found",
		http.StatusNotFound,
	)
	ErrCreateForOtherUser = apperror.New(
		apperror.CodeForbidden,
		"only managers can create shifts for other users",
		http.StatusForbidden,
	)
	ErrNotShiftOwner = apperror.New(
		apperror.CodeForbidden,
		"only managers can modify shifts belonging to other users",
		http.StatusForbidden,
	)
	ErrPublishedImmutable = apperror.New(
		apperror.CodeForbidden,
		"published shifts can only be modified by a manager",
		http.StatusForbidden,
	)
	ErrReassignManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"only managers can reassign a shift",
		http.StatusForbidden,
	)
	ErrAssigneeNotInCompany = apperror.New(
		apperror.CodeForbidden,
		"assignee does not belong to this company",
		http.StatusForbidden,
	)
	ErrPublishManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"only managers can publish shifts",
		http.StatusForbidden,
	)
)
