package availabilityerrors

import (
	"net/http"

	"go-shiftly/internal/shared/apperror"
)

var (
	ErrRuleNotFound = apperror.New(
		apperror.CodeNotFound,
		"unavailability rule not found",
		http.StatusNotFound,
	)
	ErrNotRuleOwner = apperror.New(
		apperror.CodeForbidden,
		"unavailability rules can only be changed by their owner",
		http.StatusForbidden,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
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
	ErrAllDayWithTimes = apperror.New(
		apperror.CodeInvalidInput,
		"all_day rules must not carry start_time or end_time",
		http.StatusBadRequest,
	)
	ErrMissingTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"either all_day or both start_time and end_time are required",
		http.StatusBadRequest,
	)
	ErrInvalidFrequency = apperror.New(
		apperror.CodeInvalidInput,
		"frequency must be empty, daily or weekly",
		http.StatusBadRequest,
	)
	ErrInvalidInterval = apperror.New(
		apperror.CodeInvalidInput,
		"interval must be at least 1",
		http.StatusBadRequest,
	)
	ErrWeeklyRequiresDays = apperror.New(
		apperror.CodeInvalidInput,
		"weekly rules require at least one day of week",
		http.StatusBadRequest,
	)
	ErrInvalidDayOfWeek = apperror.New(
		apperror.CodeInvalidInput,
		"days_of_week entries must be day names or numbers 0 (Sunday) through 6 (Saturday)",
		http.StatusBadRequest,
	)
)
