package coverbiderrors

import (
	"net/http"

	"go-shiftly/internal/shared/apperror"
)

var (
	ErrInvalidBidID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid bid id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid cover request id",
		http.StatusBadRequest,
	)
	ErrBidNotFound = apperror.New(
		apperror.CodeNotFound,
		"bid not found",
		http.StatusNotFound,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"cover request not found",
		http.StatusNotFound,
	)
	ErrNotCoverRequest = apperror.New(
		apperror.CodeInvalidOperation,
		"bids can only be placed on open cover requests",
		http.StatusUnprocessableEntity,
	)
	ErrRequestNotOpen = apperror.New(
		apperror.CodeConflict,
		"cover request is no longer pending",
		http.StatusConflict,
	)
	ErrSelfBid = apperror.New(
		apperror.CodeConflict,
		"cannot bid on your own cover request",
		http.StatusConflict,
	)
	ErrDuplicateBid = apperror.New(
		apperror.CodeConflict,
		"you already have a pending bid on this request",
		http.StatusConflict,
	)
	ErrBidAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"bid is no longer pending",
		http.StatusConflict,
	)
	ErrManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"only managers can decide bids",
		http.StatusForbidden,
	)
	ErrShiftConflict = apperror.New(
		apperror.CodeConflict,
		"shift was modified concurrently, re-fetch and retry",
		http.StatusConflict,
	)
)
