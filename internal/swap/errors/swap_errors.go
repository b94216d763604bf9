package swaperrors

import (
	"net/http"

	"go-shiftly/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid swap request id",
		http.StatusBadRequest,
	)
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
	ErrInvalidShiftID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestedUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid requested user id",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"swap request not found",
		http.StatusNotFound,
	)
	ErrShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"shift not found",
		http.StatusNotFound,
	)
	ErrNotShiftAssignee = apperror.New(
		apperror.CodeForbidden,
		"only the shift's current assignee can request a swap or cover",
		http.StatusForbidden,
	)
	ErrTargetNotInCompany = apperror.New(
		apperror.CodeNotFound,
		"requested user does not belong to this company",
		http.StatusNotFound,
	)
	ErrSelfSwap = apperror.New(
		apperror.CodeConflict,
		"cannot request a swap with yourself",
		http.StatusConflict,
	)
	ErrPendingRequestExists = apperror.New(
		apperror.CodeConflict,
		"a pending request already exists for this shift",
		http.StatusConflict,
	)
	ErrNotRequestedPartner = apperror.New(
		apperror.CodeForbidden,
		"only the requested user can respond to this swap",
		http.StatusForbidden,
	)
	ErrNotDirectSwap = apperror.New(
		apperror.CodeInvalidOperation,
		"cover requests are decided through bids, not direct approval",
		http.StatusUnprocessableEntity,
	)
	ErrCoverHasNoPartner = apperror.New(
		apperror.CodeInvalidOperation,
		"cover requests have no partner to respond",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"swap request is no longer pending",
		http.StatusConflict,
	)
	ErrAlreadyAgreed = apperror.New(
		apperror.CodeConflict,
		"partner has already agreed to this swap",
		http.StatusConflict,
	)
	ErrPartnerNotAgreed = apperror.New(
		apperror.CodePreconditionFailed,
		"partner must agree before the swap can be approved",
		http.StatusPreconditionFailed,
	)
	ErrManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"only managers can decide swap requests",
		http.StatusForbidden,
	)
	ErrShiftConflict = apperror.New(
		apperror.CodeConflict,
		"shift was modified concurrently, re-fetch and retry",
		http.StatusConflict,
	)
)
