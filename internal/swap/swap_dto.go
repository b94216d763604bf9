package swap

import "time"

type CreateSwapRequest struct {
	ShiftID         string  `json:"shift_id" binding:"required,uuid"`
	RequestedUserID *string `json:"requested_user_id" binding:"omitempty,uuid"`
	Reason          string  `json:"reason"`
}

// ListRequestsQuery narrows the listing. Type "cover" selects the public
// pending cover board; "swap" selects direct swaps only.
type ListRequestsQuery struct {
	Type   string `form:"type" binding:"omitempty,oneof=cover swap"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

type SwapResponse struct {
	ID                      string  `json:"id"`
	CompanyID               string  `json:"company_id"`
	ShiftID                 string  `json:"shift_id"`
	RequesterID             string  `json:"requester_id"`
	RequestedUserID         *string `json:"requested_user_id,omitempty"`
	Reason                  string  `json:"reason,omitempty"`
	Status                  string  `json:"status"`
	IsCover                 bool    `json:"is_cover"`
	RequestedUserApprovedAt *string `json:"requested_user_approved_at,omitempty"`
	CreatedAt               string  `json:"created_at"`
}

func mapToResponse(r SwapRequest) SwapResponse {
	resp := SwapResponse{
		ID:          r.ID.String(),
		CompanyID:   r.CompanyID.String(),
		ShiftID:     r.ShiftID.String(),
		RequesterID: r.RequesterID.String(),
		Reason:      r.Reason,
		Status:      r.Status,
		IsCover:     r.IsCover(),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
	if r.RequestedUserID != nil {
		id := r.RequestedUserID.String()
		resp.RequestedUserID = &id
	}
	if r.RequestedUserApprovedAt != nil {
		at := r.RequestedUserApprovedAt.UTC().Format(time.RFC3339)
		resp.RequestedUserApprovedAt = &at
	}
	return resp
}

// NewResponse maps a request for callers outside the package, such as the
// cover bid flow announcing an approved parent request.
func NewResponse(r SwapRequest) SwapResponse {
	return mapToResponse(r)
}

func mapToListResponse(requests []SwapRequest) []SwapResponse {
	resp := make([]SwapResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r)
	}
	return resp
}
