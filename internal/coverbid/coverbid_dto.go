package coverbid

import "time"

type CreateBidRequest struct {
	CoverRequestID string `json:"cover_request_id" binding:"required,uuid"`
}

type ListBidsQuery struct {
	CoverRequestID string `form:"cover_request_id" binding:"omitempty,uuid"`
}

type BidResponse struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	CoverRequestID string `json:"cover_request_id"`
	BidderID       string `json:"bidder_id"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

func mapToResponse(b CoverBid) BidResponse {
	return BidResponse{
		ID:             b.ID.String(),
		CompanyID:      b.CompanyID.String(),
		CoverRequestID: b.CoverRequestID.String(),
		BidderID:       b.BidderID.String(),
		Status:         b.Status,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(bids []CoverBid) []BidResponse {
	resp := make([]BidResponse, len(bids))
	for i, b := range bids {
		resp[i] = mapToResponse(b)
	}
	return resp
}
