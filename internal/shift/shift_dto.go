package shift

import "time"

type CreateShiftRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	Title     string `json:"title"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Note      string `json:"note"`
	Status    string `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED"`
}

// UpdateShiftRequest carries partial update semantics: nil fields are left
// untouched, non-nil fields overwrite.
type UpdateShiftRequest struct {
	UserID    *string `json:"user_id" binding:"omitempty,uuid"`
	Title     *string `json:"title"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Note      *string `json:"note"`
	Status    *string `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED"`
}

type PublishShiftsRequest struct {
	ShiftIDs []string `json:"shift_ids" binding:"required,min=1,dive,uuid"`
}

type ShiftResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Note        string `json:"note,omitempty"`
	Status      string `json:"status"`
	IsPublished bool   `json:"is_published"`
}

func mapToResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:          s.ID.String(),
		CompanyID:   s.CompanyID.String(),
		UserID:      s.UserID.String(),
		Title:       s.Title,
		Date:        s.Date.Format(time.DateOnly),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Note:        s.Note,
		Status:      s.Status,
		IsPublished: s.Status == StatusPublished,
	}
}

// NewResponse maps a shift for callers outside the package, such as the
// swap and cover bid flows announcing a reassignment.
func NewResponse(s Shift) ShiftResponse {
	return mapToResponse(s)
}

func mapToListResponse(shifts []Shift) []ShiftResponse {
	resp := make([]ShiftResponse, len(shifts))
	for i, s := range shifts {
		resp[i] = mapToResponse(s)
	}
	return resp
}
