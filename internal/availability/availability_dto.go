package availability

import (
	"strconv"
	"strings"
	"time"

	availabilityerrors "go-shiftly/internal/availability/errors"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// parseDayOfWeek accepts either a day name ("sunday", "Sun") or a number
// ("0".."6", Sunday first) and normalizes it to 0..6.
func parseDayOfWeek(v string) (int, error) {
	trimmed := strings.TrimSpace(v)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 || n > 6 {
			return 0, availabilityerrors.ErrInvalidDayOfWeek
		}
		return n, nil
	}
	lowered := strings.ToLower(trimmed)
	for i, name := range dayNames {
		full := strings.ToLower(name)
		if lowered == full || lowered == full[:3] {
			return i, nil
		}
	}
	return 0, availabilityerrors.ErrInvalidDayOfWeek
}

type CreateRuleRequest struct {
	StartDate  string   `json:"start_date" binding:"required"`
	EndDate    *string  `json:"end_date"`
	AllDay     bool     `json:"all_day"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	Frequency  string   `json:"frequency" binding:"omitempty,oneof=daily weekly"`
	Interval   *int     `json:"interval"`
	DaysOfWeek []string `json:"days_of_week"`
	Note       string   `json:"note"`
}

type UpdateRuleRequest struct {
	StartDate  *string   `json:"start_date"`
	EndDate    *string   `json:"end_date"`
	AllDay     *bool     `json:"all_day"`
	StartTime  *string   `json:"start_time"`
	EndTime    *string   `json:"end_time"`
	Frequency  *string   `json:"frequency" binding:"omitempty,oneof=daily weekly"`
	Interval   *int      `json:"interval"`
	DaysOfWeek *[]string `json:"days_of_week"`
	Note       *string   `json:"note"`
}

type ListRulesQuery struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

type RuleResponse struct {
	ID         string   `json:"id"`
	CompanyID  string   `json:"company_id"`
	UserID     string   `json:"user_id"`
	StartDate  string   `json:"start_date"`
	EndDate    *string  `json:"end_date,omitempty"`
	AllDay     bool     `json:"all_day"`
	StartTime  string   `json:"start_time,omitempty"`
	EndTime    string   `json:"end_time,omitempty"`
	Frequency  string   `json:"frequency,omitempty"`
	Interval   int      `json:"interval"`
	DaysOfWeek []int    `json:"days_of_week,omitempty"`
	DayNames   []string `json:"day_names,omitempty"`
	Note       string   `json:"note,omitempty"`
}

func mapToResponse(r UnavailabilityRule) RuleResponse {
	resp := RuleResponse{
		ID:         r.ID.String(),
		CompanyID:  r.CompanyID.String(),
		UserID:     r.UserID.String(),
		StartDate:  r.StartDate.Format(time.DateOnly),
		AllDay:     r.AllDay,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Frequency:  r.Frequency,
		Interval:   r.Interval,
		DaysOfWeek: r.DaysOfWeek,
		Note:       r.Note,
	}
	if r.EndDate != nil {
		d := r.EndDate.Format(time.DateOnly)
		resp.EndDate = &d
	}
	for _, day := range r.DaysOfWeek {
		if day >= 0 && day <= 6 {
			resp.DayNames = append(resp.DayNames, dayNames[day])
		}
	}
	return resp
}

func mapToListResponse(rules []UnavailabilityRule) []RuleResponse {
	resp := make([]RuleResponse, len(rules))
	for i, r := range rules {
		resp[i] = mapToResponse(r)
	}
	return resp
}
