package availability

import (
	"context"
	"errors"
	"time"

	availabilityerrors "go-shiftly/internal/availability/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const clockLayout = "15:04"

type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateRuleRequest) (RuleResponse, error)
	List(ctx context.Context, companyID string, q ListRulesQuery) ([]RuleResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RuleResponse, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdateRuleRequest) (RuleResponse, error)
	Delete(ctx context.Context, companyID, actorID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("availability.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("availability.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateRuleRequest) (RuleResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RuleResponse{}, availabilityerrors.ErrRuleNotFound
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RuleResponse{}, availabilityerrors.ErrRuleNotFound
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return RuleResponse{}, err
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			return RuleResponse{}, err
		}
		endDate = &parsed
	}

	interval := 1
	if req.Interval != nil {
		interval = *req.Interval
	}

	days, err := parseDays(req.DaysOfWeek)
	if err != nil {
		return RuleResponse{}, err
	}

	rule := &UnavailabilityRule{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		UserID:     actorUUID,
		StartDate:  startDate,
		EndDate:    endDate,
		AllDay:     req.AllDay,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Frequency:  req.Frequency,
		Interval:   interval,
		DaysOfWeek: days,
		Note:       req.Note,
	}
	if err := validateRule(rule); err != nil {
		return RuleResponse{}, err
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		s.logger.Error("create rule persist failed", zap.Error(err))
		return RuleResponse{}, err
	}

	s.logger.Info("create rule success",
		zap.String("rule_id", rule.ID.String()),
		zap.String("user_id", actorID),
	)
	return mapToResponse(*rule), nil
}

func (s *service) List(ctx context.Context, companyID string, q ListRulesQuery) ([]RuleResponse, error) {
	// Rules are visible company-wide so planners can see everyone's
	// constraints; only mutation is owner-restricted.
	rules, err := s.repo.ListByCompany(ctx, companyID, q.UserID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rules), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RuleResponse, error) {
	rule, err := s.findRule(ctx, companyID, id)
	if err != nil {
		return RuleResponse{}, err
	}
	return mapToResponse(*rule), nil
}

func (s *service) Update(ctx context.Context, companyID, actorID, id string, req UpdateRuleRequest) (RuleResponse, error) {
	rule, err := s.findRule(ctx, companyID, id)
	if err != nil {
		return RuleResponse{}, err
	}
	if rule.UserID.String() != actorID {
		return RuleResponse{}, availabilityerrors.ErrNotRuleOwner
	}

	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			return RuleResponse{}, err
		}
		rule.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return RuleResponse{}, err
		}
		rule.EndDate = &endDate
	}
	if req.AllDay != nil {
		rule.AllDay = *req.AllDay
		if rule.AllDay {
			rule.StartTime = ""
			rule.EndTime = ""
		}
	}
	if req.StartTime != nil {
		rule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rule.EndTime = *req.EndTime
	}
	if req.Frequency != nil {
		rule.Frequency = *req.Frequency
	}
	if req.Interval != nil {
		rule.Interval = *req.Interval
	}
	if req.DaysOfWeek != nil {
		days, err := parseDays(*req.DaysOfWeek)
		if err != nil {
			return RuleResponse{}, err
		}
		rule.DaysOfWeek = days
	}
	if req.Note != nil {
		rule.Note = *req.Note
	}

	if err := validateRule(rule); err != nil {
		return RuleResponse{}, err
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		s.logger.Error("update rule persist failed", zap.String("rule_id", id), zap.Error(err))
		return RuleResponse{}, err
	}

	s.logger.Info("update rule success", zap.String("rule_id", id))
	return mapToResponse(*rule), nil
}

func (s *service) Delete(ctx context.Context, companyID, actorID, id string) error {
	rule, err := s.findRule(ctx, companyID, id)
	if err != nil {
		return err
	}
	if rule.UserID.String() != actorID {
		return availabilityerrors.ErrNotRuleOwner
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete rule persist failed", zap.String("rule_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete rule success", zap.String("rule_id", id))
	return nil
}

func (s *service) findRule(ctx context.Context, companyID, id string) (*UnavailabilityRule, error) {
	rule, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, availabilityerrors.ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

// validateRule enforces the rule shape: all-day excludes times, timed rules
// need a valid range, weekly recurrence needs at least one day.
func validateRule(r *UnavailabilityRule) error {
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return availabilityerrors.ErrInvalidDateRange
	}

	if r.AllDay {
		if r.StartTime != "" || r.EndTime != "" {
			return availabilityerrors.ErrAllDayWithTimes
		}
	} else {
		if r.StartTime == "" || r.EndTime == "" {
			return availabilityerrors.ErrMissingTimeRange
		}
		start, err := time.Parse(clockLayout, r.StartTime)
		if err != nil {
			return availabilityerrors.ErrInvalidTimeFormat
		}
		end, err := time.Parse(clockLayout, r.EndTime)
		if err != nil {
			return availabilityerrors.ErrInvalidTimeFormat
		}
		if !end.After(start) {
			return availabilityerrors.ErrInvalidTimeRange
		}
	}

	switch r.Frequency {
	case FrequencyOnce, FrequencyDaily:
	case FrequencyWeekly:
		if len(r.DaysOfWeek) == 0 {
			return availabilityerrors.ErrWeeklyRequiresDays
		}
	default:
		return availabilityerrors.ErrInvalidFrequency
	}

	if r.Interval < 1 {
		return availabilityerrors.ErrInvalidInterval
	}
	return nil
}

func parseDays(values []string) ([]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	days := make([]int, 0, len(values))
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		day, err := parseDayOfWeek(v)
		if err != nil {
			return nil, err
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, availabilityerrors.ErrInvalidDateFormat
	}
	return t, nil
}
