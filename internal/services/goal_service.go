package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "trove/internal/errors"
	"trove/internal/logger"
	"trove/internal/models"
)

// Progress colors, coarsest first.
const (
	colorDanger  = "#ef4444"
	colorWarning = "#f59e0b"
	colorHealthy = "#22c55e"
)

// GoalService manages budget goals and computes their progress against the
// ingested transaction table.
type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

// CreateGoal stores a new budget goal. Spend always starts at zero; progress
// is derived from transactions, never taken from the client.
func (s *GoalService) CreateGoal(userID uint, category string, limitAmount float64, periodStart, periodEnd string) (*models.Goal, error) {
	if category == "" || limitAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category and a positive limit are required")
	}
	if periodStart > periodEnd {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period start must not be after period end")
	}

	goal := &models.Goal{
		UserID:       userID,
		Category:     category,
		LimitAmount:  limitAmount,
		CurrentSpend: 0,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	}

	if err := s.db.Create(goal).Error; err != nil {
		logger.Get().Errorw("Failed to create goal", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns the user's goals, newest period first, each with its
// effective spend, percent used, and display color.
func (s *GoalService) GetUserGoals(userID uint) ([]GoalProgress, error) {
	var goals []models.Goal

	err := s.db.Where("user_id = ?", userID).Order("period_start DESC").Find(&goals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	progress := make([]GoalProgress, 0, len(goals))
	for i := range goals {
		spend, err := s.EffectiveSpend(&goals[i])
		if err != nil {
			return nil, err
		}

		pct := percentOf(spend, goals[i].LimitAmount)
		progress = append(progress, GoalProgress{
			Goal:           goals[i],
			EffectiveSpend: spend,
			Percent:        pct,
			Color:          progressColor(pct),
		})
	}

	return progress, nil
}

// DeleteGoal removes a goal owned by the user.
func (s *GoalService) DeleteGoal(userID, goalID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}

// LiveSpend sums transactions whose category labels contain the goal's
// category, within the goal's period. Amounts are signed, so refunds and
// credits reduce spend. Dates are ISO strings so BETWEEN compares correctly
// in both sqlite and postgres.
func (s *GoalService) LiveSpend(goal *models.Goal) (float64, error) {
	var total float64

	err := s.db.Raw(`
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		WHERE t.date BETWEEN ? AND ?
		  AND EXISTS (
			SELECT 1 FROM transaction_categories c
			WHERE c.transaction_id = t.transaction_id
			  AND c.category LIKE ?
		  )`,
		goal.PeriodStart, goal.PeriodEnd, "%"+goal.Category+"%",
	).Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return total, nil
}

// EffectiveSpend is the floor of progress: the live aggregate never lowers a
// persisted spend figure, so a reloaded transaction table cannot make a goal
// look healthier than it was.
func (s *GoalService) EffectiveSpend(goal *models.Goal) (float64, error) {
	live, err := s.LiveSpend(goal)
	if err != nil {
		return 0, err
	}
	if goal.CurrentSpend > live {
		return goal.CurrentSpend, nil
	}
	return live, nil
}

// percentOf returns the exact percent of limit used. Rounding is left to the
// consumers: banding must see 74.999 as below 75, so it is never rounded
// here.
func percentOf(spend, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	pct := decimal.NewFromFloat(spend).
		Div(decimal.NewFromFloat(limit)).
		Mul(decimal.NewFromInt(100))
	f, _ := pct.Float64()
	return f
}

func progressColor(percent float64) string {
	switch {
	case percent >= 75:
		return colorDanger
	case percent >= 50:
		return colorWarning
	default:
		return colorHealthy
	}
}
