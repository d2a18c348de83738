package services

import (
	"math"
	"sort"
)

// Alert levels.
const (
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// AlertService composes per-request spending alerts from goal progress.
// Alerts are never stored; they are recomputed on every call.
type AlertService struct {
	goals GoalServicer
}

func NewAlertService(goals GoalServicer) *AlertService {
	return &AlertService{goals: goals}
}

// Compose evaluates every goal against the 75/90/100 percent bands and
// returns the triggered alerts, most severe first. The summary severity is
// danger when any goal has hit its limit, warning otherwise.
func (s *AlertService) Compose(userID uint) (*AlertSummary, error) {
	goals, err := s.goals.GetUserGoals(userID)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(goals))
	for _, g := range goals {
		if g.LimitAmount <= 0 {
			continue
		}

		threshold, level := band(g.Percent)
		if threshold == "" {
			continue
		}

		alerts = append(alerts, Alert{
			Category:  g.Category,
			Percent:   int(math.Round(g.Percent)),
			Threshold: threshold,
			Level:     level,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Percent > alerts[j].Percent
	})

	summary := &AlertSummary{Alerts: alerts, Count: len(alerts)}
	for _, a := range alerts {
		if a.Level == LevelDanger {
			summary.Severity = LevelDanger
			break
		}
		summary.Severity = LevelWarning
	}

	return summary, nil
}

// band maps a usage percent to its alert threshold and level. Below 75
// percent no alert fires.
func band(percent float64) (threshold, level string) {
	switch {
	case percent >= 100:
		return "100%", LevelDanger
	case percent >= 90:
		return "90%", LevelWarning
	case percent >= 75:
		return "75%", LevelWarning
	default:
		return "", ""
	}
}
