package services

import (
	"testing"

	"trove/internal/models"
	"trove/internal/testutil"
)

// TestComposeFromStoredGoals runs the full goal-to-alert pipeline against
// the database, so fractional percents hit the bands unrounded.
func TestComposeFromStoredGoals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	goalService := NewGoalService(db)
	service := NewAlertService(goalService)
	user := testutil.CreateTestUser(t, db)

	t.Run("just_below_threshold_stays_silent", func(t *testing.T) {
		goal := testutil.CreateTestGoal(t, db, user.ID, "Dining", 100, 74.999)
		defer db.Delete(goal)

		summary, err := service.Compose(user.ID)
		testutil.AssertNoError(t, err)

		if summary.Count != 0 {
			t.Errorf("expected no alert at 74.999 percent, got %+v", summary.Alerts)
		}
	})

	t.Run("exact_threshold_fires", func(t *testing.T) {
		goal := testutil.CreateTestGoal(t, db, user.ID, "Dining", 100, 75)
		defer db.Delete(goal)

		summary, err := service.Compose(user.ID)
		testutil.AssertNoError(t, err)

		if summary.Count != 1 || summary.Alerts[0].Threshold != "75%" {
			t.Fatalf("expected a 75%% alert, got %+v", summary.Alerts)
		}
		if summary.Alerts[0].Percent != 75 {
			t.Errorf("expected percent 75, got %d", summary.Alerts[0].Percent)
		}
	})
}

// stubGoals feeds canned progress into the alert composer.
type stubGoals struct {
	progress []GoalProgress
}

func (s *stubGoals) CreateGoal(userID uint, category string, limitAmount float64, periodStart, periodEnd string) (*models.Goal, error) {
	return nil, nil
}

func (s *stubGoals) GetUserGoals(userID uint) ([]GoalProgress, error) {
	return s.progress, nil
}

func (s *stubGoals) DeleteGoal(userID, goalID uint) error { return nil }

func (s *stubGoals) LiveSpend(goal *models.Goal) (float64, error) { return 0, nil }

func (s *stubGoals) EffectiveSpend(goal *models.Goal) (float64, error) { return 0, nil }

func progressFor(category string, limit, percent float64) GoalProgress {
	return GoalProgress{
		Goal:    models.Goal{Category: category, LimitAmount: limit},
		Percent: percent,
	}
}

func TestCompose(t *testing.T) {
	t.Run("banding_boundaries", func(t *testing.T) {
		service := NewAlertService(&stubGoals{progress: []GoalProgress{
			progressFor("Quiet", 500, 74.9),
			progressFor("Nudge", 500, 75),
			progressFor("Close", 500, 90),
			progressFor("Blown", 500, 100),
		}})

		summary, err := service.Compose(1)
		testutil.AssertNoError(t, err)

		if summary.Count != 3 {
			t.Fatalf("expected 3 alerts, got %d", summary.Count)
		}

		byCategory := make(map[string]Alert, len(summary.Alerts))
		for _, a := range summary.Alerts {
			byCategory[a.Category] = a
		}

		if _, ok := byCategory["Quiet"]; ok {
			t.Error("expected no alert below 75 percent")
		}
		if a := byCategory["Nudge"]; a.Threshold != "75%" || a.Level != LevelWarning {
			t.Errorf("unexpected 75%% band: %+v", a)
		}
		if a := byCategory["Close"]; a.Threshold != "90%" || a.Level != LevelWarning {
			t.Errorf("unexpected 90%% band: %+v", a)
		}
		if a := byCategory["Blown"]; a.Threshold != "100%" || a.Level != LevelDanger {
			t.Errorf("unexpected 100%% band: %+v", a)
		}
	})

	t.Run("ordered_most_severe_first", func(t *testing.T) {
		service := NewAlertService(&stubGoals{progress: []GoalProgress{
			progressFor("Mid", 500, 80),
			progressFor("Top", 500, 104),
			progressFor("High", 500, 92),
		}})

		summary, err := service.Compose(1)
		testutil.AssertNoError(t, err)

		want := []string{"Top", "High", "Mid"}
		for i, category := range want {
			if summary.Alerts[i].Category != category {
				t.Errorf("position %d: expected %s, got %s", i, category, summary.Alerts[i].Category)
			}
		}
	})

	t.Run("severity_danger_when_any_limit_hit", func(t *testing.T) {
		service := NewAlertService(&stubGoals{progress: []GoalProgress{
			progressFor("Warm", 500, 78),
			progressFor("Blown", 500, 110),
		}})

		summary, err := service.Compose(1)
		testutil.AssertNoError(t, err)

		if summary.Severity != LevelDanger {
			t.Errorf("expected danger severity, got %q", summary.Severity)
		}
	})

	t.Run("severity_warning_without_danger", func(t *testing.T) {
		service := NewAlertService(&stubGoals{progress: []GoalProgress{
			progressFor("Warm", 500, 78),
		}})

		summary, err := service.Compose(1)
		testutil.AssertNoError(t, err)

		if summary.Severity != LevelWarning {
			t.Errorf("expected warning severity, got %q", summary.Severity)
		}
	})

	t.Run("no_alerts_empty_severity", func(t *testing.T) {
		service := NewAlertService(&stubGoals{progress: []GoalProgress{
			progressFor("Quiet", 500, 30),
		}})

		summary, err := service.Compose(1)
		testutil.AssertNoError(t, err)

		if summary.Count != 0 || summary.Severity != "" {
			t.Errorf("expected empty summary, got %+v", summary)
		}
	})

	t.Run("percent_rounded_to_nearest", func(t *testing.T) {
		service := NewAlertService(&stubGoals{progress: []GoalProgress{
			progressFor("RoundsUp", 1000, 92.6),
			progressFor("RoundsDown", 1000, 85.4),
		}})

		summary, err := service.Compose(1)
		testutil.AssertNoError(t, err)

		if summary.Alerts[0].Percent != 93 {
			t.Errorf("expected 92.6 to round to 93, got %d", summary.Alerts[0].Percent)
		}
		if summary.Alerts[1].Percent != 85 {
			t.Errorf("expected 85.4 to round to 85, got %d", summary.Alerts[1].Percent)
		}
	})

	t.Run("zero_limit_goal_skipped", func(t *testing.T) {
		service := NewAlertService(&stubGoals{progress: []GoalProgress{
			progressFor("Broken", 0, 120),
		}})

		summary, err := service.Compose(1)
		testutil.AssertNoError(t, err)

		if summary.Count != 0 {
			t.Errorf("expected zero-limit goal skipped, got %d alerts", summary.Count)
		}
	})
}
