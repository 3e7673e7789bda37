package insights

import (
	"testing"
	"time"

	"gestor-tarefas/models"
)

func activity(taskID int64, tipo string, at time.Time) models.Atividade {
	return models.Atividade{TarefaID: taskID, ActivityType: tipo, CreatedAt: at}
}

func TestProductivityByDay_EmptyWindowIsInclusive(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -7)

	series := ProductivityByDay(nil, nil, start, now)

	// Janela de 7 dias cobre 8 dias-calendário, pontas inclusas
	if len(series) != 8 {
		t.Fatalf("expected 8 day entries, got %d", len(series))
	}
	for _, day := range series {
		if day.Created != 0 || day.Completed != 0 {
			t.Fatalf("expected zero counts on %s, got %+v", day.Date, day)
		}
	}
	if series[0].Date != "2025-03-03" || series[7].Date != "2025-03-10" {
		t.Fatalf("unexpected bounds: %s .. %s", series[0].Date, series[7].Date)
	}
}

func TestProductivityByDay_CountsByCalendarDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -7)

	creates := []models.Atividade{
		activity(1, models.AtividadeCreate, time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)),
		activity(2, models.AtividadeCreate, time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC)),
		activity(3, models.AtividadeCreate, time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)),
	}
	completions := []models.Atividade{
		activity(1, models.AtividadeComplete, time.Date(2025, 3, 8, 18, 0, 0, 0, time.UTC)),
	}

	series := ProductivityByDay(creates, completions, start, now)

	byDate := map[string]DailyProductivity{}
	for _, day := range series {
		byDate[day.Date] = day
	}

	if got := byDate["2025-03-04"]; got.Created != 2 || got.Completed != 0 {
		t.Fatalf("2025-03-04: expected created=2 completed=0, got %+v", got)
	}
	if got := byDate["2025-03-08"]; got.Created != 1 || got.Completed != 1 {
		t.Fatalf("2025-03-08: expected created=1 completed=1, got %+v", got)
	}
}

func TestProductivityByDay_SortedAscending(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -30)

	series := ProductivityByDay(nil, nil, start, now)
	if len(series) != 31 {
		t.Fatalf("expected 31 day entries for 30-day window, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i-1].Date >= series[i].Date {
			t.Fatalf("series not ascending at %d: %s >= %s", i, series[i-1].Date, series[i].Date)
		}
	}
}
