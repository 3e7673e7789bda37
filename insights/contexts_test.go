package insights

import (
	"testing"
	"time"

	"gestor-tarefas/models"
)

var (
	catWork    = models.Categoria{ID: 1, Name: "Trabalho", Color: "#ef4444"}
	catStudy   = models.Categoria{ID: 2, Name: "Estudos", Color: "#3b82f6"}
	refMorning = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
)

func task(id int64, mutate func(*models.Tarefa)) models.Tarefa {
	t := models.Tarefa{
		ID:        id,
		Title:     "tarefa",
		Priority:  models.PrioridadeMedium,
		Status:    models.StatusPending,
		CreatedAt: refMorning.Add(-30 * 24 * time.Hour),
	}
	if mutate != nil {
		mutate(&t)
	}
	return t
}

func findContext(t *testing.T, contexts []Context, id string) Context {
	t.Helper()
	for _, c := range contexts {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("context %q not found in %v", id, contextIDs(contexts))
	return Context{}
}

func contextIDs(contexts []Context) []string {
	ids := make([]string, len(contexts))
	for i, c := range contexts {
		ids[i] = c.ID
	}
	return ids
}

func TestBuildSmartContexts_RuleOrderAtMorning(t *testing.T) {
	due := refMorning.Add(2 * time.Hour)
	tasks := []models.Tarefa{
		task(1, func(tk *models.Tarefa) { tk.Expiration = &due; tk.Priority = models.PrioridadeHigh }),
		task(2, func(tk *models.Tarefa) { tk.Priority = models.PrioridadeHigh }),
		task(3, func(tk *models.Tarefa) { tk.Status = models.StatusInProgress; tk.Priority = models.PrioridadeLow }),
	}

	contexts := BuildSmartContexts(tasks, refMorning)
	if len(contexts) != 3 {
		t.Fatalf("expected 3 contexts, got %d (%v)", len(contexts), contextIDs(contexts))
	}

	if contexts[0].Name != "Due Today" || len(contexts[0].Tasks) != 1 || contexts[0].Tasks[0].ID != 1 {
		t.Fatalf("expected Due Today with task 1, got %q with %v", contexts[0].Name, contexts[0].Tasks)
	}
	if contexts[1].Name != "High Priority" || len(contexts[1].Tasks) != 1 || contexts[1].Tasks[0].ID != 2 {
		t.Fatalf("expected High Priority with task 2, got %q with %v", contexts[1].Name, contexts[1].Tasks)
	}
	if contexts[2].Name != "Morning Focus" || len(contexts[2].Tasks) != 1 || contexts[2].Tasks[0].ID != 3 {
		t.Fatalf("expected Morning Focus with task 3, got %q with %v", contexts[2].Name, contexts[2].Tasks)
	}
}

func TestBuildSmartContexts_Partition(t *testing.T) {
	due := refMorning.Add(time.Hour)
	tasks := []models.Tarefa{
		task(1, func(tk *models.Tarefa) { tk.Expiration = &due }),
		task(2, func(tk *models.Tarefa) { tk.Priority = models.PrioridadeHigh }),
		task(3, func(tk *models.Tarefa) { tk.Status = models.StatusInProgress }),
		task(4, func(tk *models.Tarefa) { tk.Category = &catWork }),
		task(5, func(tk *models.Tarefa) { tk.Category = &catStudy }),
		task(6, func(tk *models.Tarefa) { tk.CreatedAt = refMorning.Add(-24 * time.Hour) }),
		task(7, nil),
	}

	contexts := BuildSmartContexts(tasks, refMorning)

	seen := map[int64]int{}
	total := 0
	for _, c := range contexts {
		for _, tk := range c.Tasks {
			seen[tk.ID]++
			total++
		}
	}
	if total != len(tasks) {
		t.Fatalf("expected %d tasks across contexts, got %d", len(tasks), total)
	}
	for _, tk := range tasks {
		if seen[tk.ID] != 1 {
			t.Fatalf("task %d appears %d times, want exactly 1", tk.ID, seen[tk.ID])
		}
	}
}

func TestBuildSmartContexts_DueTodayWinsOverHighPriority(t *testing.T) {
	due := refMorning.Add(5 * time.Hour)
	tasks := []models.Tarefa{
		task(1, func(tk *models.Tarefa) { tk.Expiration = &due; tk.Priority = models.PrioridadeHigh }),
	}

	contexts := BuildSmartContexts(tasks, refMorning)
	if len(contexts) != 1 || contexts[0].ID != "due_today" {
		t.Fatalf("expected only due_today, got %v", contextIDs(contexts))
	}
}

func TestBuildSmartContexts_EmptyInput(t *testing.T) {
	contexts := BuildSmartContexts(nil, refMorning)
	if len(contexts) != 0 {
		t.Fatalf("expected no contexts for empty input, got %v", contextIDs(contexts))
	}
}

func TestBuildSmartContexts_TimeBlockLabels(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "Morning Focus"},
		{11, "Morning Focus"},
		{12, "Afternoon Tasks"},
		{16, "Afternoon Tasks"},
		{17, "Evening Wrap-up"},
		{23, "Evening Wrap-up"},
	}

	for _, tc := range cases {
		ref := time.Date(2025, 3, 10, tc.hour, 30, 0, 0, time.UTC)
		tasks := []models.Tarefa{
			task(1, func(tk *models.Tarefa) {
				tk.Status = models.StatusInProgress
				tk.CreatedAt = ref.Add(-30 * 24 * time.Hour)
			}),
		}
		contexts := BuildSmartContexts(tasks, ref)
		if len(contexts) != 1 || contexts[0].Name != tc.want {
			t.Fatalf("hour %d: expected %q, got %v", tc.hour, tc.want, contexts)
		}
	}
}

func TestBuildSmartContexts_DominantCategoryFirstToReachMax(t *testing.T) {
	// Ordem: Trabalho, Estudos, Estudos, Trabalho. As duas empatam em 2,
	// mas Estudos chega a 2 primeiro na varredura.
	tasks := []models.Tarefa{
		task(1, func(tk *models.Tarefa) { tk.Category = &catWork }),
		task(2, func(tk *models.Tarefa) { tk.Category = &catStudy }),
		task(3, func(tk *models.Tarefa) { tk.Category = &catStudy }),
		task(4, func(tk *models.Tarefa) { tk.Category = &catWork }),
	}

	contexts := BuildSmartContexts(tasks, refMorning)

	dominant := findContext(t, contexts, "category_2")
	if dominant.Name != "Estudos" {
		t.Fatalf("expected dominant category Estudos, got %q", dominant.Name)
	}
	if len(dominant.Tasks) != 2 || dominant.Tasks[0].ID != 2 || dominant.Tasks[1].ID != 3 {
		t.Fatalf("expected tasks 2 and 3 in dominant bucket, got %v", dominant.Tasks)
	}

	// As tarefas de Trabalho sobram para o balde residual (criadas há 30 dias)
	other := findContext(t, contexts, "other")
	if len(other.Tasks) != 2 {
		t.Fatalf("expected 2 leftover tasks in other, got %v", other.Tasks)
	}
}

func TestBuildSmartContexts_RecentAndOther(t *testing.T) {
	tasks := []models.Tarefa{
		task(1, func(tk *models.Tarefa) { tk.CreatedAt = refMorning.Add(-3 * 24 * time.Hour) }),
		task(2, func(tk *models.Tarefa) { tk.CreatedAt = refMorning.Add(-10 * 24 * time.Hour) }),
	}

	contexts := BuildSmartContexts(tasks, refMorning)

	recent := findContext(t, contexts, "recently_added")
	if len(recent.Tasks) != 1 || recent.Tasks[0].ID != 1 {
		t.Fatalf("expected task 1 in recently_added, got %v", recent.Tasks)
	}
	other := findContext(t, contexts, "other")
	if len(other.Tasks) != 1 || other.Tasks[0].ID != 2 {
		t.Fatalf("expected task 2 in other, got %v", other.Tasks)
	}
}

func TestBuildSmartContexts_EmptyBucketsOmitted(t *testing.T) {
	tasks := []models.Tarefa{
		task(1, func(tk *models.Tarefa) { tk.Priority = models.PrioridadeHigh }),
	}

	contexts := BuildSmartContexts(tasks, refMorning)
	if len(contexts) != 1 || contexts[0].ID != "high_priority" {
		t.Fatalf("expected only high_priority bucket, got %v", contextIDs(contexts))
	}
	if contexts[0].Priority != models.PrioridadeHigh {
		t.Fatalf("expected bucket priority high, got %q", contexts[0].Priority)
	}
}

func TestBuildSmartContexts_DueDateComparedByCalendarDay(t *testing.T) {
	// Vence hoje às 23h: ainda é "Due Today" às 10h da manhã
	lateToday := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	tasks := []models.Tarefa{
		task(1, func(tk *models.Tarefa) { tk.Expiration = &lateToday }),
		task(2, func(tk *models.Tarefa) { tk.Expiration = &tomorrow }),
	}

	contexts := BuildSmartContexts(tasks, refMorning)

	due := findContext(t, contexts, "due_today")
	if len(due.Tasks) != 1 || due.Tasks[0].ID != 1 {
		t.Fatalf("expected only task 1 due today, got %v", due.Tasks)
	}
}
