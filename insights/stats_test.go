package insights

import (
	"testing"
	"time"

	"gestor-tarefas/models"
)

func TestComputeCompletionStats_EmptyInput(t *testing.T) {
	stats := ComputeCompletionStats(nil, nil)

	if stats.TotalTasks != 0 || stats.CompletedTasks != 0 {
		t.Fatalf("expected zero counts, got %+v", stats)
	}
	// Lista vazia: taxa é exatamente 0, nunca NaN
	if stats.CompletionRate != 0 {
		t.Fatalf("expected completion rate 0, got %v", stats.CompletionRate)
	}
	if stats.AverageCompletionTimeHours != 0 {
		t.Fatalf("expected average completion time 0, got %v", stats.AverageCompletionTimeHours)
	}
}

func TestComputeCompletionStats_Rate(t *testing.T) {
	tasks := []models.Tarefa{
		{ID: 1, Status: models.StatusCompleted},
		{ID: 2, Status: models.StatusPending},
		{ID: 3, Status: models.StatusInProgress},
		{ID: 4, Status: models.StatusPending},
	}

	stats := ComputeCompletionStats(tasks, nil)
	if stats.TotalTasks != 4 || stats.CompletedTasks != 1 {
		t.Fatalf("expected 1/4 completed, got %+v", stats)
	}
	if stats.CompletionRate != 25 {
		t.Fatalf("expected completion rate 25, got %v", stats.CompletionRate)
	}
}

func TestComputeCompletionStats_AverageExcludesUnpairedTasks(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tasks := []models.Tarefa{
		{ID: 1, Status: models.StatusCompleted},
		{ID: 2, Status: models.StatusPending},
	}
	events := []models.Atividade{
		activity(1, models.AtividadeCreate, base),
		activity(1, models.AtividadeComplete, base.Add(2*time.Hour)),
		// Tarefa 2 só tem o evento de criação: fica fora da média
		activity(2, models.AtividadeCreate, base),
	}

	stats := ComputeCompletionStats(tasks, events)
	if stats.AverageCompletionTimeHours != 2 {
		t.Fatalf("expected average of 2h (task 2 excluded), got %v", stats.AverageCompletionTimeHours)
	}
}

func TestComputeCompletionStats_NoPairedEvents(t *testing.T) {
	tasks := []models.Tarefa{{ID: 1, Status: models.StatusPending}}
	events := []models.Atividade{
		activity(1, models.AtividadeCreate, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)),
	}

	stats := ComputeCompletionStats(tasks, events)
	if stats.AverageCompletionTimeHours != 0 {
		t.Fatalf("expected 0 average with no create/complete pair, got %v", stats.AverageCompletionTimeHours)
	}
}

func TestComputeCompletionStats_FirstEventOfEachTypeWins(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tasks := []models.Tarefa{{ID: 1, Status: models.StatusCompleted}}
	events := []models.Atividade{
		activity(1, models.AtividadeCreate, base),
		activity(1, models.AtividadeComplete, base.Add(3*time.Hour)),
		// Reaberta e concluída de novo: o segundo complete não muda a média
		activity(1, models.AtividadeComplete, base.Add(10*time.Hour)),
	}

	stats := ComputeCompletionStats(tasks, events)
	if stats.AverageCompletionTimeHours != 3 {
		t.Fatalf("expected 3h using first complete event, got %v", stats.AverageCompletionTimeHours)
	}
}
