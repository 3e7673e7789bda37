package insights

import (
	"time"

	"gestor-tarefas/models"
)

// CompletionStats resume o andamento geral das tarefas do usuário.
type CompletionStats struct {
	TotalTasks                 int     `json:"totalTasks"`
	CompletedTasks             int     `json:"completedTasks"`
	CompletionRate             float64 `json:"completionRate"`
	AverageCompletionTimeHours float64 `json:"averageCompletionTimeHours"`
}

// ComputeCompletionStats calcula a taxa de conclusão e o tempo médio entre
// criação e conclusão. Lista vazia resulta em taxa 0, nunca divisão por
// zero. Só entram na média tarefas com os dois eventos registrados; tarefas
// com apenas um deles ficam fora (não contam como zero).
func ComputeCompletionStats(tasks []models.Tarefa, events []models.Atividade) CompletionStats {
	stats := CompletionStats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			stats.CompletedTasks++
		}
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
	}

	// Vale o primeiro evento de cada tipo por tarefa.
	createAt := make(map[int64]time.Time)
	completeAt := make(map[int64]time.Time)
	for _, e := range events {
		switch e.ActivityType {
		case models.AtividadeCreate:
			if _, ok := createAt[e.TarefaID]; !ok {
				createAt[e.TarefaID] = e.CreatedAt
			}
		case models.AtividadeComplete:
			if _, ok := completeAt[e.TarefaID]; !ok {
				completeAt[e.TarefaID] = e.CreatedAt
			}
		}
	}

	var totalHours float64
	pairs := 0
	for id, createdAt := range createAt {
		completedAt, ok := completeAt[id]
		if !ok {
			continue
		}
		totalHours += completedAt.Sub(createdAt).Hours()
		pairs++
	}
	if pairs > 0 {
		stats.AverageCompletionTimeHours = totalHours / float64(pairs)
	}
	return stats
}
