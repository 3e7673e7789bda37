package insights

import (
	"time"

	"gestor-tarefas/models"
)

// DailyProductivity é um ponto da série diária de produtividade.
type DailyProductivity struct {
	Date      string `json:"date"` // AAAA-MM-DD
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

// ProductivityByDay monta a série com um ponto por dia-calendário entre
// start e end, inclusive nas duas pontas. Dias sem eventos entram com
// contagem zero; os dias são truncados no fuso de start.
func ProductivityByDay(creates, completions []models.Atividade, start, end time.Time) []DailyProductivity {
	loc := start.Location()

	created := make(map[string]int)
	for _, a := range creates {
		created[dayKey(a.CreatedAt, loc)]++
	}
	completed := make(map[string]int)
	for _, a := range completions {
		completed[dayKey(a.CreatedAt, loc)]++
	}

	series := []DailyProductivity{}
	last := truncateToDay(end)
	for day := truncateToDay(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		series = append(series, DailyProductivity{
			Date:      key,
			Created:   created[key],
			Completed: completed[key],
		})
	}
	return series
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
