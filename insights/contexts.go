// Package insights concentra os cálculos puros feitos sobre os dados já
// buscados do banco: agrupamentos inteligentes de tarefas, série diária de
// produtividade e estatísticas de conclusão. Nenhuma função aqui toca rede
// ou banco; os handlers buscam os dados e passam cópias imutáveis.
package insights

import (
	"fmt"
	"time"

	"gestor-tarefas/models"
)

// Context é um agrupamento derivado de tarefas, montado a cada chamada e
// nunca persistido.
type Context struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Priority string          `json:"priority"` // high, medium ou low
	Tasks    []models.Tarefa `json:"tasks"`
}

// Regras de classificação, na ordem em que reivindicam tarefas. Cada tarefa
// pertence à primeira regra que a aceitar; a última é o balde residual, então
// a união dos contextos cobre a lista de entrada exatamente uma vez.
const (
	ruleDueToday = iota
	ruleHighPriority
	ruleTimeBlock
	ruleDominantCategory
	ruleRecent
	ruleOther

	ruleUnassigned = -1
)

// Janela da regra "Recently Added".
const recentWindow = 168 * time.Hour

// BuildSmartContexts classifica as tarefas não concluídas em contextos
// nomeados, relativos ao instante de referência. Baldes vazios são omitidos.
func BuildSmartContexts(tasks []models.Tarefa, ref time.Time) []Context {
	assigned := make([]int, len(tasks))

	// Primeira passada: regras que dependem só da própria tarefa.
	for i, t := range tasks {
		switch {
		case dueOnDay(t, ref):
			assigned[i] = ruleDueToday
		case t.Priority == models.PrioridadeHigh:
			assigned[i] = ruleHighPriority
		case t.Status == models.StatusInProgress:
			assigned[i] = ruleTimeBlock
		default:
			assigned[i] = ruleUnassigned
		}
	}

	// Segunda passada: categoria dominante entre as tarefas restantes.
	// O desempate é a primeira categoria a alcançar a contagem máxima numa
	// única varredura da esquerda para a direita.
	counts := make(map[int64]int)
	var dominant *models.Categoria
	best := 0
	for i, t := range tasks {
		if assigned[i] != ruleUnassigned || t.Category == nil {
			continue
		}
		counts[t.Category.ID]++
		if counts[t.Category.ID] > best {
			best = counts[t.Category.ID]
			dominant = t.Category
		}
	}
	if dominant != nil {
		for i, t := range tasks {
			if assigned[i] == ruleUnassigned && t.Category != nil && t.Category.ID == dominant.ID {
				assigned[i] = ruleDominantCategory
			}
		}
	}

	// Terceira passada: criadas nos últimos 7 dias, e o balde residual.
	for i, t := range tasks {
		if assigned[i] != ruleUnassigned {
			continue
		}
		if ref.Sub(t.CreatedAt) < recentWindow {
			assigned[i] = ruleRecent
		} else {
			assigned[i] = ruleOther
		}
	}

	buckets := make([][]models.Tarefa, ruleOther+1)
	for i, t := range tasks {
		buckets[assigned[i]] = append(buckets[assigned[i]], t)
	}

	var contexts []Context
	for rule, members := range buckets {
		if len(members) == 0 {
			continue
		}
		c := Context{Tasks: members}
		switch rule {
		case ruleDueToday:
			c.ID, c.Name, c.Priority = "due_today", "Due Today", models.PrioridadeHigh
		case ruleHighPriority:
			c.ID, c.Name, c.Priority = "high_priority", "High Priority", models.PrioridadeHigh
		case ruleTimeBlock:
			c.ID, c.Name, c.Priority = "time_block", timeBlockName(ref), models.PrioridadeMedium
		case ruleDominantCategory:
			c.ID = fmt.Sprintf("category_%d", dominant.ID)
			c.Name = dominant.Name
			c.Priority = models.PrioridadeMedium
		case ruleRecent:
			c.ID, c.Name, c.Priority = "recently_added", "Recently Added", models.PrioridadeLow
		case ruleOther:
			c.ID, c.Name, c.Priority = "other", "Other", models.PrioridadeLow
		}
		contexts = append(contexts, c)
	}
	return contexts
}

// dueOnDay compara a data de vencimento com o dia-calendário do instante de
// referência, ambos no fuso do instante de referência.
func dueOnDay(t models.Tarefa, ref time.Time) bool {
	if t.Expiration == nil {
		return false
	}
	y1, m1, d1 := t.Expiration.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// timeBlockName escolhe o rótulo do bloco de horário. O critério de
// classificação é só o status in_progress; o nome é apresentação.
func timeBlockName(ref time.Time) string {
	switch h := ref.Hour(); {
	case h < 12:
		return "Morning Focus"
	case h < 17:
		return "Afternoon Tasks"
	default:
		return "Evening Wrap-up"
	}
}
