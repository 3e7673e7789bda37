package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gestor-tarefas/insights"
	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
)

// GetSmartContextsHandler monta os agrupamentos inteligentes das tarefas
// não concluídas do usuário, relativos ao horário atual do servidor. Nada é
// persistido: cada chamada parte de um snapshot fresco do banco.
func GetSmartContextsHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	rows, err := db.Query(`
		SELECT `+taskSelectColumns+`
		FROM tarefas t
		LEFT JOIN categorias c ON t.categoria_id = c.id
		WHERE t.user_id = $1 AND t.status <> $2
		ORDER BY t.created_at
	`, userID, models.StatusCompleted)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar tarefas para os contextos")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	tasks := []models.Tarefa{}
	for rows.Next() {
		task, err := scanTarefa(rows)
		if err != nil {
			utilities.LogError(err, "Erro ao ler tarefa para os contextos")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		utilities.LogError(err, "Erro ao percorrer tarefas para os contextos")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	contexts := insights.BuildSmartContexts(tasks, time.Now())

	utilities.LogDebug("Contextos montados para o usuário %d: %d grupos", userID, len(contexts))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contexts)
}

// GetProductivityHandler devolve a série diária de tarefas criadas e
// concluídas na janela pedida (?days=7 ou ?days=30; o padrão é 7).
func GetProductivityHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || (parsed != 7 && parsed != 30) {
			http.Error(w, "Parâmetro days deve ser 7 ou 30", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	now := time.Now()
	start := now.AddDate(0, 0, -days)

	activities, err := models.ListActivities(db, userID, start)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar atividades para a série de produtividade")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var creates, completions []models.Atividade
	for _, a := range activities {
		switch a.ActivityType {
		case models.AtividadeCreate:
			creates = append(creates, a)
		case models.AtividadeComplete:
			completions = append(completions, a)
		}
	}

	series := insights.ProductivityByDay(creates, completions, start, now)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(series)
}

// GetCompletionStatsHandler devolve a taxa de conclusão e o tempo médio de
// conclusão das tarefas do usuário.
func GetCompletionStatsHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	rows, err := db.Query(`
		SELECT `+taskSelectColumns+`
		FROM tarefas t
		LEFT JOIN categorias c ON t.categoria_id = c.id
		WHERE t.user_id = $1
	`, userID)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar tarefas para as estatísticas")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	tasks := []models.Tarefa{}
	for rows.Next() {
		task, err := scanTarefa(rows)
		if err != nil {
			utilities.LogError(err, "Erro ao ler tarefa para as estatísticas")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		utilities.LogError(err, "Erro ao percorrer tarefas para as estatísticas")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// O log de atividades inteiro do usuário: é pequeno (limitado pelo
	// número de tarefas) e o cálculo precisa dos pares create/complete
	activities, err := models.ListActivities(db, userID, time.Time{})
	if err != nil {
		utilities.LogError(err, "Erro ao buscar atividades para as estatísticas")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stats := insights.ComputeCompletionStats(tasks, activities)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
