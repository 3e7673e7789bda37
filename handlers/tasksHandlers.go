package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gestor-tarefas/firebase"
	"gestor-tarefas/models"
	"gestor-tarefas/utilities"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

const taskSelectColumns = `
	t.id, t.user_id, t.workspace_id, t.categoria_id, t.title, t.descricao,
	t.prioridade, t.status, t.expiracao, t.created_at, t.updated_at,
	c.name, c.color
`

// scanTarefa lê uma linha do SELECT padrão de tarefas (com LEFT JOIN em
// categorias) tratando os campos opcionais.
func scanTarefa(rows interface{ Scan(...interface{}) error }) (models.Tarefa, error) {
	var task models.Tarefa
	var workspaceID, categoryID sql.NullInt64
	var expiration sql.NullTime
	var catName, catColor sql.NullString

	err := rows.Scan(
		&task.ID, &task.UserID, &workspaceID, &categoryID, &task.Title,
		&task.Description, &task.Priority, &task.Status, &expiration,
		&task.CreatedAt, &task.UpdatedAt, &catName, &catColor,
	)
	if err != nil {
		return task, err
	}

	if workspaceID.Valid {
		task.WorkspaceID = &workspaceID.Int64
	}
	if expiration.Valid {
		task.Expiration = &expiration.Time
	}
	if categoryID.Valid {
		task.CategoryID = &categoryID.Int64
		task.Category = &models.Categoria{
			ID:     categoryID.Int64,
			UserID: task.UserID,
			Name:   catName.String,
			Color:  catColor.String,
		}
	}
	return task, nil
}

// getTask busca uma tarefa do usuário com categoria, dependências e
// responsáveis resolvidos.
func getTask(userID, taskID int64) (*models.Tarefa, error) {
	row := db.QueryRow(`
		SELECT `+taskSelectColumns+`
		FROM tarefas t
		LEFT JOIN categorias c ON t.categoria_id = c.id
		WHERE t.id = $1 AND t.user_id = $2
	`, taskID, userID)

	task, err := scanTarefa(row)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT depende_de FROM tarefa_dependencias WHERE tarefa_id = $1", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var dep int64
		if err := rows.Scan(&dep); err != nil {
			return nil, err
		}
		task.Dependencies = append(task.Dependencies, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query("SELECT user_id FROM tarefa_responsaveis WHERE tarefa_id = $1", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var assignee int64
		if err := rows.Scan(&assignee); err != nil {
			return nil, err
		}
		task.Assignees = append(task.Assignees, assignee)
	}
	return &task, rows.Err()
}

// syncSnapshot espelha a tarefa no Firestore. Falha aqui não interrompe o
// fluxo: o espelho é só notificação em tempo real, a fonte de verdade é o
// PostgreSQL.
func syncSnapshot(r *http.Request, uid string, task *models.Tarefa) {
	if err := firebase.SyncTaskSnapshot(r.Context(), uid, *task); err != nil {
		utilities.LogError(err, "Falha ao espelhar tarefa no Firestore")
	}
}

// CreateTaskHandler cria uma nova tarefa para o usuário autenticado.
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de nova tarefa")

	uid, userID, err := requireUser(r)
	if err != nil {
		utilities.LogError(err, "Falha na autenticação ao criar tarefa")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	var input models.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da tarefa")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(input.Title) == "" {
		http.Error(w, "Título é obrigatório", http.StatusBadRequest)
		return
	}
	if input.Priority == "" {
		input.Priority = models.PrioridadeMedium
	}
	if !models.ValidPriorities[input.Priority] {
		utilities.LogError(fmt.Errorf("prioridade inválida: %s", input.Priority), "Validação falhou")
		http.Error(w, "Prioridade inválida", http.StatusBadRequest)
		return
	}
	if input.Status == "" {
		input.Status = models.StatusPending
	}
	if !models.ValidStatuses[input.Status] {
		utilities.LogError(fmt.Errorf("status inválido: %s", input.Status), "Validação falhou")
		http.Error(w, "Status inválido", http.StatusBadRequest)
		return
	}

	// A categoria, se informada, precisa pertencer ao usuário
	if input.CategoryID != nil {
		var owned bool
		err := db.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM categorias WHERE id = $1 AND user_id = $2)",
			*input.CategoryID, userID,
		).Scan(&owned)
		if err != nil || !owned {
			http.Error(w, "Categoria inválida", http.StatusBadRequest)
			return
		}
	}

	utilities.LogDebug("Inserindo nova tarefa no banco de dados")
	var id int64
	err = db.QueryRow(`
		INSERT INTO tarefas (user_id, workspace_id, categoria_id, title, descricao,
		                     prioridade, status, expiracao, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`, userID, input.WorkspaceID, input.CategoryID, input.Title, input.Description,
		input.Priority, input.Status, input.Expiration,
	).Scan(&id)
	if err != nil {
		utilities.LogError(err, "Erro ao inserir tarefa no banco de dados")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, dep := range input.Dependencies {
		if _, err := db.Exec(
			"INSERT INTO tarefa_dependencias (tarefa_id, depende_de) VALUES ($1, $2)", id, dep,
		); err != nil {
			utilities.LogError(err, "Erro ao registrar dependência da tarefa")
		}
	}
	for _, assignee := range input.Assignees {
		if _, err := db.Exec(
			"INSERT INTO tarefa_responsaveis (tarefa_id, user_id) VALUES ($1, $2)", id, assignee,
		); err != nil {
			utilities.LogError(err, "Erro ao registrar responsável da tarefa")
		}
	}

	// Evento "create" no log de atividades; alimenta as estatísticas
	if err := models.RegistrarAtividade(db, id, userID, models.AtividadeCreate); err != nil {
		utilities.LogError(err, "Erro ao registrar atividade de criação")
	}
	// Se a tarefa já nasce concluída, o par create/complete fica completo
	if input.Status == models.StatusCompleted {
		if err := models.RegistrarAtividade(db, id, userID, models.AtividadeComplete); err != nil {
			utilities.LogError(err, "Erro ao registrar atividade de conclusão")
		}
	}

	task, err := getTask(userID, id)
	if err != nil {
		utilities.LogError(err, "Erro ao reler tarefa criada")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	syncSnapshot(r, uid, task)

	utilities.LogInfo("Tarefa criada com sucesso: %s (ID: %d)", task.Title, task.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// ListTasksHandler lista as tarefas do usuário, com filtros opcionais de
// status, prioridade e categoria.
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando listagem de tarefas")

	_, userID, err := requireUser(r)
	if err != nil {
		utilities.LogError(err, "Falha na autenticação ao listar tarefas")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	queryParams := r.URL.Query()
	statusFilter := queryParams.Get("status")
	priorityFilter := queryParams.Get("priority")
	categoryFilter := queryParams.Get("category_id")

	query := `
		SELECT ` + taskSelectColumns + `
		FROM tarefas t
		LEFT JOIN categorias c ON t.categoria_id = c.id
		WHERE t.user_id = $1
	`
	params := []interface{}{userID}
	paramCount := 2

	if statusFilter != "" {
		query += fmt.Sprintf(" AND t.status = $%d", paramCount)
		params = append(params, statusFilter)
		paramCount++
	}
	if priorityFilter != "" {
		query += fmt.Sprintf(" AND t.prioridade = $%d", paramCount)
		params = append(params, priorityFilter)
		paramCount++
	}
	if categoryFilter != "" {
		query += fmt.Sprintf(" AND t.categoria_id = $%d", paramCount)
		params = append(params, categoryFilter)
		paramCount++
	}

	query += " ORDER BY t.created_at DESC"

	rows, err := db.Query(query, params...)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar tarefas no banco de dados")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	tasks := []models.Tarefa{}
	for rows.Next() {
		task, err := scanTarefa(rows)
		if err != nil {
			utilities.LogError(err, "Erro ao ler resultado da query de tarefas")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		utilities.LogError(err, "Erro ao percorrer resultado da query de tarefas")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Tarefas listadas com sucesso - total: %d", len(tasks))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// GetTaskHandler devolve uma tarefa específica do usuário.
func GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	taskID, err := strconv.ParseInt(mux.Vars(r)["task_id"], 10, 64)
	if err != nil {
		http.Error(w, "ID de tarefa inválido", http.StatusBadRequest)
		return
	}

	task, err := getTask(userID, taskID)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
		} else {
			utilities.LogError(err, "Erro ao buscar tarefa")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// UpdateTaskHandler atualiza campos de uma tarefa existente. A transição
// para o status completed gera um evento "complete" no log de atividades.
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando atualização de tarefa")

	uid, userID, err := requireUser(r)
	if err != nil {
		utilities.LogError(err, "Falha na autenticação ao atualizar tarefa")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	taskID, err := strconv.ParseInt(mux.Vars(r)["task_id"], 10, 64)
	if err != nil {
		http.Error(w, "ID de tarefa inválido", http.StatusBadRequest)
		return
	}

	var updates models.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON de atualização")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Status atual, para detectar a transição para completed (e conferir
	// que a tarefa pertence ao usuário)
	var currentStatus string
	err = db.QueryRow(
		"SELECT status FROM tarefas WHERE id = $1 AND user_id = $2", taskID, userID,
	).Scan(&currentStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
		} else {
			utilities.LogError(err, "Erro ao buscar status atual da tarefa")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	utilities.LogDebug("Construindo query de atualização para tarefa %d", taskID)
	query := "UPDATE tarefas SET "
	params := []interface{}{}
	paramCount := 1

	if updates.Title != nil {
		query += fmt.Sprintf("title = $%d, ", paramCount)
		params = append(params, *updates.Title)
		paramCount++
	}
	if updates.Description != nil {
		query += fmt.Sprintf("descricao = $%d, ", paramCount)
		params = append(params, *updates.Description)
		paramCount++
	}
	if updates.Priority != nil {
		if !models.ValidPriorities[*updates.Priority] {
			utilities.LogError(fmt.Errorf("prioridade inválida: %s", *updates.Priority), "Validação falhou")
			http.Error(w, "Prioridade inválida", http.StatusBadRequest)
			return
		}
		query += fmt.Sprintf("prioridade = $%d, ", paramCount)
		params = append(params, *updates.Priority)
		paramCount++
	}
	if updates.Status != nil {
		if !models.ValidStatuses[*updates.Status] {
			utilities.LogError(fmt.Errorf("status inválido: %s", *updates.Status), "Validação falhou")
			http.Error(w, "Status inválido", http.StatusBadRequest)
			return
		}
		query += fmt.Sprintf("status = $%d, ", paramCount)
		params = append(params, *updates.Status)
		paramCount++
	}
	if updates.Expiration != nil {
		query += fmt.Sprintf("expiracao = $%d, ", paramCount)
		params = append(params, *updates.Expiration)
		paramCount++
	}
	if updates.CategoryID != nil {
		var owned bool
		err := db.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM categorias WHERE id = $1 AND user_id = $2)",
			*updates.CategoryID, userID,
		).Scan(&owned)
		if err != nil || !owned {
			http.Error(w, "Categoria inválida", http.StatusBadRequest)
			return
		}
		query += fmt.Sprintf("categoria_id = $%d, ", paramCount)
		params = append(params, *updates.CategoryID)
		paramCount++
	}

	if len(params) == 0 {
		http.Error(w, "Nenhum campo para atualizar", http.StatusBadRequest)
		return
	}

	query += fmt.Sprintf("updated_at = NOW() WHERE id = $%d AND user_id = $%d", paramCount, paramCount+1)
	params = append(params, taskID, userID)

	if _, err := db.Exec(query, params...); err != nil {
		utilities.LogError(err, "Erro ao atualizar tarefa no banco de dados")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if updates.Status != nil && *updates.Status == models.StatusCompleted && currentStatus != models.StatusCompleted {
		if err := models.RegistrarAtividade(db, taskID, userID, models.AtividadeComplete); err != nil {
			utilities.LogError(err, "Erro ao registrar atividade de conclusão")
		}
	}

	task, err := getTask(userID, taskID)
	if err != nil {
		utilities.LogError(err, "Erro ao reler tarefa atualizada")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	syncSnapshot(r, uid, task)

	utilities.LogInfo("Tarefa atualizada com sucesso: %d", taskID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// DeleteTaskHandler remove uma tarefa do usuário.
func DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando exclusão de tarefa")

	uid, userID, err := requireUser(r)
	if err != nil {
		utilities.LogError(err, "Falha na autenticação ao excluir tarefa")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	taskID, err := strconv.ParseInt(mux.Vars(r)["task_id"], 10, 64)
	if err != nil {
		http.Error(w, "ID de tarefa inválido", http.StatusBadRequest)
		return
	}

	result, err := db.Exec("DELETE FROM tarefas WHERE id = $1 AND user_id = $2", taskID, userID)
	if err != nil {
		// 23503: outra tarefa ainda depende desta
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			http.Error(w, "Tarefa possui dependências e não pode ser removida", http.StatusConflict)
			return
		}
		utilities.LogError(err, "Erro ao excluir tarefa do banco de dados")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
		return
	}

	if err := firebase.RemoveTaskSnapshot(r.Context(), uid, taskID); err != nil {
		utilities.LogError(err, "Falha ao remover tarefa do espelho no Firestore")
	}

	utilities.LogInfo("Tarefa excluída com sucesso: %d", taskID)
	w.WriteHeader(http.StatusNoContent)
}
