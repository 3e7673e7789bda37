package models

import (
	"database/sql"
	"time"
)

// Tipos de evento registrados no log de atividades.
const (
	AtividadeCreate   = "create"
	AtividadeComplete = "complete"
)

// Atividade é um registro imutável do log de transições de uma tarefa.
// O log é somente-inserção: nada aqui é atualizado ou removido pela
// aplicação, ele existe para alimentar as estatísticas de produtividade.
type Atividade struct {
	ID           int64     `json:"id"`
	TarefaID     int64     `json:"tarefa_id"`
	UserID       int64     `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegistrarAtividade insere um evento no log. O chamador trata a falha como
// não-fatal: estatísticas incompletas não podem derrubar o fluxo principal.
func RegistrarAtividade(db *sql.DB, tarefaID, userID int64, tipo string) error {
	_, err := db.Exec(`
		INSERT INTO atividades (tarefa_id, user_id, activity_type, created_at)
		VALUES ($1, $2, $3, NOW())
	`, tarefaID, userID, tipo)
	return err
}

// ListActivities devolve os eventos do usuário a partir de um instante,
// em ordem cronológica.
func ListActivities(db *sql.DB, userID int64, since time.Time) ([]Atividade, error) {
	rows, err := db.Query(`
		SELECT id, tarefa_id, user_id, activity_type, created_at
		FROM atividades
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []Atividade{}
	for rows.Next() {
		var a Atividade
		if err := rows.Scan(&a.ID, &a.TarefaID, &a.UserID, &a.ActivityType, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
