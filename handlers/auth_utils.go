package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"gestor-tarefas/utilities"
)

type contextKey string

// userUIDKey é a chave de contexto onde o AuthMiddleware guarda o Firebase
// UID verificado.
const userUIDKey contextKey = "userUID"

var db *sql.DB

// InitDB guarda o pool de conexões compartilhado pelos handlers.
func InitDB(database *sql.DB) {
	utilities.LogInfo("Inicializando conexão com o banco de dados")
	db = database
}

// uidFromRequest recupera o Firebase UID colocado no contexto pelo
// AuthMiddleware.
func uidFromRequest(r *http.Request) (string, error) {
	uid, ok := r.Context().Value(userUIDKey).(string)
	if !ok || uid == "" {
		return "", errors.New("UID não encontrado no contexto da requisição")
	}
	return uid, nil
}

// localUserID resolve o Firebase UID para o ID numérico da tabela users.
func localUserID(uid string) (int64, error) {
	var id int64
	err := db.QueryRow("SELECT id FROM users WHERE firebase_uid = $1", uid).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// requireUser combina os dois passos acima; é o preâmbulo de quase todos os
// handlers autenticados.
func requireUser(r *http.Request) (string, int64, error) {
	uid, err := uidFromRequest(r)
	if err != nil {
		return "", 0, err
	}
	id, err := localUserID(uid)
	if err != nil {
		return "", 0, err
	}
	return uid, id, nil
}
