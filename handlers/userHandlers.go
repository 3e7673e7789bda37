package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gestor-tarefas/firebase"
	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
)

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type SocialLoginInput struct {
	IDToken string `json:"idToken"`
}

// SocialLoginResponse define a estrutura da resposta de sucesso do login.
type SocialLoginResponse struct {
	Message     string `json:"message"`
	FirebaseUID string `json:"firebaseUid"`
}

// RegisterHandler cria a conta no Firebase Authentication e o registro
// espelho na tabela users, junto com o workspace pessoal do usuário.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar corpo do registro")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		http.Error(w, "Email e senha são obrigatórios", http.StatusBadRequest)
		return
	}
	if input.DisplayName == "" {
		input.DisplayName = strings.SplitN(input.Email, "@", 2)[0]
	}

	userRecord, err := firebase.CreateFirebaseUser(input.Email, input.Password, input.DisplayName)
	if err != nil {
		utilities.LogError(err, "Erro ao criar usuário no Firebase")
		http.Error(w, "Falha ao registrar usuário", http.StatusBadRequest)
		return
	}

	_, err = db.Exec(
		"INSERT INTO users (firebase_uid, email, display_name, created_at) VALUES ($1, $2, $3, NOW())",
		userRecord.UID, input.Email, input.DisplayName,
	)
	if err != nil {
		utilities.LogError(err, "Erro ao inserir usuário no banco de dados")
		// Desfaz a conta no Firebase para não deixar cadastro órfão
		if delErr := firebase.DeleteFirebaseUser(userRecord.UID); delErr != nil {
			utilities.LogError(delErr, "Falha ao limpar usuário órfão no Firebase: "+userRecord.UID)
		}
		http.Error(w, "Erro interno ao registrar usuário", http.StatusInternalServerError)
		return
	}

	if err := models.CreatePrivateWorkspace(db, userRecord.UID); err != nil {
		utilities.LogError(err, "Erro ao criar workspace pessoal do usuário")
	}

	utilities.LogInfo("Usuário registrado com sucesso: %s (UID: %s)", input.Email, userRecord.UID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"firebaseUid": userRecord.UID})
}

// FinalizeFirebaseLoginHandler processa um ID Token do Firebase (de login
// social ou de senha) para verificar o usuário e sincronizá-lo com o banco
// de dados local.
func FinalizeFirebaseLoginHandler(w http.ResponseWriter, r *http.Request) {
	var input SocialLoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar corpo da requisição para finalizar login")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(input.IDToken) == "" {
		http.Error(w, "ID Token é obrigatório", http.StatusBadRequest)
		return
	}

	verifiedToken, err := firebase.VerifyUserToken(input.IDToken)
	if err != nil {
		utilities.LogError(err, "Falha ao verificar ID Token do Firebase")
		http.Error(w, "Token inválido ou falha na verificação", http.StatusUnauthorized)
		return
	}

	localID, err := firebase.CheckOrCreateUserInPostgres(db, verifiedToken)
	if err != nil {
		utilities.LogError(err, "Erro ao sincronizar usuário com banco de dados local")
		http.Error(w, "Erro interno do servidor ao processar usuário", http.StatusInternalServerError)
		return
	}

	// Garante o workspace pessoal também para quem entrou por login social
	if err := models.CreatePrivateWorkspace(db, verifiedToken.UID); err != nil &&
		err.Error() != "private workspace already exists" {
		utilities.LogError(err, "Erro ao criar workspace pessoal no primeiro login")
	}

	utilities.LogInfo("Login finalizado para UID %s (ID local: %d)", verifiedToken.UID, localID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SocialLoginResponse{
		Message:     "Login finalizado com sucesso",
		FirebaseUID: verifiedToken.UID,
	})
}

// LogoutHandler revoga os refresh tokens do usuário no Firebase.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	if err := firebase.RevokeUserTokens(uid); err != nil {
		utilities.LogError(err, "Erro ao revogar tokens no logout")
		http.Error(w, "Falha ao encerrar sessão", http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Logout efetuado para UID %s", uid)
	w.WriteHeader(http.StatusNoContent)
}

// UserHandler devolve os dados do usuário autenticado.
func UserHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	user, err := models.GetUserByFirebaseUID(db, uid)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar dados do usuário")
		http.Error(w, "Usuário não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdateUserHandler atualiza o display_name do usuário.
func UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	var input struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(input.DisplayName) == "" {
		http.Error(w, "display_name é obrigatório", http.StatusBadRequest)
		return
	}

	_, err = db.Exec("UPDATE users SET display_name = $1 WHERE firebase_uid = $2", input.DisplayName, uid)
	if err != nil {
		utilities.LogError(err, "Erro ao atualizar usuário")
		http.Error(w, "Falha ao atualizar usuário", http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Usuário %s atualizado com sucesso", uid)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUserHandler remove a conta: apaga o registro local (as tarefas,
// categorias e atividades caem em cascata), o espelho no Firestore e por
// fim a conta no Firebase.
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	if _, err := db.Exec("DELETE FROM users WHERE firebase_uid = $1", uid); err != nil {
		utilities.LogError(err, "Erro ao remover usuário do banco de dados")
		http.Error(w, "Falha ao remover usuário", http.StatusInternalServerError)
		return
	}

	if err := firebase.PurgeUserSnapshots(r.Context(), uid); err != nil {
		utilities.LogError(err, "Falha ao limpar espelho do usuário no Firestore")
	}

	if err := firebase.DeleteFirebaseUser(uid); err != nil {
		utilities.LogError(err, "Erro ao remover usuário do Firebase")
		http.Error(w, "Falha ao remover conta de autenticação", http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Usuário %s removido com sucesso", uid)
	w.WriteHeader(http.StatusNoContent)
}

// GetAllUsersHandler lista os usuários cadastrados (dados básicos, para a
// busca de membros de workspace).
func GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := db.Query("SELECT id, firebase_uid, email, display_name, created_at FROM users ORDER BY display_name")
	if err != nil {
		utilities.LogError(err, "Erro ao listar usuários")
		http.Error(w, "Falha ao listar usuários", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	users := []models.Usuario{}
	for rows.Next() {
		var u models.Usuario
		if err := rows.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.DisplayName, &u.CreatedAt); err != nil {
			utilities.LogError(err, "Erro ao ler usuário da listagem")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// ListUserWorkspacesHandler lista os workspaces do usuário autenticado.
func ListUserWorkspacesHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	workspaces, err := models.ListUserWorkspaces(db, uid)
	if err != nil {
		utilities.LogError(err, "Erro ao listar workspaces do usuário")
		http.Error(w, "Falha ao listar workspaces", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workspaces)
}
