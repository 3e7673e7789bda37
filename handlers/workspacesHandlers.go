package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"

	"github.com/gorilla/mux"
)

// workspaceIDFromRoute lê e valida o workspace_id da rota.
func workspaceIDFromRoute(r *http.Request) (int64, error) {
	idStr, ok := mux.Vars(r)["workspace_id"]
	if !ok {
		return 0, fmt.Errorf("workspace_id não encontrado nos parâmetros da rota")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// CreateWorkspaceHandler cria um workspace e adiciona o criador como admin.
func CreateWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de novo workspace")

	uid, userID, err := requireUser(r)
	if err != nil {
		utilities.LogError(err, "CreateWorkspaceHandler: Falha na autenticação")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input models.Workspace
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "CreateWorkspaceHandler: Erro ao decodificar JSON do workspace")
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.Name == "" {
		http.Error(w, "Workspace name is required", http.StatusBadRequest)
		return
	}

	var workspace models.Workspace
	err = db.QueryRow(`
		INSERT INTO workspaces (name, description, is_public, owner_uid, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`, input.Name, input.Description, input.IsPublic, uid).Scan(&workspace.ID, &workspace.CreatedAt)
	if err != nil {
		utilities.LogError(err, "CreateWorkspaceHandler: Erro ao criar workspace no banco de dados")
		http.Error(w, "Database error while creating workspace", http.StatusInternalServerError)
		return
	}

	_, err = db.Exec(`
		INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		VALUES ($1, $2, 'admin', NOW())
	`, workspace.ID, userID)
	if err != nil {
		utilities.LogError(err, "CreateWorkspaceHandler: Erro ao adicionar criador ao workspace_members")
		// Desfaz o workspace recém-criado para não deixar registro órfão
		if _, delErr := db.Exec("DELETE FROM workspaces WHERE id = $1", workspace.ID); delErr != nil {
			utilities.LogError(delErr, "CreateWorkspaceHandler: Falha ao limpar workspace órfão ID: "+strconv.FormatInt(workspace.ID, 10))
		}
		http.Error(w, "Database error while adding user to workspace", http.StatusInternalServerError)
		return
	}

	workspace.Name = input.Name
	workspace.Description = input.Description
	workspace.IsPublic = input.IsPublic
	workspace.OwnerUID = uid
	workspace.Members = 1

	utilities.LogInfo("CreateWorkspaceHandler: Workspace criado com sucesso: %s (ID: %d)", workspace.Name, workspace.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(workspace)
}

// GetWorkspaceInfoHandler busca informações de um workspace. Membros sempre
// podem ver; não-membros só quando o workspace é público.
func GetWorkspaceInfoHandler(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := workspaceIDFromRoute(r)
	if err != nil {
		http.Error(w, "Invalid Workspace ID format", http.StatusBadRequest)
		return
	}

	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	workspace, err := models.GetWorkspaceInfo(db, workspaceID)
	if err != nil {
		if err.Error() == "workspace not found" {
			http.Error(w, "Workspace not found", http.StatusNotFound)
		} else {
			utilities.LogError(err, fmt.Sprintf("GetWorkspaceInfoHandler: Erro ao buscar workspace %d", workspaceID))
			http.Error(w, "Error fetching workspace", http.StatusInternalServerError)
		}
		return
	}

	isMember, err := models.IsWorkspaceMember(db, uid, workspaceID)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("GetWorkspaceInfoHandler: Erro ao verificar membresia no workspace %d", workspaceID))
		http.Error(w, "Failed to verify workspace membership", http.StatusInternalServerError)
		return
	}
	if !isMember && !workspace.IsPublic {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workspace)
}

// UpdateWorkspaceHandler atualiza nome e descrição; somente o dono pode.
func UpdateWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := workspaceIDFromRoute(r)
	if err != nil {
		http.Error(w, "Invalid Workspace ID format", http.StatusBadRequest)
		return
	}

	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.Name == "" {
		http.Error(w, "Workspace name cannot be empty", http.StatusBadRequest)
		return
	}

	workspace, err := models.GetWorkspaceInfo(db, workspaceID)
	if err != nil {
		http.Error(w, "Workspace not found", http.StatusNotFound)
		return
	}
	if workspace.OwnerUID != uid {
		http.Error(w, "Forbidden: Only the owner can update the workspace", http.StatusForbidden)
		return
	}

	if err := models.UpdateWorkspace(db, workspaceID, input.Name, input.Description); err != nil {
		utilities.LogError(err, fmt.Sprintf("UpdateWorkspaceHandler: Erro ao atualizar workspace %d", workspaceID))
		http.Error(w, "Failed to update workspace", http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("UpdateWorkspaceHandler: Workspace %d atualizado com sucesso pelo usuário %s", workspaceID, uid)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteWorkspaceHandler deleta um workspace; somente o dono pode.
func DeleteWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := workspaceIDFromRoute(r)
	if err != nil {
		http.Error(w, "Invalid Workspace ID format", http.StatusBadRequest)
		return
	}

	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := models.DeleteWorkspace(db, workspaceID, uid); err != nil {
		if err.Error() == "workspace not found or user is not the owner" {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			utilities.LogError(err, fmt.Sprintf("DeleteWorkspaceHandler: Erro ao deletar workspace %d", workspaceID))
			http.Error(w, "Failed to delete workspace", http.StatusInternalServerError)
		}
		return
	}

	utilities.LogInfo("DeleteWorkspaceHandler: Workspace %d deletado com sucesso pelo usuário %s", workspaceID, uid)
	w.WriteHeader(http.StatusNoContent)
}

// ListWorkspaceMembersHandler lista os membros; só membros podem ver.
func ListWorkspaceMembersHandler(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := workspaceIDFromRoute(r)
	if err != nil {
		http.Error(w, "Invalid Workspace ID format", http.StatusBadRequest)
		return
	}

	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	isMember, err := models.IsWorkspaceMember(db, uid, workspaceID)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("ListWorkspaceMembersHandler: Erro ao verificar membresia no workspace %d", workspaceID))
		http.Error(w, "Failed to verify workspace membership", http.StatusInternalServerError)
		return
	}
	if !isMember {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	members, err := models.ListWorkspaceMembers(db, workspaceID)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("ListWorkspaceMembersHandler: Erro ao listar membros do workspace %d", workspaceID))
		http.Error(w, "Failed to list workspace members", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}

// AddUserToWorkspaceHandler adiciona um usuário (por email) ao workspace;
// somente o dono pode.
func AddUserToWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := workspaceIDFromRoute(r)
	if err != nil {
		http.Error(w, "Invalid Workspace ID format", http.StatusBadRequest)
		return
	}

	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}
	if input.Role != "admin" && input.Role != "member" {
		input.Role = "member"
	}

	workspace, err := models.GetWorkspaceInfo(db, workspaceID)
	if err != nil {
		http.Error(w, "Workspace not found", http.StatusNotFound)
		return
	}
	if workspace.OwnerUID != uid {
		http.Error(w, "Forbidden: Only the workspace owner can add members", http.StatusForbidden)
		return
	}

	if err := models.AddUserToWorkspace(db, workspaceID, input.Email, input.Role); err != nil {
		if strings.Contains(err.Error(), "já é membro") || strings.Contains(err.Error(), "não encontrado") {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			utilities.LogError(err, fmt.Sprintf("AddUserToWorkspaceHandler: Erro ao adicionar usuário ao workspace %d", workspaceID))
			http.Error(w, "Failed to add user to workspace", http.StatusInternalServerError)
		}
		return
	}

	utilities.LogInfo("AddUserToWorkspaceHandler: Usuário %s adicionado ao workspace %d com role %s", input.Email, workspaceID, input.Role)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "User added to workspace successfully"})
}

// RemoveUserFromWorkspaceHandler remove um membro. O dono pode remover
// qualquer membro (menos a si próprio); um membro pode sair sozinho.
func RemoveUserFromWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := workspaceIDFromRoute(r)
	if err != nil {
		http.Error(w, "Invalid Workspace ID format", http.StatusBadRequest)
		return
	}

	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		MemberFirebaseUID string `json:"member_firebase_uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.MemberFirebaseUID == "" {
		http.Error(w, "member_firebase_uid is required", http.StatusBadRequest)
		return
	}

	workspace, err := models.GetWorkspaceInfo(db, workspaceID)
	if err != nil {
		http.Error(w, "Workspace not found", http.StatusNotFound)
		return
	}

	if input.MemberFirebaseUID == workspace.OwnerUID {
		http.Error(w, "Cannot remove the workspace owner", http.StatusBadRequest)
		return
	}

	isOwner := workspace.OwnerUID == uid
	isSelfRemoval := input.MemberFirebaseUID == uid
	if !isOwner && !isSelfRemoval {
		http.Error(w, "Forbidden: Only workspace owner can remove other members, or user can remove self", http.StatusForbidden)
		return
	}

	if err := models.RemoveUserFromWorkspace(db, workspaceID, input.MemberFirebaseUID); err != nil {
		if strings.Contains(err.Error(), "não encontrado") {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			utilities.LogError(err, fmt.Sprintf("RemoveUserFromWorkspaceHandler: Erro ao remover usuário do workspace %d", workspaceID))
			http.Error(w, "Failed to remove user from workspace", http.StatusInternalServerError)
		}
		return
	}

	utilities.LogInfo("RemoveUserFromWorkspaceHandler: Usuário %s removido do workspace %d pelo usuário %s", input.MemberFirebaseUID, workspaceID, uid)
	w.WriteHeader(http.StatusNoContent)
}

// CreateWorkspaceInviteHandler gera um convite com código UUID; somente o
// dono pode.
func CreateWorkspaceInviteHandler(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := workspaceIDFromRoute(r)
	if err != nil {
		http.Error(w, "Invalid Workspace ID format", http.StatusBadRequest)
		return
	}

	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Role     string `json:"role"`
		TTLHours int    `json:"ttl_hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	workspace, err := models.GetWorkspaceInfo(db, workspaceID)
	if err != nil {
		http.Error(w, "Workspace not found", http.StatusNotFound)
		return
	}
	if workspace.OwnerUID != uid {
		http.Error(w, "Forbidden: Only the workspace owner can create invites", http.StatusForbidden)
		return
	}

	invite, err := models.CreateWorkspaceInvite(db, workspaceID, input.Role, input.TTLHours)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("CreateWorkspaceInviteHandler: Erro ao criar convite para workspace %d", workspaceID))
		http.Error(w, "Failed to create invite", http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Convite %s criado para o workspace %d", invite.InviteCode, workspaceID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invite)
}

// AcceptWorkspaceInviteHandler entra num workspace a partir de um código de
// convite.
func AcceptWorkspaceInviteHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.InviteCode == "" {
		http.Error(w, "invite_code is required", http.StatusBadRequest)
		return
	}

	workspaceID, err := models.AcceptWorkspaceInvite(db, input.InviteCode, uid)
	if err != nil {
		switch err.Error() {
		case "invalid invite code", "invite expired":
			http.Error(w, err.Error(), http.StatusBadRequest)
		case "invite not found":
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			if strings.Contains(err.Error(), "já é membro") {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			utilities.LogError(err, "AcceptWorkspaceInviteHandler: Erro ao aceitar convite")
			http.Error(w, "Failed to accept invite", http.StatusInternalServerError)
		}
		return
	}

	utilities.LogInfo("Usuário %s entrou no workspace %d via convite", uid, workspaceID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"workspace_id": workspaceID})
}
