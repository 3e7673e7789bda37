package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	OwnerUID    string    `json:"owner_uid"` // Firebase UID do dono
	CreatedAt   time.Time `json:"created_at"`
	Members     int       `json:"members"`
}

// WorkspaceInvite é um convite de entrada em workspace, identificado por um
// código UUID. Convites podem ter validade; expires_at nulo significa que o
// convite não expira.
type WorkspaceInvite struct {
	ID          int64      `json:"id"`
	WorkspaceID int64      `json:"workspace_id"`
	InviteCode  string     `json:"invite_code"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UserWorkspaceInfo descreve um workspace do qual o usuário é membro.
type UserWorkspaceInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	UserRole string `json:"user_role"`
	IsOwner  bool   `json:"is_owner"`
}

type WorkspaceMember struct {
	UserID      string    `json:"user_id"` // firebase_uid do membro
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// CreatePrivateWorkspace cria o workspace pessoal do usuário no primeiro
// acesso. A criação do workspace e a inserção do dono como admin acontecem
// na mesma transação.
func CreatePrivateWorkspace(db *sql.DB, ownerUID string) error {
	var existingID int64
	err := db.QueryRow(`
		SELECT id FROM workspaces WHERE owner_uid = $1 AND is_public = false
	`, ownerUID).Scan(&existingID)
	if err == nil {
		return errors.New("private workspace already exists")
	}
	if err != sql.ErrNoRows {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRow("SELECT id FROM users WHERE firebase_uid = $1", ownerUID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("usuário correspondente ao owner_uid (%s) não encontrado na tabela 'users': %w", ownerUID, err)
	}

	var workspaceID int64
	err = tx.QueryRow(`
		INSERT INTO workspaces (name, description, is_public, owner_uid, created_at)
		VALUES ('Personal workspace', '', false, $1, NOW())
		RETURNING id
	`, ownerUID).Scan(&workspaceID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		VALUES ($1, $2, 'admin', NOW())
	`, workspaceID, userID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func GetWorkspaceInfo(db *sql.DB, workspaceID int64) (*Workspace, error) {
	var workspace Workspace
	err := db.QueryRow(`
		SELECT w.id, w.name, w.description, w.is_public, w.owner_uid, w.created_at,
		       (SELECT COUNT(*) FROM workspace_members wm WHERE wm.workspace_id = w.id)
		FROM workspaces w
		WHERE w.id = $1
	`, workspaceID).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Description,
		&workspace.IsPublic,
		&workspace.OwnerUID,
		&workspace.CreatedAt,
		&workspace.Members,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("workspace not found")
		}
		return nil, err
	}
	return &workspace, nil
}

func UpdateWorkspace(db *sql.DB, workspaceID int64, name, description string) error {
	if name == "" {
		return errors.New("workspace name cannot be empty")
	}

	_, err := db.Exec(`
		UPDATE workspaces
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`, name, description, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

func DeleteWorkspace(db *sql.DB, workspaceID int64, ownerUID string) error {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM workspaces WHERE id = $1 AND owner_uid = $2
		)
	`, workspaceID, ownerUID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check workspace ownership: %w", err)
	}
	if !exists {
		return errors.New("workspace not found or user is not the owner")
	}

	_, err = db.Exec(`DELETE FROM workspaces WHERE id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

func ListWorkspaceMembers(db *sql.DB, workspaceID int64) ([]WorkspaceMember, error) {
	rows, err := db.Query(`
		SELECT u.firebase_uid, u.display_name, u.email, wm.role, wm.joined_at
		FROM workspace_members wm
		JOIN users u ON wm.user_id = u.id
		WHERE wm.workspace_id = $1
		ORDER BY wm.joined_at
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar membros do workspace: %w", err)
	}
	defer rows.Close()

	var members []WorkspaceMember
	for rows.Next() {
		var member WorkspaceMember
		err := rows.Scan(&member.UserID, &member.DisplayName, &member.Email, &member.Role, &member.JoinedAt)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// ListUserWorkspaces lista os workspaces dos quais o usuário é membro.
func ListUserWorkspaces(db *sql.DB, userFirebaseUID string) ([]UserWorkspaceInfo, error) {
	rows, err := db.Query(`
		SELECT w.id, w.name, wm.role, (w.owner_uid = u.firebase_uid)
		FROM workspace_members wm
		JOIN workspaces w ON wm.workspace_id = w.id
		JOIN users u ON wm.user_id = u.id
		WHERE u.firebase_uid = $1
		ORDER BY wm.joined_at
	`, userFirebaseUID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar workspaces do usuário: %w", err)
	}
	defer rows.Close()

	workspaces := []UserWorkspaceInfo{}
	for rows.Next() {
		var ws UserWorkspaceInfo
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.UserRole, &ws.IsOwner); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

func AddUserToWorkspace(db *sql.DB, workspaceID int64, email, role string) error {
	if role == "" {
		role = "member"
	}

	var localUserID int64
	err := db.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&localUserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("usuário com email %s não encontrado", email)
		}
		return fmt.Errorf("erro ao buscar ID do usuário: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, NOW())
	`, workspaceID, localUserID, role)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "violates unique constraint") {
			return fmt.Errorf("usuário (email: %s) já é membro do workspace %d", email, workspaceID)
		}
		return fmt.Errorf("falha ao adicionar usuário ao workspace: %w", err)
	}
	return nil
}

func RemoveUserFromWorkspace(db *sql.DB, workspaceID int64, userFirebaseUID string) error {
	var localUserID int64
	err := db.QueryRow("SELECT id FROM users WHERE firebase_uid = $1", userFirebaseUID).Scan(&localUserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.New("usuário não encontrado no sistema para remoção do workspace")
		}
		return fmt.Errorf("erro ao buscar ID do usuário para remoção: %w", err)
	}

	result, err := db.Exec(`
		DELETE FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, localUserID)
	if err != nil {
		return fmt.Errorf("falha ao remover usuário do workspace: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.New("usuário não encontrado no workspace ou já removido")
	}
	return nil
}

func IsWorkspaceMember(db *sql.DB, userFirebaseUID string, workspaceID int64) (bool, error) {
	var localUserID int64
	err := db.QueryRow("SELECT id FROM users WHERE firebase_uid = $1", userFirebaseUID).Scan(&localUserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("erro ao buscar ID do usuário para checar membresia: %w", err)
	}

	var exists bool
	err = db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM workspace_members
			WHERE user_id = $1 AND workspace_id = $2
		)
	`, localUserID, workspaceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("falha ao checar se usuário é membro do workspace: %w", err)
	}
	return exists, nil
}

// CreateWorkspaceInvite gera um convite com código UUID para o workspace.
// ttlHours <= 0 cria um convite sem expiração.
func CreateWorkspaceInvite(db *sql.DB, workspaceID int64, role string, ttlHours int) (*WorkspaceInvite, error) {
	if role != "admin" && role != "member" {
		role = "member"
	}

	invite := WorkspaceInvite{
		WorkspaceID: workspaceID,
		InviteCode:  uuid.NewString(),
		Role:        role,
	}
	if ttlHours > 0 {
		expires := time.Now().Add(time.Duration(ttlHours) * time.Hour)
		invite.ExpiresAt = &expires
	}

	err := db.QueryRow(`
		INSERT INTO workspace_invites (workspace_id, invite_code, role, created_at, expires_at)
		VALUES ($1, $2, $3, NOW(), $4)
		RETURNING id, created_at
	`, invite.WorkspaceID, invite.InviteCode, invite.Role, invite.ExpiresAt).Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar convite: %w", err)
	}
	return &invite, nil
}

// AcceptWorkspaceInvite resolve o código do convite e adiciona o usuário ao
// workspace com o papel definido no convite. Devolve o ID do workspace.
func AcceptWorkspaceInvite(db *sql.DB, inviteCode, userFirebaseUID string) (int64, error) {
	if _, err := uuid.Parse(inviteCode); err != nil {
		return 0, errors.New("invalid invite code")
	}

	var invite WorkspaceInvite
	var expiresAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, workspace_id, role, expires_at
		FROM workspace_invites
		WHERE invite_code = $1
	`, inviteCode).Scan(&invite.ID, &invite.WorkspaceID, &invite.Role, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, errors.New("invite not found")
		}
		return 0, fmt.Errorf("erro ao buscar convite: %w", err)
	}
	if expiresAt.Valid && time.Now().After(expiresAt.Time) {
		return 0, errors.New("invite expired")
	}

	var email string
	err = db.QueryRow("SELECT email FROM users WHERE firebase_uid = $1", userFirebaseUID).Scan(&email)
	if err != nil {
		return 0, fmt.Errorf("erro ao buscar usuário do convite: %w", err)
	}

	if err := AddUserToWorkspace(db, invite.WorkspaceID, email, invite.Role); err != nil {
		return 0, err
	}
	return invite.WorkspaceID, nil
}
