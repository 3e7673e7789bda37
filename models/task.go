package models

import "time"

// Valores aceitos para prioridade e status de uma tarefa.
const (
	PrioridadeLow    = "low"
	PrioridadeMedium = "medium"
	PrioridadeHigh   = "high"

	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidPriorities e ValidStatuses são usados pelos handlers na validação
// do corpo das requisições.
var (
	ValidPriorities = map[string]bool{PrioridadeLow: true, PrioridadeMedium: true, PrioridadeHigh: true}
	ValidStatuses   = map[string]bool{StatusPending: true, StatusInProgress: true, StatusCompleted: true}
)

// Tarefa é o registro completo de uma tarefa no PostgreSQL. A categoria vem
// resolvida como objeto aninhado quando a consulta faz o JOIN com categorias.
type Tarefa struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	WorkspaceID  *int64     `json:"workspace_id,omitempty"`
	CategoryID   *int64     `json:"category_id,omitempty"`
	Category     *Categoria `json:"category,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	Expiration   *time.Time `json:"expiration,omitempty"`
	Dependencies []int64    `json:"dependencies,omitempty"`
	Assignees    []int64    `json:"assignees,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateTaskInput é o corpo aceito na criação de uma tarefa.
type CreateTaskInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	Expiration   *time.Time `json:"expiration"`
	CategoryID   *int64     `json:"category_id"`
	WorkspaceID  *int64     `json:"workspace_id"`
	Dependencies []int64    `json:"dependencies"`
	Assignees    []int64    `json:"assignees"`
}

// UpdateTaskInput usa ponteiros para indicar quais campos atualizar.
type UpdateTaskInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	Expiration  *time.Time `json:"expiration"`
	CategoryID  *int64     `json:"category_id"`
}
