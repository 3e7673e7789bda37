package models

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Categoria agrupa tarefas de um mesmo usuário (trabalho, estudos, saúde...).
// É referenciada pelas tarefas, nunca as possui.
type Categoria struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

func CreateCategory(db *sql.DB, userID int64, name, color string) (*Categoria, error) {
	if name == "" {
		return nil, errors.New("category name cannot be empty")
	}
	if color == "" {
		color = "#6366f1"
	}

	var cat Categoria
	err := db.QueryRow(`
		INSERT INTO categorias (user_id, name, color, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`, userID, name, color).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar categoria: %w", err)
	}

	cat.UserID = userID
	cat.Name = name
	cat.Color = color
	return &cat, nil
}

func ListCategories(db *sql.DB, userID int64) ([]Categoria, error) {
	rows, err := db.Query(`
		SELECT id, user_id, name, color, created_at
		FROM categorias
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar categorias: %w", err)
	}
	defer rows.Close()

	categories := []Categoria{}
	for rows.Next() {
		var cat Categoria
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Color, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func UpdateCategory(db *sql.DB, userID, categoryID int64, name, color string) error {
	if name == "" {
		return errors.New("category name cannot be empty")
	}

	result, err := db.Exec(`
		UPDATE categorias SET name = $1, color = $2
		WHERE id = $3 AND user_id = $4
	`, name, color, categoryID, userID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar categoria: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("category not found")
	}
	return nil
}

// DeleteCategory remove a categoria. As tarefas que a referenciam ficam sem
// categoria (categoria_id tem ON DELETE SET NULL no schema).
func DeleteCategory(db *sql.DB, userID, categoryID int64) error {
	result, err := db.Exec(`
		DELETE FROM categorias WHERE id = $1 AND user_id = $2
	`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("falha ao remover categoria: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("category not found")
	}
	return nil
}
