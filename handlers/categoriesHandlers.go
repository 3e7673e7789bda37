package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"

	"github.com/gorilla/mux"
)

// CreateCategoryHandler cria uma categoria para o usuário autenticado.
func CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		utilities.LogError(err, "Falha na autenticação ao criar categoria")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	category, err := models.CreateCategory(db, userID, input.Name, input.Color)
	if err != nil {
		if err.Error() == "category name cannot be empty" {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		utilities.LogError(err, "Erro ao criar categoria")
		http.Error(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Categoria criada com sucesso: %s (ID: %d)", category.Name, category.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
}

// ListCategoriesHandler lista as categorias do usuário.
func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	categories, err := models.ListCategories(db, userID)
	if err != nil {
		utilities.LogError(err, "Erro ao listar categorias")
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

// UpdateCategoryHandler renomeia ou recolore uma categoria.
func UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	categoryID, err := strconv.ParseInt(mux.Vars(r)["category_id"], 10, 64)
	if err != nil {
		http.Error(w, "ID de categoria inválido", http.StatusBadRequest)
		return
	}

	var input struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := models.UpdateCategory(db, userID, categoryID, input.Name, input.Color); err != nil {
		switch err.Error() {
		case "category not found":
			http.Error(w, err.Error(), http.StatusNotFound)
		case "category name cannot be empty":
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			utilities.LogError(err, "Erro ao atualizar categoria")
			http.Error(w, "Failed to update category", http.StatusInternalServerError)
		}
		return
	}

	utilities.LogInfo("Categoria %d atualizada com sucesso", categoryID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategoryHandler remove uma categoria; as tarefas associadas ficam
// sem categoria.
func DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, err := requireUser(r)
	if err != nil {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	categoryID, err := strconv.ParseInt(mux.Vars(r)["category_id"], 10, 64)
	if err != nil {
		http.Error(w, "ID de categoria inválido", http.StatusBadRequest)
		return
	}

	if err := models.DeleteCategory(db, userID, categoryID); err != nil {
		if err.Error() == "category not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			utilities.LogError(err, "Erro ao remover categoria")
			http.Error(w, "Failed to delete category", http.StatusInternalServerError)
		}
		return
	}

	utilities.LogInfo("Categoria %d removida com sucesso", categoryID)
	w.WriteHeader(http.StatusNoContent)
}
