package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"gestor-tarefas/handlers"
	"gestor-tarefas/utilities"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func LoadRoutes() {
	r := mux.NewRouter()

	// Aplicar o middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)

	// --- Rotas de Autenticação e Públicas ---
	r.HandleFunc("/auth/register", handlers.RegisterHandler).Methods("POST")
	r.HandleFunc("/auth/finalize-login", handlers.FinalizeFirebaseLoginHandler).Methods("POST")
	r.HandleFunc("/auth/logout", handlers.AuthMiddleware(handlers.LogoutHandler)).Methods("POST")

	// --- Rotas de Usuário (autenticado, referindo-se ao próprio usuário logado) ---
	r.HandleFunc("/user/info", handlers.AuthMiddleware(handlers.UserHandler)).Methods("GET")
	r.HandleFunc("/user/update", handlers.AuthMiddleware(handlers.UpdateUserHandler)).Methods("PUT")
	r.HandleFunc("/user/delete", handlers.AuthMiddleware(handlers.DeleteUserHandler)).Methods("DELETE")
	r.HandleFunc("/users/list", handlers.AuthMiddleware(handlers.GetAllUsersHandler)).Methods("GET")
	r.HandleFunc("/user/my-workspaces/list", handlers.AuthMiddleware(handlers.ListUserWorkspacesHandler)).Methods("GET")

	// --- Rotas de Categorias (protegidas) ---
	r.HandleFunc("/category/create", handlers.AuthMiddleware(handlers.CreateCategoryHandler)).Methods("POST")
	r.HandleFunc("/category/list", handlers.AuthMiddleware(handlers.ListCategoriesHandler)).Methods("GET")
	r.HandleFunc("/category/update/{category_id}", handlers.AuthMiddleware(handlers.UpdateCategoryHandler)).Methods("PUT")
	r.HandleFunc("/category/delete/{category_id}", handlers.AuthMiddleware(handlers.DeleteCategoryHandler)).Methods("DELETE")

	// --- Rotas de Tarefas (protegidas) ---
	r.HandleFunc("/task/create", handlers.AuthMiddleware(handlers.CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/task/list", handlers.AuthMiddleware(handlers.ListTasksHandler)).Methods("GET")
	r.HandleFunc("/task/info/{task_id}", handlers.AuthMiddleware(handlers.GetTaskHandler)).Methods("GET")
	r.HandleFunc("/task/update/{task_id}", handlers.AuthMiddleware(handlers.UpdateTaskHandler)).Methods("PUT")
	r.HandleFunc("/task/delete/{task_id}", handlers.AuthMiddleware(handlers.DeleteTaskHandler)).Methods("DELETE")

	// --- Rotas de Insights (protegidas) ---
	r.HandleFunc("/insights/contexts", handlers.AuthMiddleware(handlers.GetSmartContextsHandler)).Methods("GET")
	r.HandleFunc("/insights/productivity", handlers.AuthMiddleware(handlers.GetProductivityHandler)).Methods("GET")
	r.HandleFunc("/insights/completion", handlers.AuthMiddleware(handlers.GetCompletionStatsHandler)).Methods("GET")

	// --- Rotas de Workspace (protegidas) ---
	r.HandleFunc("/workspace/create", handlers.AuthMiddleware(handlers.CreateWorkspaceHandler)).Methods("POST")
	r.HandleFunc("/workspace/info/{workspace_id}", handlers.AuthMiddleware(handlers.GetWorkspaceInfoHandler)).Methods("GET")
	r.HandleFunc("/workspace/update/{workspace_id}", handlers.AuthMiddleware(handlers.UpdateWorkspaceHandler)).Methods("PUT")
	r.HandleFunc("/workspace/delete/{workspace_id}", handlers.AuthMiddleware(handlers.DeleteWorkspaceHandler)).Methods("DELETE")
	r.HandleFunc("/workspace/{workspace_id}/members/list", handlers.AuthMiddleware(handlers.ListWorkspaceMembersHandler)).Methods("GET")
	r.HandleFunc("/workspace/{workspace_id}/members/add", handlers.AuthMiddleware(handlers.AddUserToWorkspaceHandler)).Methods("POST")
	r.HandleFunc("/workspace/{workspace_id}/members/remove", handlers.AuthMiddleware(handlers.RemoveUserFromWorkspaceHandler)).Methods("DELETE")
	r.HandleFunc("/workspace/{workspace_id}/invites/create", handlers.AuthMiddleware(handlers.CreateWorkspaceInviteHandler)).Methods("POST")
	r.HandleFunc("/workspace/invites/accept", handlers.AuthMiddleware(handlers.AcceptWorkspaceInviteHandler)).Methods("POST")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	allowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if allowedOriginsEnv == "" {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	} else {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)

	handler := gorillahandlers.CORS(headers, methods, origins)(r)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	utilities.LogInfo("Servidor iniciado na porta %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
