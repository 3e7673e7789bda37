package main

import (
	"log"

	"gestor-tarefas/database"
	"gestor-tarefas/handlers"
	"gestor-tarefas/utilities"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	utilities.InitLogger()

	db, err := database.ConnectPostgres()
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	handlers.InitDB(db)

	LoadRoutes()
}
