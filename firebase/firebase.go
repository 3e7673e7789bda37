package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var app *firebase.App

// InitializeFirebase inicializa (uma única vez) o app Firebase a partir do
// arquivo de credenciais apontado por FIREBASE_CREDENTIALS_PATH.
func InitializeFirebase() (*firebase.App, error) {
	if app != nil {
		return app, nil
	}

	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido nas variáveis de ambiente")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	newApp, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	app = newApp
	return app, nil
}

// GetAuthClient retorna o cliente de autenticação do Firebase.
func GetAuthClient() (*auth.Client, error) {
	app, err := InitializeFirebase()
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente de Auth: %w", err)
	}
	return authClient, nil
}

// GetFirestoreClient retorna o cliente do Firestore, usado como espelho em
// tempo real das tarefas.
func GetFirestoreClient() (*firestore.Client, error) {
	app, err := InitializeFirebase()
	if err != nil {
		return nil, err
	}

	firestoreClient, err := app.Firestore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	return firestoreClient, nil
}
