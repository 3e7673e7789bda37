package firebase

import (
	"context"
	"database/sql"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// CreateFirebaseUser registra a conta no Firebase Authentication. A senha
// nunca passa pelo nosso banco; quem guarda credenciais é o Firebase.
func CreateFirebaseUser(email, password, displayName string) (*auth.UserRecord, error) {
	ctx := context.Background()
	client, err := GetAuthClient()
	if err != nil {
		return nil, err
	}

	params := (&auth.UserToCreate{}).
		Email(email).
		EmailVerified(false).
		Password(password).
		DisplayName(displayName).
		Disabled(false)

	user, err := client.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar usuário: %w", err)
	}
	return user, nil
}

// DeleteFirebaseUser remove a conta no Firebase Authentication.
func DeleteFirebaseUser(uid string) error {
	ctx := context.Background()
	client, err := GetAuthClient()
	if err != nil {
		return err
	}

	if err := client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("erro ao deletar usuário: %w", err)
	}
	return nil
}

// VerifyUserToken valida um ID Token emitido pelo Firebase.
func VerifyUserToken(token string) (*auth.Token, error) {
	ctx := context.Background()
	client, err := GetAuthClient()
	if err != nil {
		return nil, err
	}

	verifiedToken, err := client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar token: %w", err)
	}
	return verifiedToken, nil
}

// RevokeUserTokens invalida os refresh tokens do usuário (logout global).
func RevokeUserTokens(uid string) error {
	ctx := context.Background()
	client, err := GetAuthClient()
	if err != nil {
		return err
	}

	if err := client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("erro ao revogar tokens do usuário: %w", err)
	}
	return nil
}

// CheckOrCreateUserInPostgres garante que o usuário autenticado no Firebase
// tem um registro espelho na tabela users. Devolve o ID local.
func CheckOrCreateUserInPostgres(db *sql.DB, token *auth.Token) (int64, error) {
	uid := token.UID
	email, _ := token.Claims["email"].(string)
	displayName, _ := token.Claims["name"].(string)

	var localID int64
	err := db.QueryRow("SELECT id FROM users WHERE firebase_uid = $1", uid).Scan(&localID)

	switch {
	case err == sql.ErrNoRows:
		// Primeiro acesso: cria o registro local
		insertErr := db.QueryRow(
			"INSERT INTO users (firebase_uid, email, display_name, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id",
			uid, email, displayName,
		).Scan(&localID)
		if insertErr != nil {
			return 0, fmt.Errorf("erro ao inserir usuário no DB: %w", insertErr)
		}
		return localID, nil

	case err != nil:
		return 0, fmt.Errorf("erro ao buscar usuário no DB: %w", err)

	default:
		return localID, nil
	}
}
