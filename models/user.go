package models

import (
	"database/sql"
	"time"
)

type Usuario struct {
	ID          int64     `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetUserByFirebaseUID busca o registro local do usuário pelo UID do Firebase.
func GetUserByFirebaseUID(db *sql.DB, firebaseUID string) (*Usuario, error) {
	var u Usuario
	err := db.QueryRow(`
		SELECT id, firebase_uid, email, display_name, created_at
		FROM users
		WHERE firebase_uid = $1
	`, firebaseUID).Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
