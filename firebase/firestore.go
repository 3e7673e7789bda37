package firebase

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/iterator"

	"gestor-tarefas/models"
)

// O espelho de tarefas vive em usuarios/{firebase_uid}/tarefas/{id}. Os
// clientes assinam essa coleção para receber mudanças em tempo real; o
// PostgreSQL continua sendo a fonte de verdade.
const (
	usersCollection = "usuarios"
	tasksCollection = "tarefas"
)

// SyncTaskSnapshot grava o estado atual da tarefa no espelho do Firestore.
func SyncTaskSnapshot(ctx context.Context, ownerUID string, task models.Tarefa) error {
	client, err := GetFirestoreClient()
	if err != nil {
		return err
	}

	doc := client.Collection(usersCollection).Doc(ownerUID).
		Collection(tasksCollection).Doc(strconv.FormatInt(task.ID, 10))

	data := map[string]interface{}{
		"title":      task.Title,
		"priority":   task.Priority,
		"status":     task.Status,
		"updated_at": task.UpdatedAt,
	}
	if task.Expiration != nil {
		data["expiration"] = *task.Expiration
	}
	if task.Category != nil {
		data["category"] = task.Category.Name
		data["category_color"] = task.Category.Color
	}

	if _, err := doc.Set(ctx, data); err != nil {
		return fmt.Errorf("erro ao espelhar tarefa %d no Firestore: %w", task.ID, err)
	}
	return nil
}

// RemoveTaskSnapshot apaga a tarefa do espelho.
func RemoveTaskSnapshot(ctx context.Context, ownerUID string, taskID int64) error {
	client, err := GetFirestoreClient()
	if err != nil {
		return err
	}

	doc := client.Collection(usersCollection).Doc(ownerUID).
		Collection(tasksCollection).Doc(strconv.FormatInt(taskID, 10))
	if _, err := doc.Delete(ctx); err != nil {
		return fmt.Errorf("erro ao remover tarefa %d do Firestore: %w", taskID, err)
	}
	return nil
}

// PurgeUserSnapshots apaga o documento do usuário e toda a subcoleção de
// tarefas espelhadas. O Firestore não remove subcoleções junto com o
// documento pai, então os documentos são apagados em batches de até 500.
func PurgeUserSnapshots(ctx context.Context, ownerUID string) error {
	client, err := GetFirestoreClient()
	if err != nil {
		return err
	}

	userRef := client.Collection(usersCollection).Doc(ownerUID)
	tasksRef := userRef.Collection(tasksCollection)
	const batchSize = 500

	for {
		iter := tasksRef.Limit(batchSize).Documents(ctx)
		batch := client.Batch()
		numDeleted := 0

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("erro ao iterar tarefas espelhadas do usuário %s: %w", ownerUID, err)
			}
			batch.Delete(doc.Ref)
			numDeleted++
		}

		if numDeleted == 0 {
			break
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("erro ao apagar batch de tarefas espelhadas do usuário %s: %w", ownerUID, err)
		}
	}

	if _, err := userRef.Delete(ctx); err != nil {
		return fmt.Errorf("erro ao apagar documento do usuário %s no Firestore: %w", ownerUID, err)
	}
	return nil
}
