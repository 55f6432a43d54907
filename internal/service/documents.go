package service

import (
	"context"
	"encoding/json"
	"fmt"

	"taskboard/internal/docstore"
)

// readDoc читает документ и разбирает его в v. Битый JSON в хранилище —
// это испорченный носитель, поэтому ошибка разбора считается ошибкой
// хранилища, а не вызывающего.
func readDoc(ctx context.Context, store docstore.DocumentStore, userID, resource string, v any) error {
	raw, err := store.Read(ctx, userID, resource)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("разбор документа %s/%s: %w (%w)", userID, resource, err, docstore.ErrStorage)
	}
	return nil
}

func writeDoc(ctx context.Context, store docstore.DocumentStore, userID, resource string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("сериализация документа %s/%s: %w", userID, resource, err)
	}
	return store.Write(ctx, userID, resource, raw)
}
