// Postgres-бэкенд хранилища документов: таблица documents с jsonb-колонкой,
// ключ (user_id, resource), запись через upsert. Выбирается конфигом
// storage.type: postgres.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/docstore"
	"taskboard/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w (%w)", err, docstore.ErrStorage)
	}

	if err := applyMigrations(connString); err != nil {
		logger.Error("Repository: Ошибка применения миграций", err)
		return nil, fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w (%w)", err, docstore.ErrStorage)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, userID, resource string) (json.RawMessage, error) {
	start := time.Now()

	query := `SELECT doc FROM documents
				WHERE user_id = $1 AND resource = $2`

	var doc json.RawMessage
	err := s.pool.QueryRow(ctx, query, userID, resource).Scan(&doc)
	if err != nil {
		if err == pgx.ErrNoRows {
			// create-on-read: отсутствие строки — не ошибка
			return docstore.Default(resource), nil
		}
		logger.Error("Repository: Ошибка чтения документа", err,
			zap.String("user_id", userID),
			zap.String("resource", resource),
			zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("чтение документа %s/%s: %w (%w)", userID, resource, err, docstore.ErrStorage)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return doc, nil
}

func (s *Store) Write(ctx context.Context, userID, resource string, doc json.RawMessage) error {
	start := time.Now()

	query := `INSERT INTO documents (user_id, resource, doc, updated_at)
				VALUES ($1, $2, $3, NOW())
			ON CONFLICT (user_id, resource)
				DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query, userID, resource, doc)
	if err != nil {
		logger.Error("Repository: Ошибка записи документа", err,
			zap.String("user_id", userID),
			zap.String("resource", resource),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("запись документа %s/%s: %w (%w)", userID, resource, err, docstore.ErrStorage)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}
