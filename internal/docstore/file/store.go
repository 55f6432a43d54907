// Файловое хранилище документов: <dir>/<userID>/<resource>.json.
// Запись атомарна — временный файл рядом, fsync, rename. Писатели одного
// ключа (userID, resource) сериализуются мьютексом.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"taskboard/internal/docstore"
	"taskboard/internal/logger"

	"go.uber.org/zap"
)

const (
	dataDirPerm  os.FileMode = 0o700
	dataFilePerm os.FileMode = 0o600
)

type Store struct {
	dir string

	mtx   sync.Mutex // защищает locks
	locks map[string]*sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("создание каталога данных %s: %w (%w)", dir, err, docstore.ErrStorage)
	}
	logger.Info("Repository: Файловое хранилище готово", zap.String("dir", dir))
	return &Store{
		dir:   dir,
		locks: map[string]*sync.Mutex{},
	}, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("каталог данных недоступен: %w (%w)", err, docstore.ErrStorage)
	}
	return nil
}

func (s *Store) Close() {}

func (s *Store) Read(ctx context.Context, userID, resource string) (json.RawMessage, error) {
	if err := validateKey(userID, resource); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(userID, resource))
	if err != nil {
		if os.IsNotExist(err) {
			// create-on-read: отсутствие файла — не ошибка
			return docstore.Default(resource), nil
		}
		logger.Error("Repository: Ошибка чтения документа", err,
			zap.String("user_id", userID),
			zap.String("resource", resource))
		return nil, fmt.Errorf("чтение документа %s/%s: %w (%w)", userID, resource, err, docstore.ErrStorage)
	}

	return json.RawMessage(data), nil
}

func (s *Store) Write(ctx context.Context, userID, resource string, doc json.RawMessage) error {
	if err := validateKey(userID, resource); err != nil {
		return err
	}

	lock := s.keyLock(userID, resource)
	lock.Lock()
	defer lock.Unlock()

	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, dataDirPerm); err != nil {
		return fmt.Errorf("создание каталога пользователя %s: %w (%w)", userID, err, docstore.ErrStorage)
	}

	if err := writeFileAtomic(s.path(userID, resource), doc, dataFilePerm); err != nil {
		logger.Error("Repository: Ошибка записи документа", err,
			zap.String("user_id", userID),
			zap.String("resource", resource))
		return fmt.Errorf("запись документа %s/%s: %w (%w)", userID, resource, err, docstore.ErrStorage)
	}
	return nil
}

func (s *Store) path(userID, resource string) string {
	return filepath.Join(s.dir, userID, resource+".json")
}

func (s *Store) keyLock(userID, resource string) *sync.Mutex {
	key := userID + "/" + resource
	s.mtx.Lock()
	defer s.mtx.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// validateKey не пускает идентификаторы, способные выйти из каталога данных.
func validateKey(userID, resource string) error {
	for _, part := range []string{userID, resource} {
		if part == "" ||
			strings.ContainsAny(part, `/\`) ||
			strings.Contains(part, "..") {
			return fmt.Errorf("недопустимый ключ документа %q/%q", userID, resource)
		}
	}
	return nil
}

// writeFileAtomic пишет данные во временный файл в том же каталоге,
// синхронизирует и переименовывает поверх целевого.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("создание временного файла в %s: %w", dir, err)
	}

	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("запись %s: %w", tmpPath, err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync %s: %w", tmpPath, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("закрытие %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("переименование %s -> %s: %w", tmpPath, path, err)
	}
	return nil
}
