package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore хранит токен в файле <dir>/<namespace>.token с правами 0600.
// Аналог одного ключа localStorage для консольного клиента.
type FileStore struct {
	path string
}

// NewFileStore создаёт файловое хранилище. Если path пуст, используется
// каталог конфигурации пользователя (os.UserConfigDir).
func NewFileStore(path, namespace string) (*FileStore, error) {
	const op = "tokenstore.NewFileStore"
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		path = filepath.Join(dir, namespace, namespace+".token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &FileStore{path: path}, nil
}

// Get возвращает сохранённый токен или ErrNotFound, если файла нет
// либо он пуст.
func (s *FileStore) Get(_ context.Context) (string, error) {
	const op = "tokenstore.FileStore.Get"
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// Set записывает токен атомарно: сначала во временный файл,
// затем rename поверх целевого.
func (s *FileStore) Set(_ context.Context, token string) error {
	const op = "tokenstore.FileStore.Set"
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет файл токена. Отсутствие файла не считается ошибкой.
func (s *FileStore) Delete(_ context.Context) error {
	const op = "tokenstore.FileStore.Delete"
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
