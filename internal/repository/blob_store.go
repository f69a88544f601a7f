package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// BlobStore es un almacen clave/valor de blobs completos, sin semantica de dominio.
type BlobStore interface {
	// Get devuelve (nil, false, nil) si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type memoryBlobStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryBlobStore guarda los blobs en memoria del proceso.
func NewMemoryBlobStore() BlobStore {
	return &memoryBlobStore{items: make(map[string][]byte)}
}

func (s *memoryBlobStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *memoryBlobStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

// FileBlobStore guarda cada clave como un archivo .json dentro de un directorio de perfil.
type FileBlobStore struct {
	dir string
}

func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("blob store dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create blob store dir: %w", err)
	}
	return &FileBlobStore{dir: dir}, nil
}

func (s *FileBlobStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set escribe en un temporal y renombra para no dejar blobs truncados.
func (s *FileBlobStore) Set(_ context.Context, key string, value []byte) error {
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".blob-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp blob: %w", err)
	}
	return os.Rename(tmp.Name(), target)
}

// path codifica la clave completa en base64url: claves distintas nunca comparten archivo.
func (s *FileBlobStore) path(key string) string {
	return filepath.Join(s.dir, encodeKey(key)+".json")
}

func encodeKey(key string) string {
	if key == "" {
		return "_"
	}
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}
