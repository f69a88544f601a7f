package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"mood-tracker/internal/domain"
)

func TestFileBlobStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileBlobStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, ok, err := store.Get(ctx, "moodEntries"); ok || err != nil {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "moodEntries:u/1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := store.Get(ctx, "moodEntries:u/1")
	if err != nil || !ok || string(data) != `{"a":1}` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", data, ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, encodeKey("moodEntries:u/1")+".json")); err != nil {
		t.Fatalf("expected encoded file name: %v", err)
	}
}

func TestFileBlobStore_SimilarScopesStayIsolated(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	repo := NewLocalEntryRepository(store)

	if err := repo.Save(ctx, "alice:x", domain.DailyEntry{Date: "2024-01-01"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, other := range []string{"alice_x", "alice/x", "alice-x"} {
		all, err := repo.List(ctx, other)
		if err != nil {
			t.Fatalf("list %s: %v", other, err)
		}
		if len(all) != 0 {
			t.Fatalf("scope %q sees %d entries saved under alice:x", other, len(all))
		}
	}
	all, err := repo.List(ctx, "alice:x")
	if err != nil || len(all) != 1 {
		t.Fatalf("expected owner to see its entry, got %d err=%v", len(all), err)
	}
}

func TestNewFileBlobStore_RequiresDir(t *testing.T) {
	if _, err := NewFileBlobStore("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestMemoryBlobStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBlobStore()
	value := []byte("abc")
	_ = store.Set(ctx, "k", value)
	value[0] = 'x'

	got, _, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("expected stored copy, got %q", got)
	}
}

type mockRedisKV struct {
	data    map[string]string
	getErr  error
	lastTTL time.Duration
}

func (m *mockRedisKV) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastTTL = expiration
	if b, ok := value.([]byte); ok {
		m.data[key] = string(b)
	}
	cmd := redis.NewStatusCmd(ctx, "set", key)
	cmd.SetVal("OK")
	return cmd
}

func TestRedisBlobStore_GetSet(t *testing.T) {
	ctx := context.Background()
	kv := &mockRedisKV{data: map[string]string{}}
	store := &redisBlobStore{client: kv, prefix: "mood:blob:", timeout: time.Second}

	if _, ok, err := store.Get(ctx, "moodEntries"); ok || err != nil {
		t.Fatalf("expected redis.Nil as missing, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "moodEntries", []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := kv.data["mood:blob:moodEntries"]; !ok {
		t.Fatalf("expected prefixed key")
	}
	if kv.lastTTL != 0 {
		t.Fatalf("expected no expiration, got %v", kv.lastTTL)
	}
	data, ok, err := store.Get(ctx, "moodEntries")
	if err != nil || !ok || string(data) != `{}` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", data, ok, err)
	}
}

func TestRedisBlobStore_PropagatesErrors(t *testing.T) {
	kv := &mockRedisKV{data: map[string]string{}, getErr: errors.New("connection reset")}
	store := &redisBlobStore{client: kv, prefix: "mood:blob:", timeout: time.Second}

	if _, _, err := store.Get(context.Background(), "moodEntries"); err == nil {
		t.Fatalf("expected error")
	}
}
