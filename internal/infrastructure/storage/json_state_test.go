package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"rssDigestBot/internal/domain/entity"
)

func TestJSONState_LoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	repo := NewJSONStateRepository(path)

	ids, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids.Len() != 0 {
		t.Errorf("expected empty set, got %d ids", ids.Len())
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("loading must not create the state file")
	}
}

func TestJSONState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	repo := NewJSONStateRepository(path)
	ctx := context.Background()

	original := entity.NewProcessedIDSet("ccc", "aaa", "bbb")
	if err := repo.Save(ctx, original); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !reflect.DeepEqual(loaded.Sorted(), original.Sorted()) {
		t.Errorf("expected %v, got %v", original.Sorted(), loaded.Sorted())
	}

	if err := repo.Save(ctx, loaded); err != nil {
		t.Fatalf("failed to save again: %v", err)
	}
	reloaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Sorted(), original.Sorted()) {
		t.Errorf("expected %v after second round trip, got %v", original.Sorted(), reloaded.Sorted())
	}
}

func TestJSONState_SavesSortedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	repo := NewJSONStateRepository(path)

	if err := repo.Save(context.Background(), entity.NewProcessedIDSet("b", "c", "a")); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read state file: %v", err)
	}

	var got []string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("state file is not a JSON array of strings: %v", err)
	}
	expected := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestJSONState_SaveEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	repo := NewJSONStateRepository(path)

	if err := repo.Save(context.Background(), entity.NewProcessedIDSet()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read state file: %v", err)
	}

	var got []string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Errorf("expected an empty JSON array, got %s", data)
	}
}

func TestJSONState_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	if err := os.WriteFile(path, []byte(`["old"]`), 0o644); err != nil {
		t.Fatalf("failed to seed state file: %v", err)
	}

	repo := NewJSONStateRepository(path)
	ctx := context.Background()

	ids, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !ids.Has("old") {
		t.Fatal("expected seeded id to be loaded")
	}

	ids.Add("new")
	if err := repo.Save(ctx, ids); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	reloaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Sorted(), entity.NewProcessedIDSet("old", "new").Sorted()) {
		t.Errorf("unexpected ids after overwrite: %v", reloaded.Sorted())
	}
}

func TestJSONState_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"object instead of array", `{"ids": ["a"]}`},
		{"numbers instead of strings", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "posted.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to seed state file: %v", err)
			}

			_, err := NewJSONStateRepository(path).Load(context.Background())
			if err == nil {
				t.Error("expected error for malformed state file, got nil")
			}
		})
	}
}
