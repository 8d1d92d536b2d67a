package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"crawshaw.dev/jsonfile"

	"rssDigestBot/internal/domain/entity"
	"rssDigestBot/internal/domain/repository"
)

// jsonState keeps the processed identifiers as a sorted JSON array of strings.
type jsonState struct {
	path string
}

func NewJSONStateRepository(path string) repository.StateRepository {
	return &jsonState{path: path}
}

func (s *jsonState) Load(ctx context.Context) (*entity.ProcessedIDSet, error) {
	f, err := jsonfile.Load[[]string](s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.NewProcessedIDSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state file %s: %w", s.path, err)
	}

	var ids []string
	f.Read(func(data *[]string) {
		ids = append(ids, (*data)...)
	})

	return entity.NewProcessedIDSet(ids...), nil
}

func (s *jsonState) Save(ctx context.Context, ids *entity.ProcessedIDSet) error {
	f, err := jsonfile.Load[[]string](s.path)
	if errors.Is(err, fs.ErrNotExist) {
		f, err = jsonfile.New[[]string](s.path)
	}
	if err != nil {
		return fmt.Errorf("failed to open state file %s: %w", s.path, err)
	}

	if err := f.Write(func(data *[]string) error {
		*data = ids.Sorted()
		return nil
	}); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", s.path, err)
	}

	return nil
}
