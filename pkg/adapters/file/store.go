package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aretw0/ballpark/pkg/domain"
)

// DefaultDir is where games are kept when no directory is configured.
var DefaultDir = filepath.Join(".ballpark", "games")

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store implements ports.GameStore on the local filesystem, one JSON file per game.
// Concurrent writers to the same game must be serialized by the caller.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath, or DefaultDir when empty.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(gameID string) (string, error) {
	if !validID.MatchString(gameID) {
		return "", fmt.Errorf("invalid game id %q", gameID)
	}
	return filepath.Join(s.BasePath, gameID+".json"), nil
}

// Save writes the state atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	destPath, err := s.path(gameID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure game directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+gameID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to replace game file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to move game file into place: %w", err)
	}
	return nil
}

// Load reads a game file.
func (s *Store) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	filePath, err := s.path(gameID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to read game file: %w", err)
	}

	var state domain.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameID, err)
	}
	return &state, nil
}

// Delete removes the game file.
func (s *Store) Delete(ctx context.Context, gameID string) error {
	filePath, err := s.path(gameID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete game file: %w", err)
	}
	return nil
}

// List returns the IDs of all game files.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	games := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		games = append(games, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(games)
	return games, nil
}
