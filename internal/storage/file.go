package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

// FileStore implements Store on the local filesystem for single-machine
// runs: one snapshot JSON document plus a JSONL chronicle and its
// human-readable twin.
type FileStore struct {
	dir    string
	name   string
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the data directory if needed.
func NewFileStore(dataDir, worldName string, logger *slog.Logger) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{dir: dataDir, name: worldName, logger: logger}, nil
}

func (f *FileStore) snapshotPath() string {
	return filepath.Join(f.dir, f.name+".snapshot.json")
}

func (f *FileStore) chroniclePath() string {
	return filepath.Join(f.dir, f.name+".chronicle.jsonl")
}

func (f *FileStore) readablePath() string {
	return filepath.Join(f.dir, f.name+".chronicle.log")
}

func (f *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.dir); err != nil {
		return fmt.Errorf("data dir unavailable: %w", err)
	}
	return nil
}

// SaveSnapshot writes atomically: temp file then rename, so a crash
// mid-write never corrupts the previous snapshot.
func (f *FileStore) SaveSnapshot(ctx context.Context, s *world.Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmp := f.snapshotPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.snapshotPath()); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func (f *FileStore) LoadSnapshot(ctx context.Context) (*world.Snapshot, error) {
	data, err := os.ReadFile(f.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Info("No snapshot found, starting fresh", "world", f.name)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var s world.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}

func (f *FileStore) AppendChronicle(ctx context.Context, e event.ChronicleEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal chronicle entry: %w", err)
	}
	if err := appendLine(f.chroniclePath(), string(data)); err != nil {
		return fmt.Errorf("failed to append chronicle entry: %w", err)
	}
	if err := appendLine(f.readablePath(), e.String()); err != nil {
		return fmt.Errorf("failed to append readable chronicle entry: %w", err)
	}
	return nil
}

func (f *FileStore) TailChronicle(ctx context.Context, limit int) ([]event.ChronicleEntry, error) {
	file, err := os.Open(f.chroniclePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open chronicle: %w", err)
	}
	defer file.Close()

	var entries []event.ChronicleEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e event.ChronicleEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			f.logger.Warn("Skipping unreadable chronicle line", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan chronicle: %w", err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func (f *FileStore) Close() error { return nil }

func appendLine(path, line string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.WriteString(line + "\n")
	return err
}
