package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sasangkyoo/slap/models"
)

// Artifact filenames inside a run directory.
const (
	resultFile     = "result.json"
	networkLogFile = "network_log.json"
	rawHTMLFile    = "t0_raw.html"
	hydratedFile   = "t1_hydrated.html"
	scrolledFile   = "t2_scrolled.html"
)

// Store combines the SQLite run index with per-run artifact directories
// under a data root.
type Store struct {
	dataDir string
	index   *Index
}

// NewStore creates the data directory and opens the run index. An empty
// dbPath disables the index; listing then returns empty results.
func NewStore(dataDir, dbPath string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	var index *Index
	if dbPath != "" {
		var err error
		index, err = NewIndex(dbPath)
		if err != nil {
			return nil, err
		}
	}

	return &Store{dataDir: dataDir, index: index}, nil
}

// NewRunID generates a unique run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun persists the run: the result JSON always, raw captures only
// when saveArtifacts is set, and an index row when the index is enabled.
func (s *Store) SaveRun(resp *models.InspectResponse, ev *models.Evidence, saveArtifacts bool) error {
	runDir := filepath.Join(s.dataDir, resp.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return models.NewInspectError(models.ErrCodeStorage, "failed to create run dir", err)
	}

	if err := writeJSON(filepath.Join(runDir, resultFile), resp); err != nil {
		return models.NewInspectError(models.ErrCodeStorage, "failed to write result", err)
	}

	if saveArtifacts && ev != nil {
		if err := writeJSON(filepath.Join(runDir, networkLogFile), ev.NetworkLog); err != nil {
			return models.NewInspectError(models.ErrCodeStorage, "failed to write network log", err)
		}
		snapshots := map[string]string{
			rawHTMLFile:  ev.RawHTML,
			hydratedFile: ev.T1.HTML,
			scrolledFile: ev.T2.HTML,
		}
		for name, html := range snapshots {
			if html == "" {
				continue
			}
			if err := os.WriteFile(filepath.Join(runDir, name), []byte(html), 0o644); err != nil {
				return models.NewInspectError(models.ErrCodeStorage, "failed to write snapshot", err)
			}
		}
	}

	if s.index != nil {
		createdAt := time.Now().UTC()
		if ev != nil && !ev.CapturedAt.IsZero() {
			createdAt = ev.CapturedAt
		}
		if err := s.index.InsertRun(resp, createdAt); err != nil {
			return models.NewInspectError(models.ErrCodeStorage, "failed to index run", err)
		}
	}

	return nil
}

// LoadResult reads the persisted result JSON for a run. Returns a
// RUN_NOT_FOUND error when the run does not exist.
func (s *Store) LoadResult(runID string) (*models.InspectResponse, error) {
	// uuid.Validate rejects path-traversal garbage along with everything
	// else that is not a run ID.
	if err := uuid.Validate(runID); err != nil {
		return nil, models.NewInspectError(models.ErrCodeNotFound, "no such run", err)
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, runID, resultFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewInspectError(models.ErrCodeNotFound, "no such run", err)
		}
		return nil, models.NewInspectError(models.ErrCodeStorage, "failed to read result", err)
	}

	var resp models.InspectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, models.NewInspectError(models.ErrCodeStorage, "failed to decode result", err)
	}
	return &resp, nil
}

// ListRuns returns the most recent runs from the index, newest first.
func (s *Store) ListRuns(limit int) ([]models.RunSummary, error) {
	if s.index == nil {
		return []models.RunSummary{}, nil
	}
	return s.index.ListRuns(limit)
}

// Close releases the index database.
func (s *Store) Close() error {
	if s.index == nil {
		return nil
	}
	return s.index.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
