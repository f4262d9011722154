// Package matchhistory persists confirmed matches so history survives
// restarts.
package matchhistory

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Repository stores the match history as one JSON array on disk.
type Repository struct {
	path   string
	logger ectologger.Logger
	mu     sync.Mutex
}

// NewRepository creates a history repository under dataDir.
func NewRepository(dataDir string, logger ectologger.Logger) *Repository {
	return &Repository{
		path:   filepath.Join(dataDir, "match_history.json"),
		logger: logger,
	}
}

// Load reads the stored history. A missing file is an empty history.
func (r *Repository) Load(ctx context.Context) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matchhistory.Repository.Load")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	var history []models.MatchResult
	if err := json.Unmarshal(data, &history); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Match history file is malformed, starting empty")
		return nil, nil
	}
	return history, nil
}

// Save overwrites the stored history atomically.
func (r *Repository) Save(ctx context.Context, history []models.MatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "matchhistory.Repository.Save")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if history == nil {
		history = []models.MatchResult{}
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to write match history")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to write match history")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to replace match history")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace match history")
	}

	return nil
}
