// Package webhookconfig reads and writes the webhook delivery
// configuration file.
package webhookconfig

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/webhook"
)

// Repository persists the webhook config as a JSON file. An unreadable
// or missing file yields the disabled defaults rather than an error, a
// broken config must never take form intake down.
type Repository struct {
	path   string
	logger ectologger.Logger
	mu     sync.Mutex
}

// NewRepository creates a config repository for the given file path.
func NewRepository(path string, logger ectologger.Logger) *Repository {
	return &Repository{path: path, logger: logger}
}

// Load reads the current config, falling back to defaults.
func (r *Repository) Load() webhook.Config {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.WithError(err).WithFields(map[string]any{
			"path": r.path,
		}).Debug("Webhook config not readable, using defaults")
		return webhook.DefaultConfig()
	}

	cfg := webhook.DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		r.logger.WithError(err).Error("Webhook config is malformed, using defaults")
		return webhook.DefaultConfig()
	}
	return cfg
}

// Save writes the config atomically (temp file plus rename).
func (r *Repository) Save(ctx context.Context, cfg webhook.Config) error {
	ctx, span := tracing.StartSpan(ctx, "webhookconfig.Repository.Save")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to write webhook config")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to write webhook config")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to replace webhook config")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace webhook config")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"path":    r.path,
		"enabled": cfg.Enabled,
	}).Info("Webhook config updated")

	return nil
}
