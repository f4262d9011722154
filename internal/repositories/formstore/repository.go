// Package formstore persists raw form submissions as JSON documents on
// disk. One file per submission, named by sanitized email and receipt
// timestamp, so the newest file per client is always discoverable by
// filename alone.
package formstore

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/normalizers"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// FormType selects the storage directory for a submission.
type FormType string

const (
	FactFind       FormType = "fact_find"
	AutomationForm FormType = "automation_form"
)

const filenameTimestamp = "20060102_150405"

func (t FormType) dir() string {
	if t == AutomationForm {
		return "automation_forms"
	}
	return "fact_finds"
}

// StoredForm is a submission read back from disk.
type StoredForm struct {
	Path  string
	Email string
	Raw   map[string]any
}

// Repository stores and retrieves raw form submissions.
type Repository struct {
	root   string
	logger ectologger.Logger
	now    func() time.Time
}

// NewRepository creates a form store rooted at dataDir (forms live under
// dataDir/forms/).
func NewRepository(dataDir string, logger ectologger.Logger) *Repository {
	return &Repository{
		root:   filepath.Join(dataDir, "forms"),
		logger: logger,
		now:    time.Now,
	}
}

// EnsureDirs creates the storage directories.
func (r *Repository) EnsureDirs() error {
	for _, t := range []FormType{FactFind, AutomationForm} {
		if err := os.MkdirAll(filepath.Join(r.root, t.dir()), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Save writes a raw submission to disk and returns the file path.
// A missing or empty email stores under "unknown".
func (r *Repository) Save(ctx context.Context, formType FormType, email string, raw map[string]any) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "formstore.Repository.Save")
	defer span.End()

	name := sanitizeEmail(email) + "_" + r.now().Format(filenameTimestamp) + ".json"
	path := filepath.Join(r.root, formType.dir(), name)

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", httperror.WrapError(http.StatusInternalServerError, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"path": path,
		}).Error("Failed to save form submission")
		return "", httperror.NewHTTPError(http.StatusInternalServerError, "failed to save form submission")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"form_type": string(formType),
		"path":      path,
	}).Debug("Saved form submission")

	return path, nil
}

// LatestByEmail loads the newest stored submission for an email, picked
// by the filename timestamp. Returns nil when none exists.
func (r *Repository) LatestByEmail(ctx context.Context, formType FormType, email string) (map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "formstore.Repository.LatestByEmail")
	defer span.End()

	pattern := filepath.Join(r.root, formType.dir(), sanitizeEmail(email)+"_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return r.readForm(ctx, files[0])
}

// LoadAll reads every stored submission of a type, oldest first.
func (r *Repository) LoadAll(ctx context.Context, formType FormType) ([]StoredForm, error) {
	ctx, span := tracing.StartSpan(ctx, "formstore.Repository.LoadAll")
	defer span.End()

	files, err := filepath.Glob(filepath.Join(r.root, formType.dir(), "*.json"))
	if err != nil {
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}
	sort.Strings(files)

	forms := make([]StoredForm, 0, len(files))
	for _, path := range files {
		raw, err := r.readForm(ctx, path)
		if err != nil {
			// One corrupt file never blocks the rest of the reload.
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"path": path,
			}).Error("Skipping unreadable form file")
			continue
		}
		forms = append(forms, StoredForm{
			Path:  path,
			Email: emailFromFilename(path),
			Raw:   raw,
		})
	}
	return forms, nil
}

func (r *Repository) readForm(_ context.Context, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}
	return raw, nil
}

func sanitizeEmail(email string) string {
	s := normalizers.FilenameEmail(email)
	if s == "" {
		return "unknown"
	}
	return s
}

// emailFromFilename strips the trailing timestamp from a stored form
// filename, leaving the sanitized email.
func emailFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return name
	}
	return strings.Join(parts[:len(parts)-2], "_")
}
