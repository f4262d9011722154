package webhookconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/webhook"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config", "zapier_config.json")
	return NewRepository(path, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func TestRepository_Load(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		repo := testRepository(t)
		cfg := repo.Load()
		assert.False(t, cfg.Enabled)
		assert.Equal(t, 3, cfg.RetryAttempts)
	})

	t.Run("malformed file yields defaults", func(t *testing.T) {
		repo := testRepository(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(repo.path), 0o755))
		require.NoError(t, os.WriteFile(repo.path, []byte("{broken"), 0o644))

		cfg := repo.Load()
		assert.False(t, cfg.Enabled)
	})

	t.Run("partial file keeps defaults for missing fields", func(t *testing.T) {
		repo := testRepository(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(repo.path), 0o755))
		require.NoError(t, os.WriteFile(repo.path, []byte(`{"enabled": true, "zapier_webhook_url": "https://hooks.zapier.com/x"}`), 0o644))

		cfg := repo.Load()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, "https://hooks.zapier.com/x", cfg.WebhookURL)
		assert.Equal(t, 3, cfg.RetryAttempts)
		assert.Equal(t, 30, cfg.TimeoutSeconds)
	})
}

func TestRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		repo := testRepository(t)

		cfg := webhook.DefaultConfig()
		cfg.Enabled = true
		cfg.WebhookURL = "https://hooks.zapier.com/hooks/catch/123/abc"
		cfg.RetryAttempts = 5
		require.NoError(t, repo.Save(ctx, cfg))

		loaded := repo.Load()
		assert.Equal(t, cfg, loaded)
	})

	t.Run("save leaves no temp file behind", func(t *testing.T) {
		repo := testRepository(t)
		require.NoError(t, repo.Save(ctx, webhook.DefaultConfig()))

		assert.NoFileExists(t, repo.path+".tmp")
		assert.FileExists(t, repo.path)
	})
}
