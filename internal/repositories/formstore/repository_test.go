package formstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(t.TempDir(), ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	require.NoError(t, repo.EnsureDirs())
	return repo
}

// setClock makes successive saves land on distinct filename timestamps.
func setClock(repo *Repository, start time.Time) {
	current := start
	repo.now = func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestRepository_SaveAndLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("save writes a JSON file named by email", func(t *testing.T) {
		repo := testRepository(t)
		path, err := repo.Save(ctx, FactFind, "John.Smith@Example.com", map[string]any{"f219": "john.smith@example.com"})
		require.NoError(t, err)

		assert.Contains(t, filepath.Base(path), "john_smith_at_example_com_")
		assert.FileExists(t, path)
	})

	t.Run("missing email stores under unknown", func(t *testing.T) {
		repo := testRepository(t)
		path, err := repo.Save(ctx, AutomationForm, "", map[string]any{})
		require.NoError(t, err)
		assert.Contains(t, filepath.Base(path), "unknown_")
	})

	t.Run("latest by email picks the newest file", func(t *testing.T) {
		repo := testRepository(t)
		setClock(repo, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))

		_, err := repo.Save(ctx, FactFind, "john@example.com", map[string]any{"version": "old"})
		require.NoError(t, err)
		_, err = repo.Save(ctx, FactFind, "john@example.com", map[string]any{"version": "new"})
		require.NoError(t, err)

		raw, err := repo.LatestByEmail(ctx, FactFind, "john@example.com")
		require.NoError(t, err)
		require.NotNil(t, raw)
		assert.Equal(t, "new", raw["version"])
	})

	t.Run("no stored form yields nil without error", func(t *testing.T) {
		repo := testRepository(t)
		raw, err := repo.LatestByEmail(ctx, FactFind, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("form types store separately", func(t *testing.T) {
		repo := testRepository(t)
		_, err := repo.Save(ctx, FactFind, "john@example.com", map[string]any{"type": "ff"})
		require.NoError(t, err)

		raw, err := repo.LatestByEmail(ctx, AutomationForm, "john@example.com")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})
}

func TestRepository_LoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("loads every stored form oldest first", func(t *testing.T) {
		repo := testRepository(t)
		setClock(repo, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))

		_, err := repo.Save(ctx, FactFind, "alice@example.com", map[string]any{"who": "alice"})
		require.NoError(t, err)
		_, err = repo.Save(ctx, FactFind, "bob@example.com", map[string]any{"who": "bob"})
		require.NoError(t, err)

		forms, err := repo.LoadAll(ctx, FactFind)
		require.NoError(t, err)
		require.Len(t, forms, 2)
		assert.Equal(t, "alice_at_example_com", forms[0].Email)
		assert.Equal(t, "alice", forms[0].Raw["who"])
		assert.Equal(t, "bob_at_example_com", forms[1].Email)
	})

	t.Run("corrupt files are skipped", func(t *testing.T) {
		repo := testRepository(t)
		_, err := repo.Save(ctx, FactFind, "good@example.com", map[string]any{"ok": true})
		require.NoError(t, err)

		bad := filepath.Join(repo.root, FactFind.dir(), "bad_at_example_com_20250101_000000.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))

		forms, err := repo.LoadAll(ctx, FactFind)
		require.NoError(t, err)
		require.Len(t, forms, 1)
		assert.Equal(t, "good_at_example_com", forms[0].Email)
	})

	t.Run("empty store", func(t *testing.T) {
		repo := testRepository(t)
		forms, err := repo.LoadAll(ctx, AutomationForm)
		require.NoError(t, err)
		assert.Empty(t, forms)
	})
}

func TestEmailFromFilename(t *testing.T) {
	assert.Equal(t, "john_at_example_com", emailFromFilename("/data/forms/fact_finds/john_at_example_com_20250115_103000.json"))
	assert.Equal(t, "unknown", emailFromFilename("unknown_20250115_103000.json"))
	assert.Equal(t, "short", emailFromFilename("short.json"))
}
