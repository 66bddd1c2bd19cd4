package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

func TestPrefsRoundTrip(t *testing.T) {
	repo := NewPrefsRepository(t.TempDir())

	saved := &types.Prefs{
		TagFilter:   "kv:org:payments",
		Sort:        "amount_desc",
		AccountSort: "total_desc",
		Search:      "web prod",
	}
	require.NoError(t, repo.Save(saved))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestPrefsLoadMissingFile(t *testing.T) {
	repo := NewPrefsRepository(t.TempDir())

	loaded, err := repo.Load()
	require.NoError(t, err, "a missing prefs file is not an error")
	assert.Equal(t, &types.Prefs{}, loaded)
}

func TestPrefsSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "prefs-home")
	repo := NewPrefsRepository(dir)

	require.NoError(t, repo.Save(&types.Prefs{Sort: "amount_asc"}))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "amount_asc", loaded.Sort)
}
