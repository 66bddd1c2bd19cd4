package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/repository"
	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

const prefsFileName = "prefs.toml"

// PrefsRepositoryImpl persists user preferences as a small TOML file under
// ~/.cloudspend/.
type PrefsRepositoryImpl struct {
	dir string
}

// NewPrefsRepository creates a prefs repository rooted at the user's home
// directory. An explicit dir overrides it, which the tests use.
func NewPrefsRepository(dir string) repository.PrefsRepository {
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".cloudspend")
		}
	}
	return &PrefsRepositoryImpl{dir: dir}
}

// Load reads the prefs file. A missing file is not an error; it yields the
// zero prefs, which decode to the neutral defaults.
func (r *PrefsRepositoryImpl) Load() (*types.Prefs, error) {
	var prefs types.Prefs
	if r.dir == "" {
		return &prefs, nil
	}

	data, err := os.ReadFile(filepath.Join(r.dir, prefsFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &prefs, nil
		}
		return nil, fmt.Errorf("error reading prefs file: %w", err)
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("error parsing prefs file: %w", err)
	}
	return &prefs, nil
}

// Save writes the prefs file, creating the directory on first use.
func (r *PrefsRepositoryImpl) Save(prefs *types.Prefs) error {
	if r.dir == "" || prefs == nil {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("error creating prefs directory: %w", err)
	}
	data, err := toml.Marshal(*prefs)
	if err != nil {
		return fmt.Errorf("error encoding prefs: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, prefsFileName), data, 0o644); err != nil {
		return fmt.Errorf("error writing prefs file: %w", err)
	}
	return nil
}
