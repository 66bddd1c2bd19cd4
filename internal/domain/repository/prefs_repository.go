package repository

import (
	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

// PrefsRepository is the persistence collaborator: it stores the user's
// last-selected filter spec, sort keys and search text as opaque strings.
// The canonical tag filter encoding lives in the prefs adapter, not in the
// engine.
type PrefsRepository interface {
	Load() (*types.Prefs, error)
	Save(prefs *types.Prefs) error
}
