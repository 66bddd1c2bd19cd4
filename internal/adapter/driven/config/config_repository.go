package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/repository"
	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

// ConfigRepositoryImpl implements ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository creates a new ConfigRepository implementation.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile loads a TOML, YAML or JSON configuration file.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

func parseMonth(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if m, ok := monthNames[name]; ok {
		return m, true
	}
	if len(name) > 3 {
		if m, ok := monthNames[name[:3]]; ok {
			return m, true
		}
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= 12 {
		return n, true
	}
	return 0, false
}

// ConvertBudgetEntries turns configured budget entries into budget rows.
// Month keys may be numbers ("1".."12") or names ("jan", "august");
// unparseable keys and negative amounts are skipped.
func ConvertBudgetEntries(entries []types.BudgetEntry) []entity.AccountBudgetRow {
	rows := make([]entity.AccountBudgetRow, 0, len(entries))
	for _, e := range entries {
		provider := strings.ToLower(strings.TrimSpace(e.Provider))
		row := entity.AccountBudgetRow{
			ScopeID:   entity.ScopeID(provider, e.AccountID),
			Provider:  provider,
			AccountID: e.AccountID,
			Currency:  entity.NormalizeCurrency(e.Currency),
		}
		for name, amount := range e.Months {
			m, ok := parseMonth(name)
			if !ok || amount < 0 {
				continue
			}
			v := amount
			row.Months[m-1] = &v
		}
		rows = append(rows, row)
	}
	return rows
}
