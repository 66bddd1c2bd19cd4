package filesource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

// document is the on-disk shape of a provider billing dump. One file holds
// one provider/account export; lines carry their own coverage dates so a
// single file can span several periods.
type document struct {
	Provider    string                       `json:"provider"`
	AccountID   string                       `json:"account_id"`
	AccountName string                       `json:"account_name"`
	Lines       []entity.BillingDetailLine   `json:"lines"`
	Summaries   []summaryDoc                 `json:"summaries"`
	Budgets     []budgetDoc                  `json:"budgets"`
	Resources   map[string]map[string]string `json:"resources"`
}

type summaryDoc struct {
	Provider      string  `json:"provider"`
	ResourceType  string  `json:"resource_type"`
	Currency      string  `json:"currency"`
	TotalAmount   float64 `json:"total_amount"`
	SharePercent  float64 `json:"share_percent"`
	SnapshotCount int     `json:"snapshot_count"`
	Period        string  `json:"period"` // "2026-08"
}

type budgetDoc struct {
	Currency string               `json:"currency"`
	Year     int                  `json:"year"`
	Months   map[string]*float64  `json:"months"` // "1".."12"
}

// FileSourceRepository serves billing data from local JSON dumps. Each
// source file acts as one profile, named after its base name.
type FileSourceRepository struct {
	paths map[string]string
	cache map[string]*document
	mu    sync.Mutex
}

// NewFileSourceRepository registers the given dump files. Files are read
// lazily, on first use of their profile.
func NewFileSourceRepository(paths []string) *FileSourceRepository {
	r := &FileSourceRepository{
		paths: make(map[string]string, len(paths)),
		cache: make(map[string]*document),
	}
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		r.paths[name] = p
	}
	return r
}

func (r *FileSourceRepository) load(profile string) (*document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.cache[profile]; ok {
		return doc, nil
	}
	path, ok := r.paths[profile]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", profile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse source file %s: %w", path, err)
	}
	if doc.Provider == "" {
		doc.Provider = "file"
	}

	r.cache[profile] = &doc
	return &doc, nil
}

// GetProfiles lists the registered source names, sorted.
func (r *FileSourceRepository) GetProfiles() []string {
	names := make([]string, 0, len(r.paths))
	for name := range r.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *FileSourceRepository) GetAccountID(ctx context.Context, profile string) (string, error) {
	doc, err := r.load(profile)
	if err != nil {
		return "", err
	}
	return doc.AccountID, nil
}

func (r *FileSourceRepository) GetAccountNames(ctx context.Context, profile string) (map[string]string, error) {
	doc, err := r.load(profile)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, 1)
	if doc.AccountID != "" {
		name := doc.AccountName
		if name == "" {
			name = profile
		}
		names[doc.AccountID] = name
	}
	return names, nil
}

// GetBillingPeriod selects the dump's lines and summaries whose coverage
// falls in the requested month.
func (r *FileSourceRepository) GetBillingPeriod(ctx context.Context, profile string, year int, month int) (entity.BillingPeriodData, error) {
	doc, err := r.load(profile)
	if err != nil {
		return entity.BillingPeriodData{}, err
	}

	prefix := fmt.Sprintf("%04d-%02d", year, month)

	var lines []entity.BillingDetailLine
	for _, l := range doc.Lines {
		if l.CoverageStart != "" && !strings.HasPrefix(l.CoverageStart, prefix) {
			continue
		}
		if l.Provider == "" {
			l.Provider = doc.Provider
		}
		if l.AccountID == "" {
			l.AccountID = doc.AccountID
		}
		lines = append(lines, l)
	}

	var summaries []entity.SummaryRow
	for _, s := range doc.Summaries {
		if s.Period != "" && s.Period != prefix {
			continue
		}
		provider := s.Provider
		if provider == "" {
			provider = doc.Provider
		}
		summaries = append(summaries, entity.SummaryRow{
			Provider:      provider,
			ResourceType:  s.ResourceType,
			Currency:      s.Currency,
			TotalAmount:   s.TotalAmount,
			SharePercent:  s.SharePercent,
			SnapshotCount: s.SnapshotCount,
		})
	}

	if len(lines) == 0 && len(summaries) == 0 {
		return entity.BillingPeriodData{}, fmt.Errorf("%w: %s has nothing for %s", types.ErrNoBillingData, profile, prefix)
	}

	return entity.BillingPeriodData{
		Lines:       lines,
		Summaries:   summaries,
		PeriodStart: prefix + "-01",
		PeriodEnd:   prefix + "-28",
	}, nil
}

// GetBudgets converts the dump's budget blocks for the requested year.
func (r *FileSourceRepository) GetBudgets(ctx context.Context, profile string, year int) ([]entity.AccountBudgetRow, error) {
	doc, err := r.load(profile)
	if err != nil {
		return nil, err
	}

	var rows []entity.AccountBudgetRow
	for _, b := range doc.Budgets {
		if b.Year != 0 && b.Year != year {
			continue
		}
		row := entity.AccountBudgetRow{
			ScopeID:   entity.ScopeID(doc.Provider, doc.AccountID),
			Provider:  strings.ToLower(doc.Provider),
			AccountID: doc.AccountID,
			Currency:  entity.NormalizeCurrency(b.Currency),
		}
		for m := 1; m <= 12; m++ {
			if v, ok := b.Months[fmt.Sprintf("%d", m)]; ok && v != nil {
				amount := *v
				row.Months[m-1] = &amount
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ResolveTags serves tags from the dump's inline resources map.
func (r *FileSourceRepository) ResolveTags(ctx context.Context, profile string, refs []string) (map[string][]entity.TagEntry, error) {
	doc, err := r.load(profile)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]entity.TagEntry, len(refs))
	for _, ref := range refs {
		raw, ok := doc.Resources[ref]
		if !ok {
			result[ref] = nil
			continue
		}
		tags := make([]entity.TagEntry, 0, len(raw))
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tags = append(tags, entity.TagEntry{Key: k, Value: raw[k]})
		}
		result[ref] = tags
	}
	return result, nil
}
