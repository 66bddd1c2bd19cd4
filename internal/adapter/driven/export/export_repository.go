package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/repository"
)

// ExportRepositoryImpl implements ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository creates a new ExportRepository implementation.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

func (r *ExportRepositoryImpl) ExportToCSV(data repository.DashboardExport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Profile", "Provider", "Resource Type", "Currency",
		"Total", "Share %", "Lines", "Tagged", "Untagged",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, g := range data.Groups {
		record := []string{
			data.Profile,
			cleanRichTags(g.ProviderLabel),
			g.ResourceType,
			g.Currency,
			fmt.Sprintf("%.2f", g.TotalAmount),
			fmt.Sprintf("%.2f", g.SharePercent),
			fmt.Sprintf("%d", g.SnapshotCount),
			fmt.Sprintf("%d", g.TaggedCount),
			fmt.Sprintf("%d", g.UntaggedCount),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writeTagRows := func(title string, rows []entity.TagTotalRow) error {
		if len(rows) == 0 {
			return nil
		}
		writer.Write([]string{})
		writer.Write([]string{title, "Lines", "Resources", "Totals"})
		for _, t := range rows {
			var totals []string
			for _, c := range sortedCurrencyKeys(t.Totals) {
				totals = append(totals, fmt.Sprintf("%s %.2f", c, t.Totals[c]))
			}
			record := []string{
				t.Label,
				fmt.Sprintf("%d", t.LineCount),
				fmt.Sprintf("%d", t.ResourceCount),
				strings.Join(totals, "\n"),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("error writing CSV record: %w", err)
			}
		}
		return nil
	}
	if err := writeTagRows("Org", data.OrgTotals); err != nil {
		return "", err
	}
	if err := writeTagRows("Product", data.ProductTotals); err != nil {
		return "", err
	}

	if len(data.BudgetDeltas) > 0 {
		writer.Write([]string{})
		writer.Write([]string{"Account", "Currency", "Actual", "Budget", "Delta", "Status"})
		for _, d := range data.BudgetDeltas {
			record := []string{
				d.ScopeID,
				d.Currency,
				fmt.Sprintf("%.2f", d.ActualAmount),
				fmt.Sprintf("%.2f", d.BudgetAmount),
				fmt.Sprintf("%+.2f", d.Delta),
				string(d.Status),
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(data repository.DashboardExport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(data repository.DashboardExport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		content = cleanRichTags(content)
		if strings.TrimSpace(content) == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Cloud Spend Dashboard: %s", data.Profile)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	if data.PeriodStart != "" {
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Period: %s to %s", data.PeriodStart, data.PeriodEnd)), "", 1, "L", true, 0, "")
	}
	pdf.Ln(10)

	var groupsStr strings.Builder
	for _, g := range data.Groups {
		groupsStr.WriteString(fmt.Sprintf("%s / %s: %.2f %s (%.1f%%, %d lines, %d untagged)\n",
			cleanRichTags(g.ProviderLabel), g.ResourceType, g.TotalAmount, g.Currency,
			g.SharePercent, g.SnapshotCount, g.UntaggedCount))
	}
	drawSection("Spend by Resource Type", groupsStr.String())

	tagSection := func(rows []entity.TagTotalRow) string {
		var b strings.Builder
		for _, t := range rows {
			var totals []string
			for _, c := range sortedCurrencyKeys(t.Totals) {
				totals = append(totals, fmt.Sprintf("%.2f %s", t.Totals[c], c))
			}
			b.WriteString(fmt.Sprintf("%s: %s (%d lines, %d resources)\n",
				t.Label, strings.Join(totals, ", "), t.LineCount, t.ResourceCount))
		}
		return b.String()
	}
	drawSection("Spend by Org", tagSection(data.OrgTotals))
	drawSection("Spend by Product", tagSection(data.ProductTotals))

	if len(data.BudgetDeltas) > 0 {
		var b strings.Builder
		for _, d := range data.BudgetDeltas {
			b.WriteString(fmt.Sprintf("%s: actual %.2f / budget %.2f %s (%+.2f, %s)\n",
				d.ScopeID, d.ActualAmount, d.BudgetAmount, d.Currency, d.Delta, d.Status))
		}
		for _, s := range data.BudgetSummaries {
			b.WriteString(fmt.Sprintf("\nAll accounts (%s): actual %.2f / budget %.2f (%+.2f, %s)\n",
				s.Currency, s.ActualAmount, s.BudgetAmount, s.Delta, s.Status))
		}
		drawSection("Budget Status", b.String())
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by Cloud Spend Dashboard | %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, tr("Page 1"), "", 0, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// generateFilename creates a timestamped filename and ensures the output
// directory exists.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

func sortedCurrencyKeys(totals map[string]float64) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Regexes stripping pterm rich tags and ANSI color sequences from strings
// that pass through the console before export.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}
