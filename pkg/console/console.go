package console

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

// Console is a pterm-backed implementation of ConsoleInterface.
type Console struct{}

// NewConsole creates a new Console.
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// Predefined colors for consistent use across the CLI.
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightRed     = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// statusHandle implements StatusHandle over a pterm spinner.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status starts a status spinner with the given message.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle implements ProgressHandle over a pterm progress bar.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Processing billing data").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		Start()
	return &progressHandle{bar: bar}
}

func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table implements TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable creates a new empty table.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayShareBars renders one bar per group, scaled to the largest amount,
// with the share percentage alongside.
func (c *Console) DisplayShareBars(shares []types.ShareBar) {
	maxAmount := 0.0
	for _, s := range shares {
		if s.Amount > maxAmount {
			maxAmount = s.Amount
		}
	}
	if maxAmount == 0 {
		pterm.Warning.Println("All amounts are 0.00 for this view")
		return
	}

	tableData := pterm.TableData{
		{"Group", "Amount", "", "Share"},
	}
	for _, s := range shares {
		barLength := int((s.Amount / maxAmount) * 40)
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		if s.SharePercent >= 50 {
			barColor = pterm.FgRed.Sprint(bar)
		} else if s.SharePercent >= 25 {
			barColor = pterm.FgYellow.Sprint(bar)
		}

		tableData = append(tableData, []string{
			s.Label,
			fmt.Sprintf("%.2f %s", s.Amount, s.Currency),
			barColor,
			fmt.Sprintf("%.1f%%", s.SharePercent),
		})
	}

	table, _ := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	pterm.Println(table)
}

// DisplayBudgetBars renders actual-vs-budget bars per account, colored by
// budget status.
func (c *Console) DisplayBudgetBars(bars []types.BudgetBar) {
	maxAmount := 0.0
	for _, b := range bars {
		if b.Actual > maxAmount {
			maxAmount = b.Actual
		}
		if b.Budget > maxAmount {
			maxAmount = b.Budget
		}
	}
	if maxAmount == 0 {
		pterm.Warning.Println("No budget data to display")
		return
	}

	tableData := pterm.TableData{
		{"Account", "Actual", "Budget", "", "Status"},
	}
	for _, b := range bars {
		barLength := int((b.Actual / maxAmount) * 40)
		bar := strings.Repeat("█", barLength)

		var barColor, status string
		switch b.Status {
		case "over":
			barColor = pterm.FgRed.Sprint(bar)
			status = pterm.FgRed.Sprint("OVER")
		case "under":
			barColor = pterm.FgGreen.Sprint(bar)
			status = pterm.FgGreen.Sprint("UNDER")
		default:
			barColor = pterm.FgYellow.Sprint(bar)
			status = pterm.FgYellow.Sprint("ON TARGET")
		}

		tableData = append(tableData, []string{
			b.Label,
			fmt.Sprintf("%.2f %s", b.Actual, b.Currency),
			fmt.Sprintf("%.2f %s", b.Budget, b.Currency),
			barColor,
			status,
		})
	}

	table, _ := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	pterm.Println(table)
}
