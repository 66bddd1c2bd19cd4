package types

// ConsoleInterface defines the interface for console output.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	ProgressWithTotal(total int) ProgressHandle

	CreateTable() TableInterface
	DisplayShareBars(shares []ShareBar)
	DisplayBudgetBars(bars []BudgetBar)
}

// StatusHandle is an interface for updating a status message.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle is an interface for updating a progress bar.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface defines the interface for creating and rendering tables.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// ShareBar is one row of the spend-share bar display.
type ShareBar struct {
	Label        string  `json:"label"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	SharePercent float64 `json:"share_percent"`
}

// BudgetBar is one row of the budget adherence display.
type BudgetBar struct {
	Label    string  `json:"label"`
	Currency string  `json:"currency"`
	Actual   float64 `json:"actual"`
	Budget   float64 `json:"budget"`
	Status   string  `json:"status"`
}
