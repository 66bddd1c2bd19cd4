package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile   string
	Profiles     []string
	All          bool
	Year         int
	Month        int
	Provider     string
	ResourceType string
	TagFilter    string
	Search       string
	Sort         string
	AccountSort  string
	ReportName   string
	ReportType   []string
	Dir          string
	NoPrefs      bool
	Sources      []string
}
