package output

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the CLI commands and the interactive UI
var (
	ColorCyan   = lipgloss.Color("14")  // template paths
	ColorGreen  = lipgloss.Color("82")  // successful generation
	ColorYellow = lipgloss.Color("220") // warnings, degraded configuration
	ColorRed    = lipgloss.Color("196") // failed generation
)

// Semantic styles
var (
	// StylePath styles template and file paths.
	StylePath = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleSuccess styles generation success markers.
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)

	// StyleWarning styles degraded-but-working states, like a missing
	// config file.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleError styles failure markers and messages.
	StyleError = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	// StyleDim styles separators, counts and timestamps.
	StyleDim = lipgloss.NewStyle().Faint(true)
)
