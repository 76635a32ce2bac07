package output

import "github.com/charmbracelet/lipgloss"

// Color palette, lime accent on grays.
const (
	ColorLime     = "154"
	ColorLimeDim  = "106"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorRed      = "196"
	ColorYellow   = "220"
	ColorCyan     = "80"
)

// Styles holds the styles used for terminal rendering.
type Styles struct {
	Header  lipgloss.Style
	Folder  lipgloss.Style
	File    lipgloss.Style
	Branch  lipgloss.Style
	Dim     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Change event styles
	Created  lipgloss.Style
	Modified lipgloss.Style
	Deleted  lipgloss.Style
	Moved    lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Folder:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		File:     lipgloss.NewStyle(),
		Branch:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Created:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Modified: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Deleted:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Moved:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header: plain, Folder: plain, File: plain, Branch: plain, Dim: plain,
		Success: plain, Warning: plain, Error: plain,
		Created: plain, Modified: plain, Deleted: plain, Moved: plain,
	}
}

// GetStyles returns the styles for the color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
