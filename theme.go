package sitesmith

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Stage    int // Stage label in the progress line
	Question int // Clarification questions
	Plan     int // Plan and design-system summaries
	Error    int // Error messages
	Success  int // Completion indicators
	Muted    int // Status bar, placeholders
	Accent   int // Headings, page names
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Stage:    6,
		Question: 3,
		Plan:     5,
		Error:    1,
		Success:  2,
		Muted:    8,
		Accent:   4,
	}
}
