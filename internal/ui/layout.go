package ui

import "time"

// Terminal width below which the header drops secondary fields.
const LayoutCompactWidth = 100

// Rows taken by the header and command bar.
const chromeRows = 2

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines to keep in memory.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second

	// DefaultScrollDebounce delays the load threshold check until scrolling settles.
	DefaultScrollDebounce = 50 * time.Millisecond

	// SettingsMessageTimeout is how long a settings confirmation stays visible.
	SettingsMessageTimeout = 5 * time.Second

	// RequestTimeout bounds one settings request issued from the UI.
	RequestTimeout = 10 * time.Second
)
