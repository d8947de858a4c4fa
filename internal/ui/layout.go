package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth shows the detail pane next to the table.
	LayoutWideWidth = 140
)

// Chrome lines around the content area: header and command bar above, the
// status line below.
const chromeHeight = 3

// Activity view limits.
const (
	// ActivityLineLimit is the number of log lines read for the Activity view.
	ActivityLineLimit = 500
)

// Timing constants.
const (
	// OTPResendDelay is how long the login screen waits before a new code
	// may be requested.
	OTPResendDelay = 60 * time.Second

	// FlashDuration is how long a status-line message stays visible.
	FlashDuration = 4 * time.Second
)
