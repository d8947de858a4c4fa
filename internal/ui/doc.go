// Package ui implements the arisan-admin terminal console on Bubble Tea.
//
// # Architecture Overview
//
// Model is the root tea.Model. It owns one screen per top-level area
// (dashboard, arisan, patungan, users, events, settings, gallery and
// activity) plus the login screen shown until the session holds a token.
// Screens share a single env carrying the context, API services, session,
// configuration, logger, key map and active theme.
//
// # Screens
//
// Most screens are a listScreen[T]: a generic searchable, sortable and
// paginated table over a resource.Controller. A listSpec configures the
// columns, the form fields and payload builder, and optional hooks for
// detail overlays, extra keys and banners. Arisan and patungan reuse the
// same group screen with a member panel and a nested member form.
//
// Writes run as tea.Cmds and come back as writtenMsg. The resource.Session
// of the screen tracks which overlay is open and whether a write is in
// flight, so a second submit is rejected while the first one runs.
//
// # Messages
//
// Results are broadcast to every screen and each screen drops messages
// addressed to another one. Flash messages are shown in the status line
// for FlashDuration. Errors that need acknowledgement open a notice that
// any key dismisses; an unauthorized response ends the session and
// returns to the login screen.
//
// # Image Picker
//
// Form fields holding image URLs can be filled from the gallery: ctrl+g in
// the form switches to the gallery in pick mode, and enter there returns
// the preview URL to the field that asked for it.
//
// # Key Bindings
//
//   - tab / shift+tab or 1-8: Switch screens
//   - /: Search, s: Cycle sort, S: Reverse, n/p: Page
//   - a: Add, e or enter: Edit, d: Delete, r: Refresh
//   - T: Cycle theme, ?: Help, L: Logout
//   - ctrl+c: Quit
package ui
