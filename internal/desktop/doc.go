// Package desktop holds the window-manager state of the portfolio desktop:
// the registry of open windows, their stacking order, display states and
// per-window navigation history.
//
// All state lives in a Manager. Callers issue commands (Open, Minimize,
// NavigateTo, ...) and read snapshots back (ListOpenWindows, ActiveWindow).
// The rendering layer maps each window's Content to a renderer through a
// Dispatch table.
package desktop
