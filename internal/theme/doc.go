// Package theme implements theme selection, stylesheet live-reload and
// window-chrome synchronization for the application shell.
package theme
