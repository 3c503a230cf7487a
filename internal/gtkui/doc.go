// Package gtkui adapts GTK4 and libadwaita surfaces to the theme manager:
// the display-wide stylesheet cascade, window tracking, frame decoration,
// and the reload toast overlay.
package gtkui
