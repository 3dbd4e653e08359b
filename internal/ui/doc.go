// Package ui holds the color themes and the text charts shared by the console
// output and the dashboard, and honors --no-color and NO_COLOR.
package ui
