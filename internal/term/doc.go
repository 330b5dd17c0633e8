// Package term is the terminal front end for `snakearena play`.
//
// Draw renders a client.Frame onto a tcell screen, scaling the 800x600 viewport to the
// terminal size and reserving the bottom row for a status line. App connects a running
// client.Client to a screen and its key events; Sound plays a short tone when the local
// snake eats.
package term
