package term

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/vango-dev/snakearena/pkg/client"
)

// KeyIntent maps a key press to a client intent. Arrows and hjkl steer.
func KeyIntent(key tcell.Key, r rune) (client.Intent, bool) {
	switch key {
	case tcell.KeyUp:
		return client.IntentUp, true
	case tcell.KeyDown:
		return client.IntentDown, true
	case tcell.KeyLeft:
		return client.IntentLeft, true
	case tcell.KeyRight:
		return client.IntentRight, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return client.IntentQuit, true
	}
	if key != tcell.KeyRune {
		return 0, false
	}

	switch unicode.ToLower(r) {
	case 'k':
		return client.IntentUp, true
	case 'j':
		return client.IntentDown, true
	case 'h':
		return client.IntentLeft, true
	case 'l':
		return client.IntentRight, true
	case 's':
		return client.IntentStart, true
	case 'p', ' ':
		return client.IntentStop, true
	case 'e':
		return client.IntentEnd, true
	case 'r':
		return client.IntentRestart, true
	case 'q':
		return client.IntentQuit, true
	}
	return 0, false
}
