package tui

// Key bindings handled by the root model. Everything else goes to the
// input line.
const (
	keyQuit     = "ctrl+c"
	keyCancel   = "esc"
	keySubmit   = "enter"
	keyHistPrev = "up"
	keyHistNext = "down"
	keyPageUp   = "pgup"
	keyPageDown = "pgdown"
	keyFollow   = "ctrl+f"
	keyClear    = "ctrl+l"
)

// GlobalKeyBindings lists the keys the root model handles itself.
var GlobalKeyBindings = []string{keyQuit, keyCancel, keySubmit, keyHistPrev, keyHistNext, keyPageUp, keyPageDown, keyFollow, keyClear}

// IsGlobalKey reports whether key is handled by the root model.
func IsGlobalKey(key string) bool {
	for _, k := range GlobalKeyBindings {
		if k == key {
			return true
		}
	}
	return false
}
