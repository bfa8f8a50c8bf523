// Package display renders the monitor windows and reads the operator's key
// presses.
package display

// Action is what a key press asks the monitor loop to do.
type Action int

const (
	None Action = iota
	Quit
	Trigger
)

// KeyAction maps a key code from WaitKey to an Action. Only the low byte is
// significant.
func KeyAction(key int) Action {
	if key < 0 {
		return None
	}
	switch key & 0xFF {
	case 'q':
		return Quit
	case 'n', 'N':
		return Trigger
	}
	return None
}
