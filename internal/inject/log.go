// Package inject moves and clicks the local pointer on the receiving host.
package inject

import "log"

// LogInjector logs pointer operations instead of performing them.
type LogInjector struct{}

// MoveRel logs a relative move.
func (LogInjector) MoveRel(dx, dy int) error {
	log.Printf("inject: move %+d %+d", dx, dy)
	return nil
}

// Press logs a button press.
func (LogInjector) Press(b Button) error {
	log.Printf("inject: press %s", b)
	return nil
}

// Release logs a button release.
func (LogInjector) Release(b Button) error {
	log.Printf("inject: release %s", b)
	return nil
}
