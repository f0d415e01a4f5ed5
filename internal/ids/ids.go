package ids

import "github.com/segmentio/ksuid"

// New returns a new time-ordered opaque identifier.
func New() string {
	return ksuid.New().String()
}
