package ids

import "github.com/segmentio/ksuid"

// New returns a time-sortable unique id. Used as the _id of every document,
// which makes insertion order recoverable from the id itself.
func New() string {
	return ksuid.New().String()
}
