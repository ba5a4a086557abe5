package domain

import "time"

// MediaObject is an uploaded portfolio asset and a time-limited link to it.
type MediaObject struct {
	Key          string
	URL          string
	Size         int64
	LastModified *time.Time
}
