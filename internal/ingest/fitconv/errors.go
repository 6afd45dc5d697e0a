package fitconv

import "errors"

var (
	// ErrDecode indicates the file is not a valid FIT file.
	ErrDecode = errors.New("failed to decode fit file")
	// ErrNotActivity indicates the FIT file holds no activity data.
	ErrNotActivity = errors.New("fit file is not an activity")
	// ErrNoRecords indicates the activity carries no record messages.
	ErrNoRecords = errors.New("activity has no records")
)
