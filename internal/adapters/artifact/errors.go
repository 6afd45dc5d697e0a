package artifact

import "errors"

var (
	// ErrNotFound indicates a requested artifact has not been written yet.
	ErrNotFound = errors.New("artifact not found")
	// ErrLayout indicates the data directory tree could not be created.
	ErrLayout = errors.New("layout failed")
	// ErrEncode indicates an artifact could not be serialized.
	ErrEncode = errors.New("encode failed")
	// ErrDecode indicates an artifact on disk could not be parsed.
	ErrDecode = errors.New("decode failed")
	// ErrRead indicates an artifact could not be read from disk.
	ErrRead = errors.New("read failed")
	// ErrWrite indicates an artifact could not be written to disk.
	ErrWrite = errors.New("write failed")
)
