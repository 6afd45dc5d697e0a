package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadUpload = errors.New("malformed multipart upload")
	ErrNoFiles   = errors.New("no recognized files in upload")
)
