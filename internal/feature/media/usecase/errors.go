// Package usecase implements the business logic for the media feature.
package usecase

import "errors"

var (
	// ErrVideoUnsupported is returned when a video file is uploaded.
	// Video processing is deliberately not supported.
	ErrVideoUnsupported = errors.New("video processing is not supported")

	// ErrUnsupportedType is returned for file types that are neither a
	// supported image nor a recognized video format.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrFileNotFound is returned when a stored file cannot be found in the
	// working directory.
	ErrFileNotFound = errors.New("file not found")
)
