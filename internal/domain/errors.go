package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnsupportedMedia = errors.New("unsupported media")
	ErrFileTooLarge     = errors.New("file too large")
	ErrSourceMissing    = errors.New("source blob missing")
	ErrInvalidStatus    = errors.New("invalid job status")
	ErrConflict         = errors.New("media already exists")
)
