package domain

import "errors"

// ErrVersionExpired is returned when a version is older than the retained delta history.
var ErrVersionExpired = errors.New("version expired")

// ErrVersionUnknown is returned when a version is newer than the current snapshot.
var ErrVersionUnknown = errors.New("version unknown")

// ErrSpanOutOfRange is returned when a span does not fit inside a snapshot.
var ErrSpanOutOfRange = errors.New("span out of range")

// ErrOverlappingEdits is returned when an edit batch contains overlapping ranges.
var ErrOverlappingEdits = errors.New("overlapping edits")

// ErrMalformedBlock is returned when a source span covers a line without the marker.
var ErrMalformedBlock = errors.New("malformed block")

// ErrInvalidConventions is returned when the marker or region name cannot delimit blocks.
var ErrInvalidConventions = errors.New("invalid conventions")

// ErrDocumentNotFound is returned when a document ID is not attached.
var ErrDocumentNotFound = errors.New("document not found")
