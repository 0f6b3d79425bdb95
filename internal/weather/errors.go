package weather

import "errors"

var (
	// ErrConnection is returned when the document source cannot be reached
	// or answers with something other than a usable document.
	ErrConnection = errors.New("connection error")

	// ErrParse is returned when the document's structure is not what the
	// extractor expects: missing timestamp header, station name or field cell.
	ErrParse = errors.New("parse error")
)
