package jsonsort

import "errors"

var (
	ErrFileNotFound = errors.New("file does not exist")
	ErrNotJSONFile  = errors.New("not a JSON file")
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrNotObject    = errors.New("top-level JSON value is not an object")
)
