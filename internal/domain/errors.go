package domain

import "errors"

var ErrNotFound = errors.New("record not found")
var ErrNoPermission = errors.New("no permission")
var ErrInvalidData = errors.New("invalid data")
var ErrDuplicateEntry = errors.New("duplicate entry")
