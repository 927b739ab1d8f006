package storage

import "errors"

var ErrKeyNotFound = errors.New("key not found in storage")
var ErrUnavailable = errors.New("storage unavailable")
var ErrItemWithIDAlreadyExists = errors.New("announcement already exists")
