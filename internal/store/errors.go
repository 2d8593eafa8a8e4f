package store

import "errors"

// ErrCorruptRecord indicates a cached transcript record exists but is not valid JSON.
var ErrCorruptRecord = errors.New("corrupt transcript record")
