package setting

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrNegativeRate    = errors.New("rate must be non-negative")
)
