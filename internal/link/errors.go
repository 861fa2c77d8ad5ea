package link

import "codeberg.org/mutker/envsensed/internal/errors"

const (
	ErrIndicatorInit = errors.ErrorCode("link_indicator_init_failed")
	ErrPinNotFound   = errors.ErrorCode("link_pin_not_found")
	ErrIndicatorSet  = errors.ErrorCode("link_indicator_set_failed")
	ErrUpdateFailed  = errors.ErrorCode("link_update_failed")
)
