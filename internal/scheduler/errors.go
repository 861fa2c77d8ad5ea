package scheduler

import "codeberg.org/mutker/envsensed/internal/errors"

const (
	ErrInvalidInterval = errors.ErrorCode("scheduler_invalid_interval")
	ErrReadFailed      = errors.ErrorCode("scheduler_read_failed")
	ErrEncodeFailed    = errors.ErrorCode("scheduler_encode_failed")
	ErrPublishFailed   = errors.ErrorCode("scheduler_publish_failed")
	ErrCycleAborted    = errors.ErrorCode("scheduler_cycle_aborted")
)
