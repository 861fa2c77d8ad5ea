package sensor

import "codeberg.org/mutker/envsensed/internal/errors"

var errFactory = errors.New()

const (
	// Initialization and Lifecycle Errors
	ErrUnknownBackend = errors.ErrorCode("sensor_unknown_backend")
	ErrHostInitFailed = errors.ErrorCode("sensor_host_init_failed")
	ErrBusOpenFailed  = errors.ErrorCode("sensor_bus_open_failed")
	ErrEnvInitFailed  = errors.ErrorCode("sensor_env_init_failed")
	ErrColorNotFound  = errors.ErrorCode("sensor_color_not_found")
	ErrCloseFailed    = errors.ErrorCode("sensor_close_failed")

	// Read Errors
	ErrEnvReadFailed  = errors.ErrorCode("sensor_env_read_failed")
	ErrColorNotReady  = errors.ErrorCode("sensor_color_not_ready")
	ErrColorWaitEnded = errors.ErrorCode("sensor_color_wait_ended")
)
