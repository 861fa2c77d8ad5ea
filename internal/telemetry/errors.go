package telemetry

import "codeberg.org/mutker/envsensed/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidBroker = errors.ErrorCode("telemetry_invalid_broker")
	ErrInvalidTopic  = errors.ErrorCode("telemetry_invalid_topic")

	// Collection Errors
	ErrPublishFailed      = errors.ErrorCode("telemetry_publish_failed")
	ErrInvalidPublication = errors.ErrorCode("telemetry_invalid_publication")
	ErrEncodeFailed       = errors.ErrorCode("telemetry_encode_failed")
	ErrNotConnected       = errors.ErrorCode("telemetry_not_connected")
	ErrQueueFull          = errors.ErrorCode("telemetry_queue_full")

	// Operation Errors
	ErrOperationTimeout = errors.ErrorCode("telemetry_operation_timeout")
	ErrServiceShutdown  = errors.ErrorCode("telemetry_service_shutdown_failed")
)
