package gatt

import "codeberg.org/mutker/envsensed/internal/errors"

const (
	// Initialization Errors
	ErrUnknownTransport = errors.ErrorCode("gatt_unknown_transport")
	ErrUnsupported      = errors.ErrorCode("gatt_unsupported_platform")
	ErrEnableAdapter    = errors.ErrorCode("gatt_enable_adapter_failed")
	ErrOpenDevice       = errors.ErrorCode("gatt_open_device_failed")
	ErrAddService       = errors.ErrorCode("gatt_add_service_failed")
	ErrAdvertise        = errors.ErrorCode("gatt_advertise_failed")

	// Runtime Errors
	ErrUnknownChannel = errors.ErrorCode("gatt_unknown_channel")
	ErrWriteFailed    = errors.ErrorCode("gatt_write_failed")
	ErrClosed         = errors.ErrorCode("gatt_closed")
	ErrCloseFailed    = errors.ErrorCode("gatt_close_failed")
)
