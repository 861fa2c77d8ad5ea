package receiver

import "codeberg.org/mutker/envsensed/internal/errors"

const (
	ErrEnableAdapter    = errors.ErrorCode("receiver_enable_adapter_failed")
	ErrScanFailed       = errors.ErrorCode("receiver_scan_failed")
	ErrNotFound         = errors.ErrorCode("receiver_peripheral_not_found")
	ErrConnectFailed    = errors.ErrorCode("receiver_connect_failed")
	ErrDiscoverFailed   = errors.ErrorCode("receiver_discover_failed")
	ErrMissingChannel   = errors.ErrorCode("receiver_missing_characteristic")
	ErrReadFailed       = errors.ErrorCode("receiver_read_failed")
	ErrDecodeFailed     = errors.ErrorCode("receiver_decode_failed")
	ErrDisconnectFailed = errors.ErrorCode("receiver_disconnect_failed")
)
