//go:build !linux

package gatt

import (
	"context"

	"codeberg.org/mutker/envsensed/internal/errors"
)

func newBlueZ(context.Context, Config) (Peripheral, error) {
	return nil, errors.New().WithData(ErrUnsupported, TransportBlueZ)
}

func newHCI(context.Context, Config) (Peripheral, error) {
	return nil, errors.New().WithData(ErrUnsupported, TransportHCI)
}
