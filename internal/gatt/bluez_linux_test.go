//go:build linux

package gatt

import (
	"testing"

	"codeberg.org/mutker/envsensed/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/bluetooth"
)

type fakeAdvertiser struct {
	configureErr error
	startErr     error

	configured bool
	started    bool
	stopped    bool
}

func (a *fakeAdvertiser) Configure(bluetooth.AdvertisementOptions) error {
	a.configured = true
	return a.configureErr
}

func (a *fakeAdvertiser) Start() error {
	a.started = true
	return a.startErr
}

func (a *fakeAdvertiser) Stop() error {
	a.stopped = true
	return nil
}

func TestStartAdvertising(t *testing.T) {
	tests := []struct {
		name        string
		adv         *fakeAdvertiser
		wantErr     bool
		wantStarted bool
		wantStopped bool
	}{
		{
			name:        "started",
			adv:         &fakeAdvertiser{},
			wantStarted: true,
		},
		{
			name:    "configure fails",
			adv:     &fakeAdvertiser{configureErr: errors.New().WithMessage(errors.ErrInvalidArgument, "name too long")},
			wantErr: true,
		},
		{
			name:        "start fails withdraws advertisement",
			adv:         &fakeAdvertiser{startErr: errors.New().WithMessage(errors.ErrUnavailable, "org.bluez.Error.Failed")},
			wantErr:     true,
			wantStarted: true,
			wantStopped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := startAdvertising(tt.adv, bluetooth.AdvertisementOptions{LocalName: "envsensed"})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, ErrAdvertise))
			} else {
				require.NoError(t, err)
			}

			assert.True(t, tt.adv.configured)
			assert.Equal(t, tt.wantStarted, tt.adv.started)
			assert.Equal(t, tt.wantStopped, tt.adv.stopped)
		})
	}
}
