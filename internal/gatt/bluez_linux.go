//go:build linux

package gatt

import (
	"context"
	"sync"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"tinygo.org/x/bluetooth"
)

// bluezPeripheral serves the profile through BlueZ over D-Bus. BlueZ owns
// the descriptors, so the color user description is not exposed here.
type bluezPeripheral struct {
	centralTracker

	adapter *bluetooth.Adapter
	adv     *bluetooth.Advertisement

	mu     sync.Mutex
	chars  map[codec.Channel]*bluetooth.Characteristic
	closed bool
}

func newBlueZ(ctx context.Context, cfg Config) (Peripheral, error) {
	errFactory := errors.New()

	adapter := bluetooth.NewAdapter(cfg.Adapter)
	if err := adapter.Enable(); err != nil {
		return nil, errFactory.Wrap(ErrEnableAdapter, err)
	}

	p := &bluezPeripheral{
		adapter: adapter,
		chars:   make(map[codec.Channel]*bluetooth.Characteristic, len(Profile)),
	}

	adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		remote := device.Address.String()
		if connected {
			p.connected(remote)
		} else {
			p.disconnected(remote)
		}
	})

	configs := make([]bluetooth.CharacteristicConfig, 0, len(Profile))
	for _, a := range Profile {
		c := new(bluetooth.Characteristic)
		p.chars[a.Channel] = c
		configs = append(configs, bluetooth.CharacteristicConfig{
			Handle: c,
			UUID:   bluezUUID(a),
			Value:  a.Initial(),
			Flags:  bluetooth.CharacteristicReadPermission | bluetooth.CharacteristicNotifyPermission,
		})
	}

	// Detaches the connect handler from a peripheral that is never returned.
	abort := func(err error) (Peripheral, error) {
		adapter.SetConnectHandler(func(bluetooth.Device, bool) {})
		return nil, err
	}

	err := adapter.AddService(&bluetooth.Service{
		UUID:            bluetooth.New16BitUUID(EnvironmentalSensingUUID16),
		Characteristics: configs,
	})
	if err != nil {
		return abort(errFactory.Wrap(ErrAddService, err))
	}

	p.adv = adapter.DefaultAdvertisement()
	err = startAdvertising(p.adv, bluetooth.AdvertisementOptions{
		LocalName:    cfg.LocalName,
		ServiceUUIDs: []bluetooth.UUID{bluetooth.New16BitUUID(EnvironmentalSensingUUID16)},
	})
	if err != nil {
		return abort(err)
	}

	logger.Info().
		Str("adapter", cfg.Adapter).
		Str("name", cfg.LocalName).
		Msg("Advertising Environmental Sensing service")

	go func() {
		<-ctx.Done()
		p.Close()
	}()

	return p, nil
}

type advertiser interface {
	Configure(bluetooth.AdvertisementOptions) error
	Start() error
	Stop() error
}

// startAdvertising configures and starts adv. An advertisement that was
// configured but failed to start is stopped again.
func startAdvertising(adv advertiser, opts bluetooth.AdvertisementOptions) error {
	errFactory := errors.New()

	if err := adv.Configure(opts); err != nil {
		return errFactory.Wrap(ErrAdvertise, err)
	}
	if err := adv.Start(); err != nil {
		if stopErr := adv.Stop(); stopErr != nil {
			logger.Debug().Err(stopErr).Msg("Failed to withdraw advertisement")
		}
		return errFactory.Wrap(ErrAdvertise, err)
	}
	return nil
}

func bluezUUID(a Attribute) bluetooth.UUID {
	if a.Short != 0 {
		return bluetooth.New16BitUUID(a.Short)
	}
	return bluetooth.NewUUID(a.UUID)
}

func (p *bluezPeripheral) Publish(v codec.Value) error {
	errFactory := errors.New()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errFactory.New(ErrClosed)
	}
	c, ok := p.chars[v.Channel()]
	if !ok {
		return errFactory.WithData(ErrUnknownChannel, v.Channel().String())
	}
	if _, err := c.Write(v.Bytes()); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	return nil
}

func (p *bluezPeripheral) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.adv.Stop(); err != nil {
		return errors.New().Wrap(ErrCloseFailed, err)
	}
	return nil
}
