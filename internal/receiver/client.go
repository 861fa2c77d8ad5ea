package receiver

import (
	"context"
	"strings"
	"time"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/gatt"
	"codeberg.org/mutker/envsensed/internal/logger"
	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"
)

// maxPayload covers every attribute of the profile within one ATT MTU.
const maxPayload = 64

// Client is a connection to an envsensed peripheral.
type Client struct {
	device interface{ Disconnect() error }
	chars  map[codec.Channel]bluetooth.DeviceCharacteristic
	buf    []byte
}

// Connect scans for target, which is either an address or an advertised
// local name, connects to it and discovers the service. Scanning gives up
// after timeout.
func Connect(ctx context.Context, target string, timeout time.Duration) (*Client, error) {
	errFactory := errors.New()
	adapter := bluetooth.DefaultAdapter

	if err := adapter.Enable(); err != nil {
		return nil, errFactory.Wrap(ErrEnableAdapter, err)
	}

	logger.Info().Str("target", target).Msg("Scanning...")

	found, err := scan(ctx, adapter, target, timeout)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("address", found.Address.String()).Msg("Connecting...")
	device, err := adapter.Connect(found.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, errFactory.Wrap(ErrConnectFailed, err)
	}

	c := &Client{
		device: device,
		chars:  make(map[codec.Channel]bluetooth.DeviceCharacteristic, len(gatt.Profile)),
		buf:    make([]byte, maxPayload),
	}

	logger.Info().Msg("Discovering services...")
	services, err := device.DiscoverServices([]bluetooth.UUID{bluetooth.New16BitUUID(gatt.EnvironmentalSensingUUID16)})
	if err != nil || len(services) == 0 {
		c.Close()
		return nil, errFactory.Wrap(ErrDiscoverFailed, err)
	}

	logger.Info().Msg("Discovering characteristics...")
	chars, err := services[0].DiscoverCharacteristics(nil)
	if err != nil {
		c.Close()
		return nil, errFactory.Wrap(ErrDiscoverFailed, err)
	}

	for _, char := range chars {
		u, err := uuid.Parse(char.UUID().String())
		if err != nil {
			continue
		}
		if a, ok := gatt.LookupUUID(u); ok {
			c.chars[a.Channel] = char
		}
	}

	for _, ch := range codec.Channels {
		if _, ok := c.chars[ch]; !ok {
			c.Close()
			return nil, errFactory.WithData(ErrMissingChannel, ch.String())
		}
	}

	return c, nil
}

func scan(ctx context.Context, adapter *bluetooth.Adapter, target string, timeout time.Duration) (bluetooth.ScanResult, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		found bluetooth.ScanResult
		ok    bool
	)
	done := make(chan error, 1)

	go func() {
		done <- adapter.Scan(func(a *bluetooth.Adapter, r bluetooth.ScanResult) {
			if strings.EqualFold(r.Address.String(), target) || r.LocalName() == target {
				found, ok = r, true
				a.StopScan()
			}
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return found, errFactory.Wrap(ErrScanFailed, err)
		}
	case <-ctx.Done():
		adapter.StopScan()
		<-done
	}

	if !ok {
		return found, errFactory.WithData(ErrNotFound, target)
	}
	return found, nil
}

// ReadAll reads every characteristic of the profile.
func (c *Client) ReadAll() (map[codec.Channel][]byte, error) {
	errFactory := errors.New()
	raw := make(map[codec.Channel][]byte, len(c.chars))

	for ch, char := range c.chars {
		n, err := char.Read(c.buf)
		if err != nil {
			return nil, errFactory.Wrap(ErrReadFailed, err)
		}
		raw[ch] = append([]byte(nil), c.buf[:n]...)
	}
	return raw, nil
}

func (c *Client) Close() error {
	if err := c.device.Disconnect(); err != nil {
		return errors.New().Wrap(ErrDisconnectFailed, err)
	}
	return nil
}
