//go:build linux

package gatt

import (
	"context"
	"net"
	"sync"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/evt"
)

// hciPeripheral serves the profile directly on a raw HCI socket. Values are
// held here and handed out by the read and notify handlers. The connected
// central is learned from the controller's connection events.
type hciPeripheral struct {
	centralTracker

	dev    *linux.Device
	cancel context.CancelFunc

	mu     sync.Mutex
	values map[codec.Channel][]byte
	subs   map[codec.Channel]map[chan []byte]struct{}
	peers  map[uint16]string
	closed bool
}

func newHCI(ctx context.Context, cfg Config) (Peripheral, error) {
	errFactory := errors.New()

	p := &hciPeripheral{
		values: make(map[codec.Channel][]byte, len(Profile)),
		subs:   make(map[codec.Channel]map[chan []byte]struct{}, len(Profile)),
		peers:  make(map[uint16]string),
	}

	dev, err := linux.NewDevice(
		ble.OptDeviceID(cfg.HCIDevice),
		ble.OptConnectHandler(p.handleConnect),
		ble.OptDisconnectHandler(p.handleDisconnect),
	)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenDevice, err)
	}
	p.dev = dev

	svc := ble.NewService(ble.UUID16(EnvironmentalSensingUUID16))
	for _, a := range Profile {
		p.values[a.Channel] = a.Initial()
		p.subs[a.Channel] = make(map[chan []byte]struct{})

		c := svc.NewCharacteristic(hciUUID(a))
		c.HandleRead(p.readHandler(a.Channel))
		c.HandleNotify(p.notifyHandler(a.Channel))
		if a.Description != "" {
			c.NewDescriptor(ble.UUID16(UserDescriptionUUID16)).SetValue([]byte(a.Description))
		}
	}

	if err := dev.AddService(svc); err != nil {
		dev.Stop()
		return nil, errFactory.Wrap(ErrAddService, err)
	}

	advCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	go func() {
		err := dev.AdvertiseNameAndServices(advCtx, cfg.LocalName, ble.UUID16(EnvironmentalSensingUUID16))
		if err != nil && advCtx.Err() == nil {
			logger.ErrorWithCode(errors.New().Wrap(ErrAdvertise, err)).Msg("Advertising stopped")
		}
	}()

	logger.Info().
		Int("hci_device", cfg.HCIDevice).
		Str("name", cfg.LocalName).
		Msg("Advertising Environmental Sensing service")

	return p, nil
}

func hciUUID(a Attribute) ble.UUID {
	if a.Short != 0 {
		return ble.UUID16(a.Short)
	}
	return ble.UUID(ble.Reverse(a.UUID[:]))
}

// peerAddress formats the little-endian address of a connection event the
// way ble.Conn.RemoteAddr does.
func peerAddress(e evt.LEConnectionComplete) string {
	a := e.PeerAddress()
	return net.HardwareAddr([]byte{a[5], a[4], a[3], a[2], a[1], a[0]}).String()
}

func (p *hciPeripheral) handleConnect(e evt.LEConnectionComplete) {
	if e.Status() != 0 {
		logger.Debug().Uint8("status", e.Status()).Msg("Connection attempt failed")
		return
	}

	remote := peerAddress(e)
	p.mu.Lock()
	p.peers[e.ConnectionHandle()] = remote
	p.mu.Unlock()

	p.connected(remote)
}

func (p *hciPeripheral) handleDisconnect(e evt.DisconnectionComplete) {
	p.mu.Lock()
	remote, ok := p.peers[e.ConnectionHandle()]
	delete(p.peers, e.ConnectionHandle())
	p.mu.Unlock()

	if !ok {
		return
	}
	logger.Debug().Str("remote", remote).Uint8("reason", e.Reason()).Msg("Central disconnected")
	p.disconnected(remote)
}

func (p *hciPeripheral) readHandler(ch codec.Channel) ble.ReadHandler {
	return ble.ReadHandlerFunc(func(_ ble.Request, rsp ble.ResponseWriter) {
		p.mu.Lock()
		b := p.values[ch]
		p.mu.Unlock()

		if _, err := rsp.Write(b); err != nil {
			logger.Debug().Err(err).Str("channel", ch.String()).Msg("Failed to answer read")
		}
	})
}

func (p *hciPeripheral) notifyHandler(ch codec.Channel) ble.NotifyHandler {
	return ble.NotifyHandlerFunc(func(_ ble.Request, n ble.Notifier) {
		updates := make(chan []byte, 1)
		p.mu.Lock()
		p.subs[ch][updates] = struct{}{}
		p.mu.Unlock()

		defer func() {
			p.mu.Lock()
			delete(p.subs[ch], updates)
			p.mu.Unlock()
		}()

		logger.Debug().Str("channel", ch.String()).Msg("Central subscribed")

		for {
			select {
			case <-n.Context().Done():
				logger.Debug().Str("channel", ch.String()).Msg("Central unsubscribed")
				return
			case b := <-updates:
				if _, err := n.Write(b); err != nil {
					logger.Debug().Err(err).Str("channel", ch.String()).Msg("Failed to notify")
				}
			}
		}
	})
}

func (p *hciPeripheral) Publish(v codec.Value) error {
	errFactory := errors.New()
	ch := v.Channel()
	b := v.Bytes()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errFactory.New(ErrClosed)
	}
	if _, ok := p.values[ch]; !ok {
		return errFactory.WithData(ErrUnknownChannel, ch.String())
	}
	p.values[ch] = b

	// Subscribers only ever need the latest value.
	for updates := range p.subs[ch] {
		select {
		case <-updates:
		default:
		}
		updates <- b
	}
	return nil
}

func (p *hciPeripheral) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	if err := p.dev.Stop(); err != nil {
		return errors.New().Wrap(ErrCloseFailed, err)
	}
	return nil
}
