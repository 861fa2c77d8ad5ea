//go:build linux

package gatt

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/envsensed/internal/codec"
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux/hci/evt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequest struct{}

func (fakeRequest) Conn() ble.Conn { return nil }
func (fakeRequest) Data() []byte   { return nil }
func (fakeRequest) Offset() int    { return 0 }

type fakeNotifier struct {
	ctx     context.Context
	written chan []byte
}

func (n *fakeNotifier) Context() context.Context { return n.ctx }
func (n *fakeNotifier) Close() error             { return nil }
func (n *fakeNotifier) Cap() int                 { return 20 }

func (n *fakeNotifier) Write(b []byte) (int, error) {
	n.written <- b
	return len(b), nil
}

func newTestHCI() *hciPeripheral {
	p := &hciPeripheral{
		values: make(map[codec.Channel][]byte),
		subs:   make(map[codec.Channel]map[chan []byte]struct{}),
		peers:  make(map[uint16]string),
	}
	for _, a := range Profile {
		p.values[a.Channel] = a.Initial()
		p.subs[a.Channel] = make(map[chan []byte]struct{})
	}
	return p
}

func TestHCIPublishStoresValue(t *testing.T) {
	p := newTestHCI()

	require.NoError(t, p.Publish(codec.TemperatureValue(1750)))
	assert.Equal(t, []byte{0xd6, 0x06}, p.values[codec.Temperature])
}

func TestHCIPublishNotifiesSubscriber(t *testing.T) {
	p := newTestHCI()
	ctx, cancel := context.WithCancel(context.Background())
	n := &fakeNotifier{ctx: ctx, written: make(chan []byte, 4)}

	done := make(chan struct{})
	go func() {
		p.notifyHandler(codec.Color).ServeNotify(fakeRequest{}, n)
		close(done)
	}()

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.subs[codec.Color]) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, p.Publish(codec.ColorText("1,2,3,4")))

	select {
	case b := <-n.written:
		assert.Equal(t, []byte("1,2,3,4\x00"), b)
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	cancel()
	<-done
	assert.Empty(t, p.subs[codec.Color])
}

func TestHCIPublishAfterClose(t *testing.T) {
	p := newTestHCI()
	p.closed = true

	assert.Error(t, p.Publish(codec.HumidityValue(1)))
}

// connectionComplete builds an LE Connection Complete event for a
// peripheral-role connection. The peer address is little-endian on the wire.
func connectionComplete(status uint8, handle uint16, addr [6]byte) evt.LEConnectionComplete {
	b := make([]byte, 19)
	b[0] = 0x01
	b[1] = status
	b[2], b[3] = byte(handle), byte(handle>>8)
	b[4] = 0x01
	for i := range addr {
		b[6+i] = addr[5-i]
	}
	return evt.LEConnectionComplete(b)
}

func disconnectionComplete(handle uint16) evt.DisconnectionComplete {
	return evt.DisconnectionComplete([]byte{0x00, byte(handle), byte(handle >> 8), 0x13})
}

func TestHCIConnectionEvents(t *testing.T) {
	p := newTestHCI()
	addr := [6]byte{0xaa, 0xbb, 0xcc, 0x00, 0x11, 0x22}

	_, ok := p.Central()
	assert.False(t, ok)

	p.handleConnect(connectionComplete(0x00, 0x0040, addr))
	remote, ok := p.Central()
	require.True(t, ok)
	assert.Equal(t, "aa:bb:cc:00:11:22", remote)

	p.handleDisconnect(disconnectionComplete(0x0040))
	_, ok = p.Central()
	assert.False(t, ok)
	assert.Empty(t, p.peers)
}

func TestHCIConnectionEventEdgeCases(t *testing.T) {
	first := [6]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	second := [6]byte{0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}

	tests := []struct {
		name       string
		events     func(p *hciPeripheral)
		wantRemote string
		wantOK     bool
	}{
		{
			name: "failed connection is ignored",
			events: func(p *hciPeripheral) {
				p.handleConnect(connectionComplete(0x3e, 0x0040, first))
			},
		},
		{
			name: "unknown handle does not clear central",
			events: func(p *hciPeripheral) {
				p.handleConnect(connectionComplete(0x00, 0x0040, first))
				p.handleDisconnect(disconnectionComplete(0x0041))
			},
			wantRemote: "01:02:03:04:05:06",
			wantOK:     true,
		},
		{
			name: "stale disconnect keeps newer central",
			events: func(p *hciPeripheral) {
				p.handleConnect(connectionComplete(0x00, 0x0040, first))
				p.handleConnect(connectionComplete(0x00, 0x0041, second))
				p.handleDisconnect(disconnectionComplete(0x0040))
			},
			wantRemote: "0a:0b:0c:0d:0e:0f",
			wantOK:     true,
		},
		{
			name: "reconnect after disconnect",
			events: func(p *hciPeripheral) {
				p.handleConnect(connectionComplete(0x00, 0x0040, first))
				p.handleDisconnect(disconnectionComplete(0x0040))
				p.handleConnect(connectionComplete(0x00, 0x0042, second))
			},
			wantRemote: "0a:0b:0c:0d:0e:0f",
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestHCI()
			tt.events(p)

			remote, ok := p.Central()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRemote, remote)
		})
	}
}
