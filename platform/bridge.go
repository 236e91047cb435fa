package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/vi-racer/core"
	"github.com/lixenwraith/vi-racer/event"
	"github.com/lixenwraith/vi-racer/hud"
)

// BridgeConfig configures the websocket link to a host application
type BridgeConfig struct {
	URL              string
	SendBuffer       int
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	ForwardEvents    bool // Also send informational race events
}

// DefaultBridgeConfig returns the bridge tuning used when config leaves fields unset
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		SendBuffer:       64,
		HandshakeTimeout: 3 * time.Second,
		WriteTimeout:     2 * time.Second,
		PingInterval:     20 * time.Second,
	}
}

// ErrSendBufferFull is returned by Share when the writer is backlogged
var ErrSendBufferFull = errors.New("bridge send buffer full")

// Bridge is a Platform backed by a websocket host
// Until Connect succeeds, and after the link drops, every call is a no-op
type Bridge struct {
	cfg    BridgeConfig
	logger *log.Logger

	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	connected atomic.Bool
	seq       atomic.Uint64
	sent      atomic.Uint64
	dropped   atomic.Uint64

	mu      sync.RWMutex
	session string
	hello   *HelloPayload
}

// NewBridge creates a disconnected bridge; zero fields of cfg take defaults
func NewBridge(cfg BridgeConfig, logger *log.Logger) *Bridge {
	def := DefaultBridgeConfig()
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bridge{
		cfg:    cfg,
		logger: logger.WithPrefix("bridge"),
		send:   make(chan []byte, cfg.SendBuffer),
		done:   make(chan struct{}),
	}
}

// Connect dials the host and starts the reader and writer
func (b *Bridge) Connect(ctx context.Context) error {
	if b.cfg.URL == "" {
		return fmt.Errorf("bridge: %w: no url configured", ErrUnavailable)
	}
	dialer := websocket.Dialer{HandshakeTimeout: b.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, b.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("bridge dial %s: %w", b.cfg.URL, err)
	}
	b.conn = conn
	b.connected.Store(true)
	b.logger.Info("connected", "url", b.cfg.URL)

	b.wg.Add(2)
	core.Go(func() {
		defer b.wg.Done()
		b.readPump()
	})
	core.Go(func() {
		defer b.wg.Done()
		b.writePump()
	})
	return nil
}

// Available reports whether the host link is up
func (b *Bridge) Available() bool {
	return b.connected.Load()
}

// SetSession tags subsequent frames with the race session id
func (b *Bridge) SetSession(id string) {
	b.mu.Lock()
	b.session = id
	b.mu.Unlock()
}

// PlayerName returns the name announced by the host, if any
func (b *Bridge) PlayerName() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.hello == nil || b.hello.PlayerName == "" {
		return "", false
	}
	return b.hello.PlayerName, true
}

// Theme returns the color scheme announced by the host, if any
func (b *Bridge) Theme() (ThemePayload, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.hello == nil || b.hello.Theme == nil {
		return ThemePayload{}, false
	}
	return *b.hello.Theme, true
}

// Sent returns the number of frames written to the socket
func (b *Bridge) Sent() uint64 {
	return b.sent.Load()
}

// Dropped returns the number of frames discarded on a full buffer
func (b *Bridge) Dropped() uint64 {
	return b.dropped.Load()
}

// Haptic forwards a feedback request to the host
func (b *Bridge) Haptic(kind HapticKind) {
	b.enqueue(&Frame{Type: FrameHaptic, Haptic: kind.String()})
}

// Share forwards the result to the host for its share dialog
func (b *Bridge) Share(result hud.Result) error {
	if !b.Available() {
		return ErrUnavailable
	}
	ok := b.enqueue(&Frame{Type: FrameShare, Share: &SharePayload{
		Text:    result.ShareText(),
		TotalMS: result.TotalMillis(),
		BestMS:  result.Best.Milliseconds(),
		Player:  result.Player,
		Vehicle: result.Vehicle,
	}})
	if !ok {
		return ErrSendBufferFull
	}
	return nil
}

// Publish forwards a race event when event forwarding is enabled
func (b *Bridge) Publish(ev event.RaceEvent) {
	if !b.cfg.ForwardEvents || !b.Available() {
		return
	}
	p := &EventPayload{Name: ev.Type.String(), Frame: ev.Frame}
	if ev.Payload != nil {
		data, err := msgpack.Marshal(ev.Payload)
		if err != nil {
			b.logger.Warn("event payload encode failed", "event", ev.Type, "err", err)
			return
		}
		p.Data = data
	}
	b.enqueue(&Frame{Type: FrameEvent, Event: p})
}

func (b *Bridge) enqueue(f *Frame) bool {
	if !b.Available() {
		return false
	}
	b.mu.RLock()
	f.Session = b.session
	b.mu.RUnlock()
	f.Seq = b.seq.Add(1)

	data, err := EncodeFrame(f)
	if err != nil {
		b.logger.Error("frame encode failed", "err", err)
		return false
	}
	select {
	case b.send <- data:
		return true
	default:
		b.dropped.Add(1)
		b.logger.Debug("send buffer full, frame dropped", "type", f.Type)
		return false
	}
}

func (b *Bridge) readPump() {
	for {
		_, msg, err := b.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.logger.Info("host closed link")
			} else {
				select {
				case <-b.done:
				default:
					b.logger.Warn("read failed", "err", err)
				}
			}
			b.down()
			return
		}

		f, err := DecodeFrame(msg)
		if err != nil {
			b.logger.Debug("bad frame from host", "err", err)
			continue
		}
		switch f.Type {
		case FrameHello:
			if f.Hello != nil {
				b.mu.Lock()
				b.hello = f.Hello
				b.mu.Unlock()
				b.logger.Info("host hello", "player", f.Hello.PlayerName, "themed", f.Hello.Theme != nil)
			}
		default:
			b.logger.Debug("ignored frame", "type", f.Type)
		}
	}
}

func (b *Bridge) writePump() {
	ticker := time.NewTicker(b.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = b.conn.Close()
	}()

	for {
		select {
		case data := <-b.send:
			_ = b.conn.SetWriteDeadline(time.Now().Add(b.cfg.WriteTimeout))
			if err := b.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				b.logger.Warn("write failed", "err", err)
				b.down()
				return
			}
			b.sent.Add(1)
		case <-ticker.C:
			_ = b.conn.SetWriteDeadline(time.Now().Add(b.cfg.WriteTimeout))
			if err := b.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				b.down()
				return
			}
		case <-b.done:
			b.flush()
			_ = b.conn.SetWriteDeadline(time.Now().Add(b.cfg.WriteTimeout))
			_ = b.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes frames queued before shutdown, best effort
func (b *Bridge) flush() {
	for {
		select {
		case data := <-b.send:
			_ = b.conn.SetWriteDeadline(time.Now().Add(b.cfg.WriteTimeout))
			if err := b.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
			b.sent.Add(1)
		default:
			return
		}
	}
}

// down marks the link unavailable and unblocks both pumps
func (b *Bridge) down() {
	if b.connected.CompareAndSwap(true, false) {
		b.logger.Info("link down")
	}
	b.closeOnce.Do(func() { close(b.done) })
}

// Close shuts the link and waits for the pumps to exit
func (b *Bridge) Close() error {
	b.down()
	b.wg.Wait()
	return nil
}
