package platform

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Frame types exchanged with the host application
const (
	FrameHello  = "hello"  // Host to client: player identity and theme
	FrameHaptic = "haptic" // Client to host
	FrameShare  = "share"  // Client to host
	FrameEvent  = "event"  // Client to host, informational race events
)

// Frame is the single binary message shape on the bridge, msgpack encoded
type Frame struct {
	Type    string        `msgpack:"type"`
	Session string        `msgpack:"session,omitempty"`
	Seq     uint64        `msgpack:"seq"`
	Haptic  string        `msgpack:"haptic,omitempty"`
	Share   *SharePayload `msgpack:"share,omitempty"`
	Event   *EventPayload `msgpack:"event,omitempty"`
	Hello   *HelloPayload `msgpack:"hello,omitempty"`
}

// SharePayload carries the formatted result text and the raw total
type SharePayload struct {
	Text    string `msgpack:"text"`
	TotalMS int64  `msgpack:"total_ms"`
	BestMS  int64  `msgpack:"best_ms"`
	Player  string `msgpack:"player"`
	Vehicle string `msgpack:"vehicle"`
}

// EventPayload carries a race event name and its encoded payload
type EventPayload struct {
	Name  string `msgpack:"name"`
	Frame int64  `msgpack:"frame"`
	Data  []byte `msgpack:"data,omitempty"`
}

// HelloPayload is sent by the host once after connecting
type HelloPayload struct {
	PlayerName string        `msgpack:"player_name"`
	PlayerID   string        `msgpack:"player_id"`
	Theme      *ThemePayload `msgpack:"theme,omitempty"`
}

// ThemePayload carries the host color scheme as #rrggbb strings, any may be empty
type ThemePayload struct {
	Background string `msgpack:"bg_color"`
	Text       string `msgpack:"text_color"`
	Hint       string `msgpack:"hint_color"`
	Link       string `msgpack:"link_color"`
	Button     string `msgpack:"button_color"`
	ButtonText string `msgpack:"button_text_color"`
}

// EncodeFrame serializes f
func EncodeFrame(f *Frame) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", f.Type, err)
	}
	return data, nil
}

// DecodeFrame parses one bridge message
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &f, nil
}
