// Package hub fans tracker events and camera frames out to websocket clients.
//
// Events are queued per client and delivered in order; a client that falls
// too far behind on events is disconnected. Frames are not queued: each
// client holds only the newest frame, so a slow viewer sees a lower frame
// rate instead of growing latency.
package hub

// Kind selects how a message is queued and framed on the wire.
type Kind uint8

const (
	KindEvent Kind = iota // JSON text, in order
	KindFrame             // binary JPEG, newest wins
)

// Message is one payload for every client of a hub.
type Message struct {
	Kind Kind
	Data []byte
}

// EventMessage wraps pre-encoded JSON.
func EventMessage(data []byte) Message {
	return Message{Kind: KindEvent, Data: data}
}

// FrameMessage wraps an encoded camera frame.
func FrameMessage(data []byte) Message {
	return Message{Kind: KindFrame, Data: data}
}
