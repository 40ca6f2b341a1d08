package schwab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Command is one outbound streamer request. RequestID, CustomerID and CorrelID
// are stamped by the WSClient when the command is submitted.
type Command struct {
	RequestID  string            `json:"requestid"`
	Service    Service           `json:"service"`
	Command    CommandKind       `json:"command"`
	CustomerID string            `json:"SchwabClientCustomerId"`
	CorrelID   string            `json:"SchwabClientCorrelId"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// NewCommand builds a keyed command. Empty keys or fields are left out of the parameters.
func NewCommand(service Service, kind CommandKind, keys, fields string) Command {
	params := map[string]string{}
	if keys != "" {
		params["keys"] = keys
	}
	if fields != "" {
		params["fields"] = fields
	}
	return Command{Service: service, Command: kind, Parameters: params}
}

// Encode serializes the command to its wire form.
func (c Command) Encode() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", c.Service, c.Command, err)
	}
	return b, nil
}

// Content is the status block of response and notify frames.
type Content struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// ResponseFrame acknowledges a command.
type ResponseFrame struct {
	Service   Service     `json:"service"`
	Command   CommandKind `json:"command"`
	RequestID string      `json:"requestid"`
	CorrelID  string      `json:"SchwabClientCorrelId"`
	Timestamp int64       `json:"timestamp"`
	Content   Content     `json:"content"`
}

// NotifyFrame is a server-initiated event. Heartbeats carry no service.
type NotifyFrame struct {
	Service   Service `json:"service"`
	Timestamp int64   `json:"timestamp"`
	Content   Content `json:"content"`
	Heartbeat string  `json:"heartbeat"`
}

// IsHeartbeat reports whether the notification is a keep-alive.
func (n NotifyFrame) IsHeartbeat() bool {
	return n.Service == "" && n.Heartbeat != ""
}

// Record is one per-key partial update inside a data frame, keyed by field identifier
// plus envelope keys such as "key" and "delayed".
type Record map[string]json.RawMessage

// Key returns the record's subscription key, or "" when it has none.
func (r Record) Key() string {
	raw, ok := r["key"]
	if !ok {
		return ""
	}
	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return ""
	}
	return key
}

// DataFrame carries field deltas for one service.
type DataFrame struct {
	Service   Service     `json:"service"`
	Timestamp int64       `json:"timestamp"`
	Command   CommandKind `json:"command"`
	Content   []Record    `json:"content"`
}

// Time converts the frame timestamp.
func (d DataFrame) Time() time.Time {
	return time.UnixMilli(d.Timestamp).UTC()
}

// FrameKind classifies an inbound message.
type FrameKind int

const (
	FrameResponse FrameKind = iota + 1
	FrameNotify
	FrameData
	FrameHeartbeat
)

func (k FrameKind) String() string {
	switch k {
	case FrameResponse:
		return "response"
	case FrameNotify:
		return "notify"
	case FrameData:
		return "data"
	case FrameHeartbeat:
		return "heartbeat"
	}
	return "unknown"
}

// Message is a decoded inbound websocket message. Exactly one of the slices is populated.
type Message struct {
	Kind      FrameKind
	Responses []ResponseFrame
	Notifies  []NotifyFrame
	Data      []DataFrame
}

type envelope struct {
	Response []ResponseFrame `json:"response"`
	Notify   []NotifyFrame   `json:"notify"`
	Data     []DataFrame     `json:"data"`
}

// Decode classifies a raw inbound message by its top-level key and decodes the
// envelope. Per-record typed decoding is left to the owning service handler.
// Heartbeat notifications are stripped; a message holding only heartbeats has Kind FrameHeartbeat.
func Decode(raw []byte) (*Message, error) {
	raw = bytes.TrimSpace(raw)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ProtocolError{Err: fmt.Errorf("%w: %v", ErrMalformedFrame, err)}
	}

	switch {
	case env.Response != nil:
		return &Message{Kind: FrameResponse, Responses: env.Response}, nil
	case env.Data != nil:
		return &Message{Kind: FrameData, Data: env.Data}, nil
	case env.Notify != nil:
		msg := &Message{Kind: FrameNotify}
		for _, n := range env.Notify {
			if n.IsHeartbeat() {
				continue
			}
			msg.Notifies = append(msg.Notifies, n)
		}
		if len(msg.Notifies) == 0 {
			msg.Kind = FrameHeartbeat
		}
		return msg, nil
	}

	return nil, &ProtocolError{Err: fmt.Errorf("%w: %.120s", ErrUnexpectedFrame, raw)}
}
