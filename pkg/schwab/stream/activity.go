package stream

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"schwabstream/pkg/schwab"

	"go.uber.org/zap"
)

const (
	activityKey    = "Account Activity"
	activityFields = "0,1,2,3"
)

// ActivityKind tags the payload decoded from an account activity message.
type ActivityKind int

const (
	ActivityUnknown ActivityKind = iota
	ActivitySubscribed
	ActivityError
	ActivityOrder
	ActivityFill
)

func (k ActivityKind) String() string {
	switch k {
	case ActivitySubscribed:
		return "subscribed"
	case ActivityError:
		return "error"
	case ActivityOrder:
		return "order"
	case ActivityFill:
		return "fill"
	}
	return "unknown"
}

// ActivityPayload is one of SubscribedActivity, StreamError, OrderEvent, FillEvent or UnknownActivity.
type ActivityPayload interface {
	Kind() ActivityKind
}

// SubscribedActivity confirms the activity stream is live.
type SubscribedActivity struct {
	Message string `json:"message"`
}

func (SubscribedActivity) Kind() ActivityKind { return ActivitySubscribed }

// StreamError is an error pushed on the activity stream.
type StreamError struct {
	Message string `json:"message"`
}

func (StreamError) Kind() ActivityKind { return ActivityError }

// OrderEvent covers order lifecycle messages (created, accepted, cancel/change accepted, rejected).
type OrderEvent struct {
	SchwabOrderID string          `json:"SchwabOrderID"`
	AccountNumber string          `json:"AccountNumber"`
	EventType     string          `json:"eventType"`
	Detail        json.RawMessage `json:"detail,omitempty"`
}

func (OrderEvent) Kind() ActivityKind { return ActivityOrder }

// FillEvent covers execution messages.
type FillEvent struct {
	OrderEvent
}

func (FillEvent) Kind() ActivityKind { return ActivityFill }

// UnknownActivity keeps messages whose type is not recognized, or whose payload
// did not match the expected shape.
type UnknownActivity struct {
	Type string `json:"type"`
	Raw  string `json:"raw"`
}

func (UnknownActivity) Kind() ActivityKind { return ActivityUnknown }

// Activity is one account activity message.
type Activity struct {
	Account string          `json:"account"`
	Type    string          `json:"type"`
	Payload ActivityPayload `json:"payload"`
	Raw     string          `json:"raw"`
}

// ActivityUpdate is delivered once per data frame with the frame's distinct activities.
type ActivityUpdate struct {
	Timestamp  time.Time
	Activities []Activity
}

type activityDecoder func(raw string) (ActivityPayload, error)

var activityDecoders = map[string]activityDecoder{
	"SUBSCRIBED":                func(raw string) (ActivityPayload, error) { return SubscribedActivity{Message: raw}, nil },
	"ERROR":                     func(raw string) (ActivityPayload, error) { return StreamError{Message: raw}, nil },
	"OrderCreated":              decodeOrderEvent,
	"OrderAccepted":             decodeOrderEvent,
	"OrderUROutCompleted":       decodeOrderEvent,
	"CancelAccepted":            decodeOrderEvent,
	"ChangeAccepted":            decodeOrderEvent,
	"OrderRejected":             decodeOrderEvent,
	"ExecutionCreated":          decodeFillEvent,
	"OrderFillCompleted":        decodeFillEvent,
	"ExecutionRequestCompleted": decodeFillEvent,
}

type wireOrderEvent struct {
	SchwabOrderID string                     `json:"SchwabOrderID"`
	AccountNumber string                     `json:"AccountNumber"`
	BaseEvent     map[string]json.RawMessage `json:"BaseEvent"`
}

func decodeOrderEvent(raw string) (ActivityPayload, error) {
	var w wireOrderEvent
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("decode order event: %w", err)
	}
	ev := OrderEvent{SchwabOrderID: w.SchwabOrderID, AccountNumber: w.AccountNumber}
	if t, ok := w.BaseEvent["EventType"]; ok {
		_ = json.Unmarshal(t, &ev.EventType)
		ev.Detail = w.BaseEvent[ev.EventType]
	}
	return ev, nil
}

func decodeFillEvent(raw string) (ActivityPayload, error) {
	p, err := decodeOrderEvent(raw)
	if err != nil {
		return nil, err
	}
	return FillEvent{OrderEvent: p.(OrderEvent)}, nil
}

// DecodeActivity resolves a message type to its payload. Unrecognized types and
// malformed payloads come back as UnknownActivity.
func DecodeActivity(msgType, raw string) ActivityPayload {
	dec, ok := activityDecoders[msgType]
	if !ok {
		return UnknownActivity{Type: msgType, Raw: raw}
	}
	p, err := dec(raw)
	if err != nil {
		return UnknownActivity{Type: msgType, Raw: raw}
	}
	return p
}

// ActivityHandler serves ACCT_ACTIVITY: a single always-on stream without key filtering.
type ActivityHandler struct {
	conn     Submitter
	logger   *zap.Logger
	observer schwab.Observer

	mu       sync.Mutex
	state    State
	callback func(ActivityUpdate)
}

func NewActivityHandler(conn Submitter, logger *zap.Logger, observer schwab.Observer) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = schwab.NopObserver
	}
	return &ActivityHandler{
		conn:     conn,
		logger:   logger.With(zap.String("service", string(schwab.ServiceAccountActivity))),
		observer: observer,
	}
}

func (h *ActivityHandler) Service() schwab.Service {
	return schwab.ServiceAccountActivity
}

// Request subscribes to account activity for every account on the login.
func (h *ActivityHandler) Request(cb func(ActivityUpdate)) error {
	if cb == nil {
		return ErrNilCallback
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.callback = cb
	h.state = Subscribing
	return h.conn.SubmitCommand(schwab.NewCommand(schwab.ServiceAccountActivity, schwab.CommandSubs, activityKey, activityFields))
}

func (h *ActivityHandler) Unsubscribe() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.callback == nil {
		return schwab.ErrNotSubscribed
	}
	h.state = Unsubscribed
	return h.conn.SubmitCommand(schwab.NewCommand(schwab.ServiceAccountActivity, schwab.CommandUnsubs, activityKey, ""))
}

func (h *ActivityHandler) HandleData(frame schwab.DataFrame) error {
	h.mu.Lock()
	cb := h.callback
	active := h.state != Unsubscribed
	h.mu.Unlock()

	if cb == nil || !active {
		for range frame.Content {
			h.observer.StaleRecordDropped(schwab.ServiceAccountActivity)
		}
		return nil
	}

	seen := make(map[[3]string]struct{}, len(frame.Content))
	update := ActivityUpdate{Timestamp: frame.Time()}
	for _, rec := range frame.Content {
		var a Activity
		if raw, ok := rec["1"]; ok {
			_ = setString(&a.Account, raw)
		}
		if raw, ok := rec["2"]; ok {
			_ = setString(&a.Type, raw)
		}
		if raw, ok := rec["3"]; ok {
			_ = setString(&a.Raw, raw)
		}

		id := [3]string{a.Account, a.Type, a.Raw}
		if _, dup := seen[id]; dup {
			h.logger.Debug("Dropped repeated activity", zap.String("account", a.Account), zap.String("type", a.Type))
			continue
		}
		seen[id] = struct{}{}

		a.Payload = DecodeActivity(a.Type, a.Raw)
		if a.Payload.Kind() == ActivityUnknown {
			h.logger.Info("Unrecognized account activity", zap.String("type", a.Type))
		}
		update.Activities = append(update.Activities, a)
	}

	if len(update.Activities) > 0 {
		cb(update)
	}
	return nil
}

func (h *ActivityHandler) HandleResponse(resp schwab.ResponseFrame) error {
	if !schwab.IsSuccessCode(resp.Content.Code) {
		return &schwab.ProtocolError{
			Service: resp.Service,
			Command: resp.Command,
			Code:    resp.Content.Code,
			Message: resp.Content.Msg,
			Err:     schwab.ErrCommandFailed,
		}
	}
	switch resp.Command {
	case schwab.CommandSubs:
		h.mu.Lock()
		if h.state == Subscribing {
			h.state = Subscribed
		}
		h.mu.Unlock()
	case schwab.CommandUnsubs, schwab.CommandAdd, schwab.CommandView:
	default:
		return &schwab.ProtocolError{Service: resp.Service, Command: resp.Command, Err: schwab.ErrUnexpectedFrame}
	}
	return nil
}

func (h *ActivityHandler) HandleNotify(n schwab.NotifyFrame) error {
	h.logger.Info("Service notification", zap.Int("code", n.Content.Code), zap.String("msg", n.Content.Msg))
	return nil
}

func (h *ActivityHandler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *ActivityHandler) HasDemand() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state != Unsubscribed
}

func (h *ActivityHandler) Resubscribe() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.callback == nil || h.state == Unsubscribed {
		return nil
	}
	h.state = Subscribing
	if subsPending(h.conn, schwab.ServiceAccountActivity) {
		return nil
	}
	return h.conn.SubmitCommand(schwab.NewCommand(schwab.ServiceAccountActivity, schwab.CommandSubs, activityKey, activityFields))
}
