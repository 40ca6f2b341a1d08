package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"schwabstream/internal/memorystore"
	"schwabstream/pkg/schwab"

	"go.uber.org/zap"
)

// Submitter is the outbound half of the Connection Manager.
type Submitter interface {
	SubmitCommand(cmd schwab.Command) error
}

// Record is a typed per-key record that absorbs field deltas.
// Merge must ignore unknown field identifiers and must not accumulate state.
type Record interface {
	SetKey(key string)
	Merge(field int, raw json.RawMessage) error
}

// envelopeMerger is implemented by records that keep envelope metadata
// ("delayed", "assetMainType", ...) next to their numeric fields.
type envelopeMerger interface {
	MergeEnvelope(rec schwab.Record)
}

// pendingReporter is implemented by connections that queue commands behind the login gate.
type pendingReporter interface {
	HasPending(service schwab.Service, kind schwab.CommandKind) bool
}

// subsPending reports whether conn still holds an unsent SUBS for service.
// That SUBS, and everything queued after it, is flushed on login.
func subsPending(conn Submitter, service schwab.Service) bool {
	pr, ok := conn.(pendingReporter)
	return ok && pr.HasPending(service, schwab.CommandSubs)
}

type recordPtr[T any] interface {
	*T
	Record
}

// MergeStyle selects how an inbound record is applied to the snapshot.
type MergeStyle int

const (
	// MergeInPlace finds or creates the record and updates only the fields present.
	MergeInPlace MergeStyle = iota
	// ReplaceWhole builds a fresh record from each update.
	ReplaceWhole
)

// State is the subscription state of one service.
type State int

const (
	Unsubscribed State = iota
	Subscribing
	Subscribed
)

func (s State) String() string {
	switch s {
	case Unsubscribed:
		return "unsubscribed"
	case Subscribing:
		return "subscribing"
	case Subscribed:
		return "subscribed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Snapshot is a point-in-time copy of a service's retained records, ordered by key.
type Snapshot[T any] struct {
	Service   schwab.Service
	Timestamp time.Time
	Records   []T
	Keys      []string // key of each record, parallel to Records
	Updated   []string // keys changed by the frame that produced this snapshot
}

// Callback receives the snapshot after every applied data frame and after Remove.
// Data callbacks run on the inbound path, so a slow callback stalls every service.
// The Remove callback runs on the goroutine that called Remove and may overlap a
// data callback for the same service.
type Callback[T any] func(Snapshot[T])

// Handler is the generic per-service subscription state machine.
type Handler[T any, P recordPtr[T]] struct {
	meta     schwab.ServiceMeta
	style    MergeStyle
	conn     Submitter
	logger   *zap.Logger
	observer schwab.Observer

	mu        sync.Mutex
	state     State
	keys      *memorystore.KeySet
	fields    string
	records   map[string]P
	timestamp time.Time
	callback  Callback[T]
}

// NewHandler builds a handler for a keyed service.
func NewHandler[T any, P recordPtr[T]](service schwab.Service, style MergeStyle, conn Submitter,
	logger *zap.Logger, observer schwab.Observer) (*Handler[T, P], error) {
	meta, err := schwab.ParseService(string(service))
	if err != nil {
		return nil, err
	}
	if !meta.Keyed {
		return nil, fmt.Errorf("service %s is not keyed", service)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = schwab.NopObserver
	}
	return &Handler[T, P]{
		meta:     meta,
		style:    style,
		conn:     conn,
		logger:   logger.With(zap.String("service", string(service))),
		observer: observer,
		keys:     memorystore.NewKeySet(),
		records:  make(map[string]P),
	}, nil
}

func (h *Handler[T, P]) Service() schwab.Service {
	return h.meta.Name
}

// Request replaces the subscription with keys and registers cb. An empty field
// list subscribes every field the service defines.
func (h *Handler[T, P]) Request(keys []string, fields string, cb Callback[T]) error {
	if cb == nil {
		return ErrNilCallback
	}
	keys = normalizeKeys(keys)
	if len(keys) == 0 {
		return ErrNoKeys
	}
	if fields = schwab.SortFields(fields); fields == "" {
		fields = h.meta.AllFields
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.keys.Set(keys)
	h.records = make(map[string]P)
	h.fields = fields
	h.callback = cb
	h.state = Subscribing

	return h.submitLocked(schwab.CommandSubs, keys)
}

// Add subscribes keys that are not active yet. Existing records are untouched.
func (h *Handler[T, P]) Add(keys ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.callback == nil {
		return schwab.ErrNotSubscribed
	}
	added := h.keys.Add(normalizeKeys(keys)...)
	if len(added) == 0 {
		return nil
	}

	// The server holds nothing for this service once the last key was removed.
	if h.state == Unsubscribed {
		h.state = Subscribing
		return h.submitLocked(schwab.CommandSubs, added)
	}
	return h.submitLocked(schwab.CommandAdd, added)
}

// Remove unsubscribes the active subset of keys and reports the shrunken snapshot.
func (h *Handler[T, P]) Remove(keys ...string) error {
	h.mu.Lock()

	if h.callback == nil {
		h.mu.Unlock()
		return schwab.ErrNotSubscribed
	}
	removed := h.keys.Remove(normalizeKeys(keys)...)
	if len(removed) == 0 {
		h.mu.Unlock()
		return nil
	}
	for _, k := range removed {
		delete(h.records, k)
	}
	if h.keys.Len() == 0 {
		h.state = Unsubscribed
	}

	if err := h.submitLocked(schwab.CommandUnsubs, removed); err != nil {
		h.mu.Unlock()
		return err
	}
	snap, cb := h.snapshotLocked(), h.callback
	h.mu.Unlock()

	cb(snap)
	return nil
}

// View changes the field list of the running subscription.
func (h *Handler[T, P]) View(fields string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.callback == nil {
		return schwab.ErrNotSubscribed
	}
	if fields = schwab.SortFields(fields); fields == "" {
		fields = h.meta.AllFields
	}
	h.fields = fields

	cmd := schwab.NewCommand(h.meta.Name, schwab.CommandView, "", h.fields)
	return h.conn.SubmitCommand(cmd)
}

func (h *Handler[T, P]) submitLocked(kind schwab.CommandKind, keys []string) error {
	cmd := schwab.NewCommand(h.meta.Name, kind, strings.Join(keys, ","), h.fields)
	if kind == schwab.CommandUnsubs {
		delete(cmd.Parameters, "fields")
	}
	if err := h.conn.SubmitCommand(cmd); err != nil {
		return fmt.Errorf("%s %s: %w", h.meta.Name, kind, err)
	}
	return nil
}

// HandleData merges every record whose key is active and invokes the callback
// once per frame. Records for inactive keys are dropped.
func (h *Handler[T, P]) HandleData(frame schwab.DataFrame) error {
	h.mu.Lock()

	var updated []string
	for _, rec := range frame.Content {
		key := rec.Key()
		if !h.keys.Contains(key) {
			h.observer.StaleRecordDropped(h.meta.Name)
			h.logger.Debug("Dropped record for inactive key", zap.String("key", key))
			continue
		}

		var p P
		if existing, ok := h.records[key]; ok && h.style == MergeInPlace {
			p = existing
		} else {
			p = P(new(T))
			p.SetKey(key)
		}
		if em, ok := any(p).(envelopeMerger); ok {
			em.MergeEnvelope(rec)
		}
		if err := mergeRecord(p, rec); err != nil {
			h.logger.Warn("Skipped undecodable fields", zap.String("key", key), zap.Error(err))
		}
		h.records[key] = p
		updated = append(updated, key)
	}

	if len(updated) == 0 {
		h.mu.Unlock()
		return nil
	}
	h.timestamp = frame.Time()
	snap, cb := h.snapshotLocked(), h.callback
	h.mu.Unlock()

	sort.Strings(updated)
	snap.Updated = slices.Compact(updated)

	if cb != nil {
		cb(snap)
	}
	return nil
}

// HandleResponse treats any non-success code as fatal for the session.
func (h *Handler[T, P]) HandleResponse(resp schwab.ResponseFrame) error {
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
		h.records = make(map[string]P)
		if h.keys.Len() > 0 {
			h.state = Subscribed
		}
		h.mu.Unlock()
	case schwab.CommandAdd, schwab.CommandUnsubs, schwab.CommandView:
	default:
		return &schwab.ProtocolError{Service: resp.Service, Command: resp.Command, Err: schwab.ErrUnexpectedFrame}
	}

	h.logger.Debug("Command acknowledged",
		zap.String("command", string(resp.Command)),
		zap.String("requestid", resp.RequestID),
		zap.Int("code", resp.Content.Code))
	return nil
}

func (h *Handler[T, P]) HandleNotify(n schwab.NotifyFrame) error {
	h.logger.Info("Service notification", zap.Int("code", n.Content.Code), zap.String("msg", n.Content.Msg))
	return nil
}

// HasDemand reports whether the service holds subscriptions worth a reconnect.
func (h *Handler[T, P]) HasDemand() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state != Unsubscribed && h.keys.Len() > 0
}

// Resubscribe re-submits SUBS for the current keys and fields after a reconnect.
func (h *Handler[T, P]) Resubscribe() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.callback == nil || h.state == Unsubscribed || h.keys.Len() == 0 {
		return nil
	}
	h.records = make(map[string]P)
	h.state = Subscribing
	if subsPending(h.conn, h.meta.Name) {
		h.logger.Debug("SUBS still queued, skipping replay")
		return nil
	}
	return h.submitLocked(schwab.CommandSubs, h.keys.GetAll())
}

func (h *Handler[T, P]) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Keys returns the active key set in sorted order.
func (h *Handler[T, P]) Keys() []string {
	return h.keys.GetAll()
}

func (h *Handler[T, P]) Fields() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fields
}

func (h *Handler[T, P]) Snapshot() Snapshot[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Handler[T, P]) snapshotLocked() Snapshot[T] {
	keys := make([]string, 0, len(h.records))
	for k := range h.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snap := Snapshot[T]{Service: h.meta.Name, Timestamp: h.timestamp, Records: make([]T, 0, len(keys)), Keys: keys}
	for _, k := range keys {
		snap.Records = append(snap.Records, *h.records[k])
	}
	return snap
}

// mergeRecord applies every numeric field of rec. Envelope keys are skipped.
func mergeRecord(dst Record, rec schwab.Record) error {
	var errs []error
	for name, raw := range rec {
		id, ok := schwab.FieldID(name)
		if !ok {
			continue
		}
		if err := dst.Merge(id, raw); err != nil {
			errs = append(errs, fmt.Errorf("field %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// normalizeKeys trims, uppercases and dedupes keys, keeping first-seen order.
func normalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
