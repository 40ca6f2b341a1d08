package stream

import (
	"fmt"

	"schwabstream/pkg/schwab"

	"go.uber.org/zap"
)

// ServiceHandler consumes the inbound frames of one service.
type ServiceHandler interface {
	Service() schwab.Service
	HandleResponse(resp schwab.ResponseFrame) error
	HandleData(frame schwab.DataFrame) error
	HandleNotify(n schwab.NotifyFrame) error
}

// Router dispatches decoded frames to the handler registered for their service.
// It is driven by a single reader, so handlers never run concurrently.
type Router struct {
	handlers        map[schwab.Service]ServiceHandler
	logger          *zap.Logger
	observer        schwab.Observer
	onStopStreaming func()
}

func NewRouter(logger *zap.Logger, observer schwab.Observer) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = schwab.NopObserver
	}
	return &Router{
		handlers: make(map[schwab.Service]ServiceHandler),
		logger:   logger,
		observer: observer,
	}
}

// Register adds a handler. Registrations are expected to be complete before the first Route.
func (r *Router) Register(h ServiceHandler) error {
	name := h.Service()
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, name)
	}
	r.handlers[name] = h
	return nil
}

// OnStopStreaming sets the hook run when the server reports it stopped streaming.
func (r *Router) OnStopStreaming(fn func()) {
	r.onStopStreaming = fn
}

// Route decodes one raw message and dispatches each frame it holds.
// The returned error is a *schwab.ProtocolError and ends the session.
func (r *Router) Route(raw []byte) error {
	msg, err := schwab.Decode(raw)
	if err != nil {
		return err
	}
	r.observer.FrameReceived(msg.Kind)

	switch msg.Kind {
	case schwab.FrameHeartbeat:
		return nil
	case schwab.FrameResponse:
		for _, resp := range msg.Responses {
			h, err := r.lookup(resp.Service)
			if err != nil {
				return err
			}
			if err := h.HandleResponse(resp); err != nil {
				return err
			}
		}
	case schwab.FrameData:
		for _, frame := range msg.Data {
			h, err := r.lookup(frame.Service)
			if err != nil {
				return err
			}
			if err := h.HandleData(frame); err != nil {
				return err
			}
		}
	case schwab.FrameNotify:
		for _, n := range msg.Notifies {
			if n.Content.Code == schwab.CodeStopStreaming && r.onStopStreaming != nil {
				r.logger.Warn("Server stopped streaming", zap.String("service", string(n.Service)), zap.String("msg", n.Content.Msg))
				r.onStopStreaming()
			}
			h, err := r.lookup(n.Service)
			if err != nil {
				return err
			}
			if err := h.HandleNotify(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Router) lookup(service schwab.Service) (ServiceHandler, error) {
	h, ok := r.handlers[service]
	if !ok {
		return nil, &schwab.ProtocolError{Service: service, Err: schwab.ErrUnknownService}
	}
	return h, nil
}
