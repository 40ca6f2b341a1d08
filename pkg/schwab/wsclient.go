package schwab

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait               = 5 * time.Second
	defaultHandshakeTimeout = 10 * time.Second
	defaultReconnectInitial = 500 * time.Millisecond
	defaultReconnectMax     = 30 * time.Second
)

// ErrClosed is returned by SubmitCommand after Close.
var ErrClosed = errors.New("schwab: streamer connection closed")

// TokenSource supplies the live bearer credential used at login.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same credential.
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("empty access token")
	}
	return string(t), nil
}

type queuedCommand struct {
	service Service
	kind    CommandKind
	payload []byte
}

// WSClient owns the streamer websocket: dial, login handshake, the login gate
// that buffers commands until the session is authenticated, and redial while
// there is outstanding demand.
type WSClient struct {
	info     StreamerInfo
	tokens   TokenSource
	dialer   *websocket.Dialer
	handler  func([]byte) error
	logger   *zap.Logger
	observer Observer

	handshakeTimeout time.Duration
	readTimeout      time.Duration
	reconnectInitial time.Duration
	reconnectMax     time.Duration

	// demand reports subscription state that should survive a transport drop;
	// onReconnect runs after every re-established transport, before login completes.
	demand      func() bool
	onReconnect func()

	wake chan struct{}

	mu        sync.Mutex
	conn      *websocket.Conn
	loggedIn  bool
	closing   bool
	requestID int64
	pending   []queuedCommand
}

// Option configures a WSClient.
type Option func(*WSClient)

func WithLogger(logger *zap.Logger) Option {
	return func(c *WSClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *WSClient) {
		if o != nil {
			c.observer = o
		}
	}
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *WSClient) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithHandshakeTimeout bounds dialing the streamer.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *WSClient) {
		if d > 0 {
			c.handshakeTimeout = d
		}
	}
}

// WithReadTimeout drops the transport when nothing, heartbeats included, arrives for d.
func WithReadTimeout(d time.Duration) Option {
	return func(c *WSClient) {
		c.readTimeout = d
	}
}

// WithReconnectBackoff sets the exponential redial delay bounds.
func WithReconnectBackoff(initial, max time.Duration) Option {
	return func(c *WSClient) {
		if initial > 0 {
			c.reconnectInitial = initial
		}
		if max > 0 {
			c.reconnectMax = max
		}
	}
}

// NewWSClient creates a streamer connection for the session described by info.
func NewWSClient(info StreamerInfo, tokens TokenSource, opts ...Option) *WSClient {
	c := &WSClient{
		info:             info,
		tokens:           tokens,
		dialer:           websocket.DefaultDialer,
		logger:           zap.NewNop(),
		observer:         NopObserver,
		handshakeTimeout: defaultHandshakeTimeout,
		reconnectInitial: defaultReconnectInitial,
		reconnectMax:     defaultReconnectMax,
		wake:             make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetMessageHandler sets the function that processes every inbound message.
// A returned error ends Run.
func (c *WSClient) SetMessageHandler(h func([]byte) error) {
	c.handler = h
}

// SetReconnectHooks registers extra outstanding demand and a callback run after redial.
func (c *WSClient) SetReconnectHooks(demand func() bool, onReconnect func()) {
	c.demand = demand
	c.onReconnect = onReconnect
}

// Run opens the transport, logs in, and processes inbound messages serially until
// Close, a LOGOUT acknowledgement, context cancellation, or a protocol error.
// Transport errors are recovered by redialing while there is demand.
func (c *WSClient) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.reconnectInitial
	b.MaxInterval = c.reconnectMax

	first := true
	for {
		if c.isClosing() {
			return ctx.Err()
		}

		if !first && !c.hasDemand() {
			c.logger.Info("Streamer idle, waiting for commands")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.wake:
			}
			if c.isClosing() {
				return ctx.Err()
			}
		}

		conn, err := c.open(ctx)
		if err != nil {
			if c.isClosing() || ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("Retrying streamer connect...", zap.Error(err))
			if !sleepCtx(ctx, b.NextBackOff()) {
				return ctx.Err()
			}
			continue
		}
		b.Reset()
		select {
		case <-c.wake:
		default:
		}

		if !first {
			c.observer.Reconnected()
			c.logger.Info("Reconnected successfully")
			if c.onReconnect != nil {
				c.onReconnect()
			}
		}
		first = false

		err = c.listen(conn)
		if c.isClosing() {
			return ctx.Err()
		}
		if IsProtocolError(err) {
			c.observer.ProtocolFault(err)
			c.Close()
			return err
		}

		c.logger.Error("Streamer read error", zap.Error(err))
		c.dropConnection(conn)
		if !sleepCtx(ctx, b.NextBackOff()) {
			return ctx.Err()
		}
	}
}

func (c *WSClient) open(ctx context.Context) (*websocket.Conn, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.handshakeTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(dialCtx, c.info.SocketURL, nil)
	if err != nil {
		c.logger.Error("Failed to connect to streamer", zap.String("url", c.info.SocketURL), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		_ = conn.Close()
		return nil, ErrClosed
	}

	c.conn = conn
	c.loggedIn = false
	c.observer.LoggedIn(false)

	login := Command{
		Service: ServiceAdmin,
		Command: CommandLogin,
		Parameters: map[string]string{
			"Authorization":          token,
			"SchwabClientChannel":    c.info.Channel,
			"SchwabClientFunctionId": c.info.FunctionID,
		},
	}
	payload, err := c.stampLocked(&login)
	if err != nil {
		return nil, err
	}
	if err := c.writeLocked(payload); err != nil {
		_ = conn.Close()
		c.conn = nil
		return nil, fmt.Errorf("websocket login failed: %w", err)
	}
	c.observer.CommandSent(ServiceAdmin, CommandLogin)
	c.logger.Info("Streamer connected, login sent",
		zap.String("url", c.info.SocketURL), zap.String("requestid", login.RequestID))

	return conn, nil
}

func (c *WSClient) listen(conn *websocket.Conn) error {
	for {
		if c.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("websocket read: %w", err)
		}

		if c.handler != nil {
			if err := c.handler(msg); err != nil {
				return err
			}
		}
	}
}

// SubmitCommand stamps the command with the next request id and the session
// identifiers, then writes it if the session is logged in or queues it behind
// the login gate otherwise. It never blocks on the network beyond a single write.
func (c *WSClient) SubmitCommand(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return ErrClosed
	}

	payload, err := c.stampLocked(&cmd)
	if err != nil {
		return err
	}

	if c.loggedIn && c.conn != nil {
		err := c.writeLocked(payload)
		if err == nil {
			c.observer.CommandSent(cmd.Service, cmd.Command)
			return nil
		}
		// Requeue and let the reader notice the broken transport.
		c.logger.Warn("Streamer write failed, queueing command",
			zap.String("service", string(cmd.Service)), zap.Error(err))
		c.loggedIn = false
		_ = c.conn.Close()
	}

	c.pending = append(c.pending, queuedCommand{service: cmd.Service, kind: cmd.Command, payload: payload})
	c.logger.Debug("Command queued until login",
		zap.String("service", string(cmd.Service)),
		zap.String("command", string(cmd.Command)),
		zap.String("requestid", cmd.RequestID),
		zap.Int("pending", len(c.pending)))

	if c.conn == nil {
		c.signal()
	}
	return nil
}

// LoginSucceeded opens the gate and flushes queued commands in submission order.
func (c *WSClient) LoginSucceeded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	c.loggedIn = true
	c.observer.LoggedIn(true)

	flushed := 0
	for _, q := range c.pending {
		if err := c.writeLocked(q.payload); err != nil {
			c.logger.Warn("Flush interrupted", zap.Error(err), zap.Int("remaining", len(c.pending)-flushed))
			c.loggedIn = false
			_ = c.conn.Close()
			break
		}
		c.observer.CommandSent(q.service, q.kind)
		flushed++
	}
	c.pending = c.pending[flushed:]
	if len(c.pending) == 0 {
		c.pending = nil
	}
	c.logger.Info("Streamer logged in", zap.Int("flushed", flushed))
}

// MarkLoggedOut closes the gate after the server stopped streaming. The transport is
// dropped so the next submitted command redials and performs a fresh login.
func (c *WSClient) MarkLoggedOut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loggedIn = false
	c.observer.LoggedIn(false)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Close ends the session. Run returns once the reader observes it.
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return
	}
	c.closing = true
	c.loggedIn = false
	if c.conn != nil {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = c.conn.Close()
		c.conn = nil
	}
	c.signal()
}

// LoggedIn reports whether the login gate is open.
func (c *WSClient) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

// Pending returns the number of commands waiting for login.
func (c *WSClient) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// HasPending reports whether a command of kind for service is still waiting for login.
func (c *WSClient) HasPending(service Service, kind CommandKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, q := range c.pending {
		if q.service == service && q.kind == kind {
			return true
		}
	}
	return false
}

func (c *WSClient) stampLocked(cmd *Command) ([]byte, error) {
	c.requestID++
	cmd.RequestID = strconv.FormatInt(c.requestID, 10)
	cmd.CustomerID = c.info.CustomerID
	cmd.CorrelID = c.info.CorrelID
	return cmd.Encode()
}

func (c *WSClient) writeLocked(payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *WSClient) dropConnection(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = conn.Close()
	if c.conn == conn {
		c.conn = nil
	}
	c.loggedIn = false
	c.observer.LoggedIn(false)
}

func (c *WSClient) hasDemand() bool {
	c.mu.Lock()
	queued := len(c.pending) > 0
	c.mu.Unlock()

	if queued {
		return true
	}
	return c.demand != nil && c.demand()
}

func (c *WSClient) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

func (c *WSClient) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
