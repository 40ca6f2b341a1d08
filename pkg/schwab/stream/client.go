package stream

import (
	"context"
	"errors"

	"schwabstream/pkg/schwab"

	"go.uber.org/zap"
)

// Conn is the Connection Manager as seen by the session. *schwab.WSClient implements it.
type Conn interface {
	SessionControl
	Run(ctx context.Context) error
	SetMessageHandler(h func([]byte) error)
	SetReconnectHooks(demand func() bool, onReconnect func())
}

type resubscriber interface {
	HasDemand() bool
	Resubscribe() error
}

// Client is one streaming session: the connection, the router and a handler per service.
type Client struct {
	conn     Conn
	router   *Router
	logger   *zap.Logger
	observer schwab.Observer
	replay   bool

	Admin           *Admin
	Equities        *LevelOneEquities
	Options         *LevelOneOptions
	Futures         *LevelOneFutures
	FuturesOptions  *LevelOneFuturesOptions
	Forex           *LevelOneForexes
	NYSEBook        *Books
	NasdaqBook      *Books
	ChartEquity     *ChartEquities
	ChartFutures    *ChartFutures
	ScreenerEquity  *Screeners
	ScreenerOption  *Screeners
	AccountActivity *ActivityHandler

	replayable []resubscriber
}

type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithObserver(o schwab.Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithReplay controls whether active subscriptions are re-submitted after a reconnect.
func WithReplay(enabled bool) Option {
	return func(c *Client) {
		c.replay = enabled
	}
}

// NewClient builds the session and installs its router as the connection's message handler.
func NewClient(conn Conn, opts ...Option) (*Client, error) {
	c := &Client{
		conn:     conn,
		logger:   zap.NewNop(),
		observer: schwab.NopObserver,
		replay:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.router = NewRouter(c.logger, c.observer)

	var err error
	c.Admin = NewAdmin(conn, c.logger)
	c.AccountActivity = NewActivityHandler(conn, c.logger, c.observer)
	if c.Equities, err = NewHandler[LevelOneEquity](schwab.ServiceLevelOneEquities, MergeInPlace, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.Options, err = NewHandler[LevelOneOption](schwab.ServiceLevelOneOptions, MergeInPlace, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.Futures, err = NewHandler[LevelOneFuture](schwab.ServiceLevelOneFutures, MergeInPlace, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.FuturesOptions, err = NewHandler[LevelOneFutureOption](schwab.ServiceLevelOneFuturesOptions, MergeInPlace, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.Forex, err = NewHandler[LevelOneForex](schwab.ServiceLevelOneForex, MergeInPlace, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.NYSEBook, err = NewHandler[Book](schwab.ServiceNYSEBook, ReplaceWhole, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.NasdaqBook, err = NewHandler[Book](schwab.ServiceNasdaqBook, ReplaceWhole, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.ChartEquity, err = NewHandler[ChartEquityBar](schwab.ServiceChartEquity, MergeInPlace, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.ChartFutures, err = NewHandler[ChartFuturesBar](schwab.ServiceChartFutures, MergeInPlace, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.ScreenerEquity, err = NewHandler[Screener](schwab.ServiceScreenerEquity, ReplaceWhole, conn, c.logger, c.observer); err != nil {
		return nil, err
	}
	if c.ScreenerOption, err = NewHandler[Screener](schwab.ServiceScreenerOption, ReplaceWhole, conn, c.logger, c.observer); err != nil {
		return nil, err
	}

	handlers := []ServiceHandler{
		c.Admin, c.Equities, c.Options, c.Futures, c.FuturesOptions, c.Forex,
		c.NYSEBook, c.NasdaqBook, c.ChartEquity, c.ChartFutures,
		c.ScreenerEquity, c.ScreenerOption, c.AccountActivity,
	}
	for _, h := range handlers {
		if err := c.router.Register(h); err != nil {
			return nil, err
		}
		if r, ok := h.(resubscriber); ok {
			c.replayable = append(c.replayable, r)
		}
	}
	c.router.OnStopStreaming(c.Admin.StopStreaming)

	conn.SetMessageHandler(c.router.Route)
	if c.replay {
		conn.SetReconnectHooks(c.hasDemand, c.resubscribe)
	}
	return c, nil
}

// Run drives the connection until Close, LogOut, ctx cancellation or a protocol error.
func (c *Client) Run(ctx context.Context) error {
	return c.conn.Run(ctx)
}

// LogOut asks the server to end the session; Run returns once it acknowledges.
func (c *Client) LogOut() error {
	return c.Admin.LogOut()
}

func (c *Client) Close() {
	c.conn.Close()
}

// Router exposes the frame dispatcher, mainly for feeding recorded frames.
func (c *Client) Router() *Router {
	return c.router
}

func (c *Client) hasDemand() bool {
	for _, r := range c.replayable {
		if r.HasDemand() {
			return true
		}
	}
	return false
}

func (c *Client) resubscribe() {
	var errs []error
	for _, r := range c.replayable {
		if err := r.Resubscribe(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.logger.Warn("Subscription replay incomplete", zap.Error(err))
		return
	}
	c.logger.Info("Subscriptions replayed")
}
