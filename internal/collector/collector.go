package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"schwabstream/config"
	"schwabstream/internal/instrumentation"
	"schwabstream/internal/memorystore"
	"schwabstream/pkg/schwab"
	"schwabstream/pkg/schwab/stream"
	"schwabstream/pkg/storage/kafka"
	"schwabstream/pkg/storage/postgres"
	"schwabstream/pkg/storage/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	sinkQueueSize   = 4096
	sinkTimeout     = 2 * time.Second
	logoutGrace     = 5 * time.Second
	reportInterval  = 30 * time.Second
	candleRetention = 24 * time.Hour
)

// StartCollector streams the configured subscriptions into the enabled sinks and
// serves metrics until ctx is cancelled or the session fails. On cancellation it
// logs out and waits briefly for the server to acknowledge.
func StartCollector(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := instrumentation.NewMetrics(reg)

	p, closeSinks, err := openSinks(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer closeSinks()

	tokens := cfg.Schwab.Auth.TokenSource()
	info, err := resolveStreamerInfo(ctx, cfg, tokens)
	if err != nil {
		return err
	}

	ws := schwab.NewWSClient(info, tokens,
		schwab.WithLogger(logger),
		schwab.WithObserver(metrics),
		schwab.WithHandshakeTimeout(cfg.Schwab.Stream.HandshakeTimeout),
		schwab.WithReadTimeout(cfg.Schwab.Stream.ReadTimeout),
		schwab.WithReconnectBackoff(cfg.Schwab.Stream.ReconnectInitial, cfg.Schwab.Stream.ReconnectMax),
	)
	client, err := stream.NewClient(ws,
		stream.WithLogger(logger),
		stream.WithObserver(metrics),
		stream.WithReplay(cfg.Schwab.Stream.ReplaySubscriptions),
	)
	if err != nil {
		return fmt.Errorf("failed to build stream client: %w", err)
	}

	if err := subscribe(client, cfg.Subscriptions, p); err != nil {
		return err
	}

	status := func() Status {
		return Status{
			LoggedIn:      ws.LoggedIn(),
			PendingCmds:   ws.Pending(),
			QueuedWrites:  p.queue.queued(),
			StoredCandles: p.candles.CountAll(),
		}
	}

	return run(ctx, client, p, logger, func(gctx context.Context) error {
		return serveStatus(gctx, cfg.Metrics.Addr, newRouter(reg, status), logger)
	})
}

// run drives the session next to the sink queue and the auxiliary tasks. The
// session runs on its own context so a shutdown can still send LOGOUT.
func run(ctx context.Context, client *stream.Client, p *pipeline, logger *zap.Logger, tasks ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sessionCtx, stopSession := context.WithCancel(context.Background())
	defer stopSession()

	g, gctx := errgroup.WithContext(ctx)

	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		defer cancel()
		if err := client.Run(sessionCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stream session: %w", err)
		}
		logger.Info("Stream session ended")
		return nil
	})

	g.Go(func() error {
		select {
		case <-done:
			return nil
		case <-gctx.Done():
		}
		if err := client.LogOut(); err != nil {
			logger.Warn("Failed to send logout", zap.Error(err))
		}
		select {
		case <-done:
		case <-time.After(logoutGrace):
			logger.Warn("Logout not acknowledged, closing")
			stopSession()
		}
		return nil
	})

	g.Go(func() error {
		return p.queue.run(gctx)
	})

	g.Go(func() error {
		reportCandles(gctx, p.candles, logger)
		return nil
	})

	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}

	return g.Wait()
}

// openSinks connects every configured sink. The in-memory candle store is always on.
func openSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *instrumentation.Metrics) (*pipeline, func(), error) {
	p := &pipeline{
		logger:  logger,
		metrics: metrics,
		queue:   newDispatcher(sinkQueueSize, sinkTimeout, logger, metrics),
		candles: memorystore.NewCandleStore(),
	}

	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Failed to close sink", zap.Error(err))
			}
		}
	}

	if cfg.Postgres.Enabled {
		pg, err := postgres.InitializeAndMigrate(ctx, cfg.Postgres, cfg.Log.Environment, true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		closers = append(closers, pg.Close)
		p.candleSinks = append(p.candleSinks, pg)
		p.activitySinks = append(p.activitySinks, pg)
		logger.Info("Postgres sink enabled", zap.String("db", cfg.Postgres.DBName))
	}

	if cfg.Redis.Addr != "" {
		rp, err := redis.NewQuotePublisher(ctx, cfg.Redis, logger)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, rp.Close)
		p.quoteSinks = append(p.quoteSinks, rp)
		logger.Info("Redis quote sink enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewActivityPublisher(cfg.Kafka, logger)
		closers = append(closers, kp.Close)
		p.activitySinks = append(p.activitySinks, kp)
		logger.Info("Kafka activity sink enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	return p, closeAll, nil
}

// resolveStreamerInfo reads the session identifiers from user preferences. A
// configured stream URL replaces the advertised socket URL.
func resolveStreamerInfo(ctx context.Context, cfg *config.Config, tokens schwab.TokenSource) (schwab.StreamerInfo, error) {
	token, err := tokens.AccessToken(ctx)
	if err != nil {
		return schwab.StreamerInfo{}, fmt.Errorf("failed to get access token: %w", err)
	}

	rest := schwab.NewRESTClient(cfg.Schwab.REST.BaseURL, cfg.Schwab.REST.Timeout)
	info, err := rest.GetStreamerInfo(ctx, token)
	if err != nil {
		return schwab.StreamerInfo{}, fmt.Errorf("failed to get streamer info: %w", err)
	}
	if cfg.Schwab.Stream.URL != "" {
		info.SocketURL = cfg.Schwab.Stream.URL
	}
	return info, nil
}

// subscribe issues the initial request for every configured service, in name order.
func subscribe(client *stream.Client, subs map[string]config.SubscriptionConfig, p *pipeline) error {
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sub := subs[name]
		meta, err := schwab.ParseService(strings.ToUpper(name))
		if err != nil {
			return fmt.Errorf("subscriptions.%s: %w", name, err)
		}

		switch meta.Name {
		case schwab.ServiceLevelOneEquities:
			err = client.Equities.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.LevelOneEquity](p))
		case schwab.ServiceLevelOneOptions:
			err = client.Options.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.LevelOneOption](p))
		case schwab.ServiceLevelOneFutures:
			err = client.Futures.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.LevelOneFuture](p))
		case schwab.ServiceLevelOneFuturesOptions:
			err = client.FuturesOptions.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.LevelOneFutureOption](p))
		case schwab.ServiceLevelOneForex:
			err = client.Forex.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.LevelOneForex](p))
		case schwab.ServiceNYSEBook:
			err = client.NYSEBook.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.Book](p))
		case schwab.ServiceNasdaqBook:
			err = client.NasdaqBook.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.Book](p))
		case schwab.ServiceChartEquity:
			err = client.ChartEquity.Request(sub.Keys, sub.Fields, MakeCandleHandler(p, equityCandle))
		case schwab.ServiceChartFutures:
			err = client.ChartFutures.Request(sub.Keys, sub.Fields, MakeCandleHandler(p, futuresCandle))
		case schwab.ServiceScreenerEquity:
			err = client.ScreenerEquity.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.Screener](p))
		case schwab.ServiceScreenerOption:
			err = client.ScreenerOption.Request(sub.Keys, sub.Fields, MakeQuoteHandler[stream.Screener](p))
		case schwab.ServiceAccountActivity:
			err = client.AccountActivity.Request(MakeActivityHandler(p))
		default:
			err = fmt.Errorf("service %s cannot be subscribed", meta.Name)
		}
		if err != nil {
			return fmt.Errorf("subscriptions.%s: %w", name, err)
		}
		p.logger.Info("Requested subscription", zap.String("service", string(meta.Name)), zap.Int("keys", len(sub.Keys)))
	}
	return nil
}

// reportCandles periodically prunes old candles and logs the stored count.
func reportCandles(ctx context.Context, store *memorystore.CandleStore, logger *zap.Logger) {
	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned := store.Prune(time.Now().Add(-candleRetention))
			logger.Info("current saved candles", zap.Int("count", store.CountAll()), zap.Int("pruned", pruned))
		}
	}
}
