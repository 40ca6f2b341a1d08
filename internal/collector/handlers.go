package collector

import (
	"context"
	"sort"
	"time"

	"schwabstream/internal/instrumentation"
	"schwabstream/internal/memorystore"
	"schwabstream/pkg/schwab"
	"schwabstream/pkg/schwab/stream"
	"schwabstream/pkg/storage"

	"go.uber.org/zap"
)

// pipeline is everything a stream callback hands its records to.
type pipeline struct {
	logger  *zap.Logger
	metrics *instrumentation.Metrics
	queue   *dispatcher
	candles *memorystore.CandleStore

	quoteSinks    []storage.QuoteSink
	candleSinks   []storage.CandleSink
	activitySinks []storage.ActivitySink
}

func (p *pipeline) observeLag(service schwab.Service, ts time.Time) {
	if ts.IsZero() {
		return
	}
	p.metrics.RecordFeedLag(service, float64(time.Since(ts).Milliseconds()))
}

// MakeQuoteHandler returns a callback that publishes every record the frame
// touched to the quote sinks. Untouched keys are not republished.
func MakeQuoteHandler[T any](p *pipeline) stream.Callback[T] {
	return func(snap stream.Snapshot[T]) {
		p.observeLag(snap.Service, snap.Timestamp)

		for _, key := range snap.Updated {
			rec, ok := recordFor(snap, key)
			if !ok {
				continue
			}
			for _, sink := range p.quoteSinks {
				p.queue.submit("quote", func(ctx context.Context) error {
					return sink.PublishQuote(ctx, snap.Service, key, rec)
				})
			}
		}
	}
}

// MakeCandleHandler returns a callback that turns chart bars into candles. The
// bar under construction is rewritten on every update; the store and the sinks
// both key candles by start time, so the last write wins.
func MakeCandleHandler[T any](p *pipeline, toCandle func(schwab.Service, T) (memorystore.Candle, bool)) stream.Callback[T] {
	return func(snap stream.Snapshot[T]) {
		p.observeLag(snap.Service, snap.Timestamp)

		for _, key := range snap.Updated {
			rec, ok := recordFor(snap, key)
			if !ok {
				continue
			}
			candle, ok := toCandle(snap.Service, rec)
			if !ok {
				p.logger.Debug("Bar has no chart time yet", zap.String("symbol", key))
				continue
			}

			p.candles.Add(candle)
			for _, sink := range p.candleSinks {
				p.queue.submit("candle", func(ctx context.Context) error {
					return sink.SaveCandle(ctx, candle)
				})
			}
		}
	}
}

// MakeActivityHandler returns a callback that forwards account activity to the activity sinks.
func MakeActivityHandler(p *pipeline) func(stream.ActivityUpdate) {
	return func(u stream.ActivityUpdate) {
		p.observeLag(schwab.ServiceAccountActivity, u.Timestamp)

		receivedAt := time.Now().UTC()
		for _, a := range u.Activities {
			if _, unknown := a.Payload.(stream.UnknownActivity); unknown {
				p.logger.Info("Unrecognized account activity", zap.String("account", a.Account), zap.String("type", a.Type))
			}
			if len(p.activitySinks) == 0 {
				p.logger.Info("Account activity", zap.String("account", a.Account), zap.String("type", a.Type), zap.String("raw", a.Raw))
			}
			for _, sink := range p.activitySinks {
				p.queue.submit("activity", func(ctx context.Context) error {
					return sink.SaveActivity(ctx, receivedAt, a)
				})
			}
		}
	}
}

func equityCandle(service schwab.Service, b stream.ChartEquityBar) (memorystore.Candle, bool) {
	if b.ChartTime.IsZero() {
		return memorystore.Candle{}, false
	}
	return memorystore.Candle{
		Service: string(service),
		Symbol:  b.Key,
		Start:   b.ChartTime,
		Open:    b.Open,
		High:    b.High,
		Low:     b.Low,
		Close:   b.Close,
		Volume:  b.Volume,
		Seq:     b.Sequence,
	}, true
}

func futuresCandle(service schwab.Service, b stream.ChartFuturesBar) (memorystore.Candle, bool) {
	if b.ChartTime.IsZero() {
		return memorystore.Candle{}, false
	}
	return memorystore.Candle{
		Service: string(service),
		Symbol:  b.Key,
		Start:   b.ChartTime,
		Open:    b.Open,
		High:    b.High,
		Low:     b.Low,
		Close:   b.Close,
		Volume:  b.Volume,
	}, true
}

// recordFor finds the record for key; snapshot keys are sorted.
func recordFor[T any](snap stream.Snapshot[T], key string) (T, bool) {
	i := sort.SearchStrings(snap.Keys, key)
	if i < len(snap.Keys) && snap.Keys[i] == key && i < len(snap.Records) {
		return snap.Records[i], true
	}
	var zero T
	return zero, false
}
