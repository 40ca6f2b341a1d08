package stream

import (
	"errors"
	"reflect"
	"testing"

	"schwabstream/pkg/schwab"
)

// go test -v --run TestEndToEndQuote
func TestEndToEndQuote(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[LevelOneEquity]{}

	if err := c.Equities.Request([]string{"AAPL"}, "0,1,2", rec.callback); err != nil {
		t.Fatalf("Request: %v", err)
	}
	subs := conn.last(t)
	if subs.Command != schwab.CommandSubs || subs.Parameters["keys"] != "AAPL" || subs.Parameters["fields"] != "0,1,2" {
		t.Fatalf("unexpected SUBS command: %+v", subs)
	}
	if c.Equities.State() != Subscribing {
		t.Errorf("state = %s, want subscribing", c.Equities.State())
	}

	if err := conn.deliver(t, responseFrame(schwab.ServiceLevelOneEquities, schwab.CommandSubs, 0)); err != nil {
		t.Fatalf("SUBS response: %v", err)
	}
	if c.Equities.State() != Subscribed {
		t.Errorf("state = %s, want subscribed", c.Equities.State())
	}

	frame := dataFrame(schwab.ServiceLevelOneEquities, 1700000000123, `{"key":"AAPL","delayed":false,"1":150.0,"2":150.5}`)
	if err := conn.deliver(t, frame); err != nil {
		t.Fatalf("data: %v", err)
	}
	if rec.count() != 1 {
		t.Fatalf("callback invoked %d times, want 1", rec.count())
	}
	snap := rec.lastSnapshot(t)
	if len(snap.Records) != 1 {
		t.Fatalf("snapshot has %d records, want 1", len(snap.Records))
	}
	aapl := snap.Records[0]
	if aapl.Key != "AAPL" || aapl.BidPrice != 150.0 || aapl.AskPrice != 150.5 {
		t.Errorf("unexpected AAPL record: key=%s bid=%v ask=%v", aapl.Key, aapl.BidPrice, aapl.AskPrice)
	}
	if snap.Timestamp.UnixMilli() != 1700000000123 {
		t.Errorf("timestamp = %v", snap.Timestamp)
	}

	// TSLA was never subscribed.
	if err := conn.deliver(t, dataFrame(schwab.ServiceLevelOneEquities, 1700000000200, `{"key":"TSLA","1":200.0}`)); err != nil {
		t.Fatalf("data: %v", err)
	}
	if rec.count() != 1 {
		t.Errorf("stale frame invoked the callback")
	}
	after := c.Equities.Snapshot()
	if len(after.Records) != 1 || !reflect.DeepEqual(after.Records[0], aapl) {
		t.Errorf("snapshot changed after stale frame: %+v", after.Records)
	}
}

// go test -v --run TestRemoveDropsLateData
func TestRemoveDropsLateData(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[LevelOneEquity]{}

	if err := c.Equities.Request([]string{"AAPL", "MSFT"}, "0,1,2,3", rec.callback); err != nil {
		t.Fatal(err)
	}
	_ = conn.deliver(t, responseFrame(schwab.ServiceLevelOneEquities, schwab.CommandSubs, 0))
	_ = conn.deliver(t, dataFrame(schwab.ServiceLevelOneEquities, 1,
		`{"key":"AAPL","3":190.1}`, `{"key":"MSFT","3":410.2}`))

	if err := c.Equities.Remove("AAPL", "GOOG"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	unsubs := conn.last(t)
	if unsubs.Command != schwab.CommandUnsubs || unsubs.Parameters["keys"] != "AAPL" {
		t.Errorf("unexpected UNSUBS command: %+v", unsubs)
	}
	if _, ok := unsubs.Parameters["fields"]; ok {
		t.Errorf("UNSUBS should not carry fields")
	}
	if rec.count() != 2 {
		t.Fatalf("Remove should invoke the callback once, calls=%d", rec.count())
	}
	if snap := rec.lastSnapshot(t); len(snap.Records) != 1 || snap.Records[0].Key != "MSFT" {
		t.Errorf("snapshot after Remove: %+v", snap.Records)
	}

	// In-flight AAPL data after UNSUBS.
	_ = conn.deliver(t, dataFrame(schwab.ServiceLevelOneEquities, 2,
		`{"key":"AAPL","3":191.0}`, `{"key":"MSFT","3":411.0}`))
	snap := rec.lastSnapshot(t)
	if len(snap.Records) != 1 || snap.Records[0].Key != "MSFT" || snap.Records[0].LastPrice != 411.0 {
		t.Errorf("AAPL leaked into snapshot: %+v", snap.Records)
	}

	calls := rec.count()
	_ = conn.deliver(t, dataFrame(schwab.ServiceLevelOneEquities, 3, `{"key":"AAPL","3":192.0}`))
	if rec.count() != calls {
		t.Errorf("frame with only stale records invoked the callback")
	}

	if err := c.Equities.Remove("MSFT"); err != nil {
		t.Fatal(err)
	}
	if c.Equities.State() != Unsubscribed {
		t.Errorf("state = %s, want unsubscribed", c.Equities.State())
	}
}

// go test -v --run TestAddSendsOnlyNewKeys
func TestAddSendsOnlyNewKeys(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[LevelOneEquity]{}

	_ = c.Equities.Request([]string{"AAPL"}, "1,0", rec.callback)
	_ = conn.deliver(t, responseFrame(schwab.ServiceLevelOneEquities, schwab.CommandSubs, 0))
	_ = conn.deliver(t, dataFrame(schwab.ServiceLevelOneEquities, 1, `{"key":"AAPL","1":150.0}`))
	before := c.Equities.Snapshot()
	sent := len(conn.commands())

	if err := c.Equities.Add("aapl", " AAPL "); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(conn.commands()) != sent {
		t.Errorf("Add of active key sent a command: %+v", conn.last(t))
	}
	if !reflect.DeepEqual(before, c.Equities.Snapshot()) {
		t.Errorf("Add of active key changed the snapshot")
	}

	if err := c.Equities.Add("AAPL", "TSLA"); err != nil {
		t.Fatal(err)
	}
	add := conn.last(t)
	if add.Command != schwab.CommandAdd || add.Parameters["keys"] != "TSLA" || add.Parameters["fields"] != "0,1" {
		t.Errorf("unexpected ADD command: %+v", add)
	}
	if got := c.Equities.Keys(); !reflect.DeepEqual(got, []string{"AAPL", "TSLA"}) {
		t.Errorf("keys = %v", got)
	}
	if !reflect.DeepEqual(before, c.Equities.Snapshot()) {
		t.Errorf("ADD disturbed existing records")
	}
}

// go test -v --run TestAddAfterEmptyResubscribes
func TestAddAfterEmptyResubscribes(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[LevelOneEquity]{}

	_ = c.Equities.Request([]string{"AAPL"}, "", rec.callback)
	_ = c.Equities.Remove("AAPL")
	if err := c.Equities.Add("MSFT"); err != nil {
		t.Fatal(err)
	}
	cmd := conn.last(t)
	if cmd.Command != schwab.CommandSubs || cmd.Parameters["keys"] != "MSFT" {
		t.Errorf("expected SUBS for MSFT, got %+v", cmd)
	}
	if cmd.Parameters["fields"] != schwab.FieldRange(51) {
		t.Errorf("default fields = %q", cmd.Parameters["fields"])
	}
}

// go test -v --run TestRequestNormalizesInput
func TestRequestNormalizesInput(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[LevelOneEquity]{}

	if err := c.Equities.Request([]string{" msft", "AAPL", "msft", ""}, "10,2,33,3,,3", rec.callback); err != nil {
		t.Fatal(err)
	}
	cmd := conn.last(t)
	if cmd.Parameters["keys"] != "MSFT,AAPL" {
		t.Errorf("keys = %q", cmd.Parameters["keys"])
	}
	if cmd.Parameters["fields"] != "2,3,10,33" {
		t.Errorf("fields = %q", cmd.Parameters["fields"])
	}

	if err := c.Equities.View("8,1,,1,0"); err != nil {
		t.Fatal(err)
	}
	view := conn.last(t)
	if view.Command != schwab.CommandView || view.Parameters["fields"] != "0,1,8" {
		t.Errorf("unexpected VIEW command: %+v", view)
	}
	if _, ok := view.Parameters["keys"]; ok {
		t.Errorf("VIEW should not carry keys")
	}
	if c.Equities.Fields() != "0,1,8" {
		t.Errorf("fields not updated by View: %q", c.Equities.Fields())
	}
}

// go test -v --run TestRequestReplacesSubscription
func TestRequestReplacesSubscription(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[LevelOneEquity]{}

	_ = c.Equities.Request([]string{"AAPL"}, "0,1", rec.callback)
	_ = conn.deliver(t, dataFrame(schwab.ServiceLevelOneEquities, 1, `{"key":"AAPL","1":1.0}`))

	_ = c.Equities.Request([]string{"MSFT"}, "0,1", rec.callback)
	if snap := c.Equities.Snapshot(); len(snap.Records) != 0 {
		t.Errorf("Request should clear the snapshot, got %+v", snap.Records)
	}
	calls := rec.count()
	_ = conn.deliver(t, dataFrame(schwab.ServiceLevelOneEquities, 2, `{"key":"AAPL","1":2.0}`))
	if rec.count() != calls {
		t.Errorf("data for replaced key reached the callback")
	}
}

// go test -v --run TestUsageErrors
func TestUsageErrors(t *testing.T) {
	c, conn := newTestClient(t)

	if err := c.Equities.Add("AAPL"); !errors.Is(err, schwab.ErrNotSubscribed) {
		t.Errorf("Add before Request: %v", err)
	}
	if err := c.Equities.Remove("AAPL"); !errors.Is(err, schwab.ErrNotSubscribed) {
		t.Errorf("Remove before Request: %v", err)
	}
	if err := c.Equities.View("0,1"); !errors.Is(err, schwab.ErrNotSubscribed) {
		t.Errorf("View before Request: %v", err)
	}
	if err := c.AccountActivity.Unsubscribe(); !errors.Is(err, schwab.ErrNotSubscribed) {
		t.Errorf("Unsubscribe before Request: %v", err)
	}
	if err := c.Equities.Request([]string{" "}, "", func(Snapshot[LevelOneEquity]) {}); !errors.Is(err, ErrNoKeys) {
		t.Errorf("Request without keys: %v", err)
	}
	if err := c.Equities.Request([]string{"AAPL"}, "", nil); !errors.Is(err, ErrNilCallback) {
		t.Errorf("Request without callback: %v", err)
	}
	if len(conn.commands()) != 0 {
		t.Errorf("usage errors must not submit commands, got %d", len(conn.commands()))
	}
}

// go test -v --run TestMergeIdempotent
func TestMergeIdempotent(t *testing.T) {
	rec := schwab.Record{
		"key":           []byte(`"AAPL"`),
		"assetMainType": []byte(`"EQUITY"`),
		"1":             []byte(`150.25`),
		"8":             []byte(`1200300`),
		"14":            []byte(`true`),
		"35":            []byte(`1700000000000`),
		"99":            []byte(`"future field"`),
	}

	once := &LevelOneEquity{}
	once.MergeEnvelope(rec)
	if err := mergeRecord(once, rec); err != nil {
		t.Fatal(err)
	}

	twice := &LevelOneEquity{}
	for i := 0; i < 2; i++ {
		twice.MergeEnvelope(rec)
		if err := mergeRecord(twice, rec); err != nil {
			t.Fatal(err)
		}
	}

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\n once=%+v\ntwice=%+v", once, twice)
	}
	if once.BidPrice != 150.25 || once.TotalVolume != 1200300 || !once.Marginable || once.AssetMainType != "EQUITY" {
		t.Errorf("unexpected merge result: %+v", once)
	}
	if once.TradeTime.UnixMilli() != 1700000000000 || once.TradeTime.Location().String() != "UTC" {
		t.Errorf("trade time = %v", once.TradeTime)
	}
}

// go test -v --run TestMergeKeepsLastGoodValue
func TestMergeKeepsLastGoodValue(t *testing.T) {
	q := &LevelOneEquity{}
	_ = mergeRecord(q, schwab.Record{"1": []byte(`10.5`), "2": []byte(`11`)})
	err := mergeRecord(q, schwab.Record{"1": []byte(`"oops"`), "3": []byte(`10.75`)})
	if err == nil {
		t.Fatal("expected a decode error for field 1")
	}
	if q.BidPrice != 10.5 || q.AskPrice != 11 || q.LastPrice != 10.75 {
		t.Errorf("unexpected record after partial failure: %+v", q)
	}
}

// go test -v --run TestBookReplacesWhole
func TestBookReplacesWhole(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[Book]{}

	_ = c.NasdaqBook.Request([]string{"MSFT"}, "0,1,2,3", rec.callback)
	_ = conn.deliver(t, dataFrame(schwab.ServiceNasdaqBook, 1, `{"key":"MSFT","0":"MSFT","1":1700000000000,
		"2":[{"0":410.1,"1":300,"2":2,"3":[{"0":"NSDQ","1":200,"2":1700000000001},{"0":"ARCX","1":100,"2":1700000000002}]}],
		"3":[{"0":410.2,"1":100,"2":1,"3":[{"0":"EDGX","1":100,"2":1700000000003}]}]}`))

	book := rec.lastSnapshot(t).Records[0]
	if len(book.Bids) != 1 || len(book.Asks) != 1 {
		t.Fatalf("unexpected book: %+v", book)
	}
	if bid := book.Bids[0]; bid.Price != 410.1 || bid.TotalSize != 300 || bid.MarketMakerCount != 2 || bid.MarketMakers[1].ID != "ARCX" {
		t.Errorf("unexpected bid level: %+v", bid)
	}

	_ = conn.deliver(t, dataFrame(schwab.ServiceNasdaqBook, 2, `{"key":"MSFT","2":[{"0":410.0,"1":50,"2":1,"3":[]}]}`))
	book = rec.lastSnapshot(t).Records[0]
	if len(book.Asks) != 0 || book.Symbol != "" {
		t.Errorf("book was merged instead of replaced: %+v", book)
	}
	if len(book.Bids) != 1 || book.Bids[0].Price != 410.0 {
		t.Errorf("unexpected bids: %+v", book.Bids)
	}
}

// go test -v --run TestChartMergesInPlace
func TestChartMergesInPlace(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[ChartEquityBar]{}

	_ = c.ChartEquity.Request([]string{"AAPL"}, "", rec.callback)
	_ = conn.deliver(t, dataFrame(schwab.ServiceChartEquity, 1,
		`{"key":"AAPL","1":190.0,"2":191.0,"3":189.5,"4":190.5,"5":12000,"6":41,"7":1700000040000,"8":19675}`))
	_ = conn.deliver(t, dataFrame(schwab.ServiceChartEquity, 2, `{"key":"AAPL","4":190.8,"6":42}`))

	bar := rec.lastSnapshot(t).Records[0]
	if bar.Open != 190.0 || bar.Close != 190.8 || bar.Sequence != 42 || bar.ChartDay != 19675 {
		t.Errorf("unexpected bar: %+v", bar)
	}
}

// go test -v --run TestScreenerItems
func TestScreenerItems(t *testing.T) {
	c, conn := newTestClient(t)
	rec := &recorder[Screener]{}

	_ = c.ScreenerEquity.Request([]string{"$COMPX_VOLUME_0"}, "", rec.callback)
	_ = conn.deliver(t, dataFrame(schwab.ServiceScreenerEquity, 1,
		`{"key":"$COMPX_VOLUME_0","0":"$COMPX","1":1700000000000,"2":"VOLUME","3":0,
		"4":[{"symbol":"NVDA","lastPrice":480.1,"volume":900000,"netPercentChange":0.012}]}`))

	s := rec.lastSnapshot(t).Records[0]
	if s.SortField != "VOLUME" || len(s.Items) != 1 || s.Items[0].Symbol != "NVDA" || s.Items[0].Volume != 900000 {
		t.Errorf("unexpected screener: %+v", s)
	}
}

// go test -v --run TestNonSuccessResponseIsFatal
func TestNonSuccessResponseIsFatal(t *testing.T) {
	c, conn := newTestClient(t)
	_ = c.Equities.Request([]string{"AAPL"}, "", func(Snapshot[LevelOneEquity]) {})

	if err := conn.deliver(t, responseFrame(schwab.ServiceLevelOneEquities, schwab.CommandSubs, schwab.CodeSubsSucceeded)); err != nil {
		t.Errorf("code 26 should be success: %v", err)
	}

	err := conn.deliver(t, responseFrame(schwab.ServiceLevelOneEquities, schwab.CommandAdd, schwab.CodeSymbolLimit))
	var pe *schwab.ProtocolError
	if !errors.As(err, &pe) || !errors.Is(err, schwab.ErrCommandFailed) {
		t.Fatalf("expected command failure, got %v", err)
	}
	if pe.Code != schwab.CodeSymbolLimit || pe.Command != schwab.CommandAdd {
		t.Errorf("unexpected protocol error: %+v", pe)
	}
}

// go test -v --run TestUnknownServiceIsFatal
func TestUnknownServiceIsFatal(t *testing.T) {
	_, conn := newTestClient(t)

	err := conn.deliver(t, dataFrame("LEVELTWO_CRYPTO", 1, `{"key":"BTC"}`))
	if !errors.Is(err, schwab.ErrUnknownService) {
		t.Fatalf("expected unknown service error, got %v", err)
	}

	if err := conn.deliver(t, `{"snapshot":[]}`); !errors.Is(err, schwab.ErrUnexpectedFrame) {
		t.Errorf("expected unexpected frame error, got %v", err)
	}
	if err := conn.deliver(t, `{"notify":[{"heartbeat":"1700000000000"}]}`); err != nil {
		t.Errorf("heartbeat should be discarded: %v", err)
	}
}
