package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"schwabstream/pkg/schwab"

	"go.uber.org/zap/zaptest"
)

// fakeConn records submitted commands and session transitions.
type fakeConn struct {
	mu          sync.Mutex
	sent        []schwab.Command
	loggedIn    bool
	logins      int
	loggedOut   int
	closed      int
	handler     func([]byte) error
	demand      func() bool
	onReconnect func()
	queuedSubs  map[schwab.Service]bool // SUBS still behind the login gate
}

func (f *fakeConn) HasPending(service schwab.Service, kind schwab.CommandKind) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return kind == schwab.CommandSubs && f.queuedSubs[service]
}

func (f *fakeConn) SubmitCommand(cmd schwab.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeConn) LoginSucceeded() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = true
	f.logins++
}

func (f *fakeConn) MarkLoggedOut() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	f.loggedOut++
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	f.closed++
}

func (f *fakeConn) LoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *fakeConn) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (f *fakeConn) SetMessageHandler(h func([]byte) error) {
	f.handler = h
}

func (f *fakeConn) SetReconnectHooks(demand func() bool, onReconnect func()) {
	f.demand = demand
	f.onReconnect = onReconnect
}

func (f *fakeConn) commands() []schwab.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]schwab.Command, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeConn) last(t *testing.T) schwab.Command {
	t.Helper()
	cmds := f.commands()
	if len(cmds) == 0 {
		t.Fatal("no command submitted")
	}
	return cmds[len(cmds)-1]
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	c, err := NewClient(conn, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, conn
}

// deliver pushes a raw frame through the handler the client installed on the connection.
func (f *fakeConn) deliver(t *testing.T, raw string) error {
	t.Helper()
	if f.handler == nil {
		t.Fatal("message handler not installed")
	}
	return f.handler([]byte(raw))
}

func responseFrame(service schwab.Service, command schwab.CommandKind, code int) string {
	return fmt.Sprintf(`{"response":[{"service":%q,"command":%q,"requestid":"1","SchwabClientCorrelId":"c","timestamp":1700000000000,"content":{"code":%d,"msg":"ok"}}]}`,
		service, command, code)
}

func notifyFrame(service schwab.Service, code int) string {
	return fmt.Sprintf(`{"notify":[{"service":%q,"timestamp":1700000000000,"content":{"code":%d,"msg":"note"}}]}`, service, code)
}

// dataFrame wraps pre-rendered record objects into a data message.
func dataFrame(service schwab.Service, ts int64, records ...string) string {
	return fmt.Sprintf(`{"data":[{"service":%q,"timestamp":%d,"command":"SUBS","content":[%s]}]}`,
		service, ts, strings.Join(records, ","))
}

// recorder captures callback snapshots.
type recorder[T any] struct {
	mu    sync.Mutex
	calls []Snapshot[T]
}

func (r *recorder[T]) callback(s Snapshot[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder[T]) lastSnapshot(t *testing.T) Snapshot[T] {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		t.Fatal("callback never invoked")
	}
	return r.calls[len(r.calls)-1]
}
