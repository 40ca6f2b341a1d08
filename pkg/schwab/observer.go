package schwab

// Observer receives stream lifecycle events, typically for metrics.
type Observer interface {
	CommandSent(service Service, command CommandKind)
	FrameReceived(kind FrameKind)
	StaleRecordDropped(service Service)
	Reconnected()
	LoggedIn(loggedIn bool)
	ProtocolFault(err error)
}

type nopObserver struct{}

func (nopObserver) CommandSent(Service, CommandKind) {}
func (nopObserver) FrameReceived(FrameKind)          {}
func (nopObserver) StaleRecordDropped(Service)       {}
func (nopObserver) Reconnected()                     {}
func (nopObserver) LoggedIn(bool)                    {}
func (nopObserver) ProtocolFault(error)              {}

// NopObserver discards every event.
var NopObserver Observer = nopObserver{}
