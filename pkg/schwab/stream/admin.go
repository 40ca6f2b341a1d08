package stream

import (
	"schwabstream/pkg/schwab"

	"go.uber.org/zap"
)

// SessionControl is the part of the Connection Manager the ADMIN service drives.
type SessionControl interface {
	Submitter
	LoginSucceeded()
	MarkLoggedOut()
	Close()
	LoggedIn() bool
}

// Admin handles the login and logout handshake. It holds no subscription state.
type Admin struct {
	conn   SessionControl
	logger *zap.Logger
}

func NewAdmin(conn SessionControl, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Admin{conn: conn, logger: logger.With(zap.String("service", string(schwab.ServiceAdmin)))}
}

func (a *Admin) Service() schwab.Service {
	return schwab.ServiceAdmin
}

func (a *Admin) HandleResponse(resp schwab.ResponseFrame) error {
	switch resp.Command {
	case schwab.CommandLogin:
		if resp.Content.Code != schwab.CodeSuccess {
			a.logger.Error("Login denied", zap.Int("code", resp.Content.Code), zap.String("msg", resp.Content.Msg))
			return &schwab.ProtocolError{
				Service: resp.Service,
				Command: resp.Command,
				Code:    resp.Content.Code,
				Message: resp.Content.Msg,
				Err:     schwab.ErrLoginDenied,
			}
		}
		a.conn.LoginSucceeded()
	case schwab.CommandLogout:
		a.logger.Info("Logged out", zap.Int("code", resp.Content.Code), zap.String("msg", resp.Content.Msg))
		a.conn.Close()
	default:
		return &schwab.ProtocolError{Service: resp.Service, Command: resp.Command, Err: schwab.ErrUnexpectedFrame}
	}
	return nil
}

func (a *Admin) HandleData(frame schwab.DataFrame) error {
	return &schwab.ProtocolError{Service: frame.Service, Command: frame.Command, Err: schwab.ErrUnexpectedFrame}
}

func (a *Admin) HandleNotify(n schwab.NotifyFrame) error {
	a.logger.Info("Admin notification", zap.Int("code", n.Content.Code), zap.String("msg", n.Content.Msg))
	return nil
}

// StopStreaming closes the login gate. The next submitted command logs in again.
func (a *Admin) StopStreaming() {
	a.conn.MarkLoggedOut()
}

// LogOut ends the session. Without a live login the transport is closed directly.
func (a *Admin) LogOut() error {
	if !a.conn.LoggedIn() {
		a.conn.Close()
		return nil
	}
	return a.conn.SubmitCommand(schwab.NewCommand(schwab.ServiceAdmin, schwab.CommandLogout, "", ""))
}
