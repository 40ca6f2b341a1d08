package schwab

import (
	"encoding/json"
	"errors"
	"testing"
)

// go test -v --run TestDecodeResponse
func TestDecodeResponse(t *testing.T) {
	raw := []byte(`{"response":[{"service":"ADMIN","command":"LOGIN","requestid":"1",
		"SchwabClientCorrelId":"c","timestamp":1700000000000,"content":{"code":0,"msg":"server=s;status=PN"}}]}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if msg.Kind != FrameResponse || len(msg.Responses) != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	r := msg.Responses[0]
	if r.Service != ServiceAdmin || r.Command != CommandLogin || r.RequestID != "1" || r.Content.Code != 0 {
		t.Errorf("unexpected response frame: %+v", r)
	}
}

// go test -v --run TestDecodeData
func TestDecodeData(t *testing.T) {
	raw := []byte(`{"data":[{"service":"LEVELONE_EQUITIES","timestamp":1700000000000,"command":"SUBS",
		"content":[{"key":"AAPL","delayed":false,"1":150.0,"2":150.5},{"key":"MSFT","3":410.1}]}]}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if msg.Kind != FrameData || len(msg.Data) != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	d := msg.Data[0]
	if d.Service != ServiceLevelOneEquities || len(d.Content) != 2 {
		t.Fatalf("unexpected data frame: %+v", d)
	}
	if d.Content[0].Key() != "AAPL" || d.Content[1].Key() != "MSFT" {
		t.Errorf("unexpected keys: %q %q", d.Content[0].Key(), d.Content[1].Key())
	}
	if d.Time().UnixMilli() != 1700000000000 {
		t.Errorf("unexpected frame time: %v", d.Time())
	}
}

// go test -v --run TestDecodeNotify
func TestDecodeNotify(t *testing.T) {
	msg, err := Decode([]byte(`{"notify":[{"heartbeat":"1700000000000"}]}`))
	if err != nil {
		t.Fatalf("decode heartbeat failed: %v", err)
	}
	if msg.Kind != FrameHeartbeat || len(msg.Notifies) != 0 {
		t.Errorf("heartbeat should be discarded, got %+v", msg)
	}

	msg, err = Decode([]byte(`{"notify":[{"service":"ADMIN","timestamp":1,"content":{"code":30,"msg":"Stop streaming due to empty subscription"}}]}`))
	if err != nil {
		t.Fatalf("decode notify failed: %v", err)
	}
	if msg.Kind != FrameNotify || len(msg.Notifies) != 1 || msg.Notifies[0].Content.Code != CodeStopStreaming {
		t.Errorf("unexpected notify: %+v", msg)
	}
}

// go test -v --run TestDecodeUnknownShape
func TestDecodeUnknownShape(t *testing.T) {
	_, err := Decode([]byte(`{"snapshot":[]}`))
	if !errors.Is(err, ErrUnexpectedFrame) || !IsProtocolError(err) {
		t.Errorf("expected unexpected-frame protocol error, got %v", err)
	}

	_, err = Decode([]byte(`not json`))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("expected malformed-frame error, got %v", err)
	}
}

// go test -v --run TestCommandEncode
func TestCommandEncode(t *testing.T) {
	cmd := NewCommand(ServiceLevelOneEquities, CommandSubs, "AAPL,MSFT", "0,1,2,10")
	cmd.RequestID = "7"
	cmd.CustomerID = "cust"
	cmd.CorrelID = "correl"

	b, err := cmd.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(b, &wire); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if wire["requestid"] != "7" || wire["service"] != "LEVELONE_EQUITIES" || wire["command"] != "SUBS" {
		t.Errorf("unexpected envelope: %s", b)
	}
	if wire["SchwabClientCustomerId"] != "cust" || wire["SchwabClientCorrelId"] != "correl" {
		t.Errorf("unexpected identifiers: %s", b)
	}
	params := wire["parameters"].(map[string]any)
	if params["keys"] != "AAPL,MSFT" || params["fields"] != "0,1,2,10" {
		t.Errorf("unexpected parameters: %v", params)
	}

	unsubs := NewCommand(ServiceLevelOneEquities, CommandUnsubs, "AAPL", "")
	if _, ok := unsubs.Parameters["fields"]; ok {
		t.Error("empty fields should be omitted")
	}
}

// go test -v --run TestProtocolErrorFormat
func TestProtocolErrorFormat(t *testing.T) {
	err := &ProtocolError{Service: ServiceChartEquity, Command: CommandSubs, Code: 22, Message: "bad", Err: ErrCommandFailed}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("ProtocolError should unwrap to its sentinel")
	}
	want := `schwab protocol error: command failed service=CHART_EQUITY command=SUBS code=22 msg="bad"`
	if err.Error() != want {
		t.Errorf("Error() = %q", err.Error())
	}
}
