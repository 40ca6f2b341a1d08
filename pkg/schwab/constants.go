package schwab

import "fmt"

// Service is the name of one logical stream multiplexed over the streamer connection.
type Service string

const (
	ServiceAdmin                  Service = "ADMIN"
	ServiceLevelOneEquities       Service = "LEVELONE_EQUITIES"
	ServiceLevelOneOptions        Service = "LEVELONE_OPTIONS"
	ServiceLevelOneFutures        Service = "LEVELONE_FUTURES"
	ServiceLevelOneFuturesOptions Service = "LEVELONE_FUTURES_OPTIONS"
	ServiceLevelOneForex          Service = "LEVELONE_FOREX"
	ServiceNYSEBook               Service = "NYSE_BOOK"
	ServiceNasdaqBook             Service = "NASDAQ_BOOK"
	ServiceChartEquity            Service = "CHART_EQUITY"
	ServiceChartFutures           Service = "CHART_FUTURES"
	ServiceScreenerEquity         Service = "SCREENER_EQUITY"
	ServiceScreenerOption         Service = "SCREENER_OPTION"
	ServiceAccountActivity        Service = "ACCT_ACTIVITY"
)

// ServiceMeta describes how a service keys and merges its records.
type ServiceMeta struct {
	Name      Service
	Keyed     bool   // false for streams without symbol keys (ADMIN, ACCT_ACTIVITY)
	MaxField  int    // highest field identifier in the service's field table
	AllFields string // field list used when a caller does not narrow it
}

var knownServices = map[Service]ServiceMeta{
	ServiceAdmin:                  {Name: ServiceAdmin},
	ServiceLevelOneEquities:       {Name: ServiceLevelOneEquities, Keyed: true, MaxField: 51},
	ServiceLevelOneOptions:        {Name: ServiceLevelOneOptions, Keyed: true, MaxField: 55},
	ServiceLevelOneFutures:        {Name: ServiceLevelOneFutures, Keyed: true, MaxField: 40},
	ServiceLevelOneFuturesOptions: {Name: ServiceLevelOneFuturesOptions, Keyed: true, MaxField: 31},
	ServiceLevelOneForex:          {Name: ServiceLevelOneForex, Keyed: true, MaxField: 29},
	ServiceNYSEBook:               {Name: ServiceNYSEBook, Keyed: true, MaxField: 3},
	ServiceNasdaqBook:             {Name: ServiceNasdaqBook, Keyed: true, MaxField: 3},
	ServiceChartEquity:            {Name: ServiceChartEquity, Keyed: true, MaxField: 8},
	ServiceChartFutures:           {Name: ServiceChartFutures, Keyed: true, MaxField: 6},
	ServiceScreenerEquity:         {Name: ServiceScreenerEquity, Keyed: true, MaxField: 4},
	ServiceScreenerOption:         {Name: ServiceScreenerOption, Keyed: true, MaxField: 4},
	ServiceAccountActivity:        {Name: ServiceAccountActivity, MaxField: 3},
}

func init() {
	for name, meta := range knownServices {
		meta.AllFields = FieldRange(meta.MaxField)
		knownServices[name] = meta
	}
}

// IsValid reports whether s is one of the services this client understands.
func (s Service) IsValid() bool {
	_, ok := knownServices[s]
	return ok
}

// ParseService looks up the metadata for a service name.
func ParseService(s string) (ServiceMeta, error) {
	meta, ok := knownServices[Service(s)]
	if !ok {
		return ServiceMeta{}, fmt.Errorf("invalid service: %s", s)
	}
	return meta, nil
}

// CommandKind is the verb of an outbound streamer request.
type CommandKind string

const (
	CommandLogin  CommandKind = "LOGIN"
	CommandSubs   CommandKind = "SUBS"
	CommandAdd    CommandKind = "ADD"
	CommandUnsubs CommandKind = "UNSUBS"
	CommandView   CommandKind = "VIEW"
	CommandLogout CommandKind = "LOGOUT"
)

// Status codes carried in response and notify content.
const (
	CodeSuccess             = 0
	CodeLoginDenied         = 3
	CodeUnknownFailure      = 9
	CodeServiceNotAvailable = 11
	CodeCloseConnection     = 12
	CodeSymbolLimit         = 19
	CodeConnectionNotFound  = 20
	CodeBadCommandFormat    = 21
	CodeSubsSucceeded       = 26
	CodeUnsubsSucceeded     = 27
	CodeAddSucceeded        = 28
	CodeViewSucceeded       = 29
	CodeStopStreaming       = 30 // subscription emptied, server stops streaming
)

// IsSuccessCode reports whether a response code acknowledges the command.
func IsSuccessCode(code int) bool {
	switch code {
	case CodeSuccess, CodeSubsSucceeded, CodeUnsubsSucceeded, CodeAddSucceeded, CodeViewSucceeded:
		return true
	}
	return false
}
