package stream

import (
	"encoding/json"
	"time"
)

// LevelOneEquity is a top-of-book equity quote (LEVELONE_EQUITIES).
type LevelOneEquity struct {
	Envelope
	Symbol                     string    `json:"symbol"`
	BidPrice                   float64   `json:"bidPrice"`
	AskPrice                   float64   `json:"askPrice"`
	LastPrice                  float64   `json:"lastPrice"`
	BidSize                    int64     `json:"bidSize"`
	AskSize                    int64     `json:"askSize"`
	AskID                      string    `json:"askId"`
	BidID                      string    `json:"bidId"`
	TotalVolume                int64     `json:"totalVolume"`
	LastSize                   int64     `json:"lastSize"`
	HighPrice                  float64   `json:"highPrice"`
	LowPrice                   float64   `json:"lowPrice"`
	ClosePrice                 float64   `json:"closePrice"`
	ExchangeID                 string    `json:"exchangeId"`
	Marginable                 bool      `json:"marginable"`
	Description                string    `json:"description"`
	LastID                     string    `json:"lastId"`
	OpenPrice                  float64   `json:"openPrice"`
	NetChange                  float64   `json:"netChange"`
	High52Week                 float64   `json:"high52Week"`
	Low52Week                  float64   `json:"low52Week"`
	PERatio                    float64   `json:"peRatio"`
	AnnualDividend             float64   `json:"annualDividend"`
	DividendYield              float64   `json:"dividendYield"`
	NAV                        float64   `json:"nav"`
	ExchangeName               string    `json:"exchangeName"`
	DividendDate               string    `json:"dividendDate"`
	RegularMarketQuote         bool      `json:"regularMarketQuote"`
	RegularMarketTrade         bool      `json:"regularMarketTrade"`
	RegularMarketLastPrice     float64   `json:"regularMarketLastPrice"`
	RegularMarketLastSize      int64     `json:"regularMarketLastSize"`
	RegularMarketNetChange     float64   `json:"regularMarketNetChange"`
	SecurityStatus             string    `json:"securityStatus"`
	MarkPrice                  float64   `json:"markPrice"`
	QuoteTime                  time.Time `json:"quoteTime"`
	TradeTime                  time.Time `json:"tradeTime"`
	RegularMarketTradeTime     time.Time `json:"regularMarketTradeTime"`
	BidTime                    time.Time `json:"bidTime"`
	AskTime                    time.Time `json:"askTime"`
	AskMICID                   string    `json:"askMicId"`
	BidMICID                   string    `json:"bidMicId"`
	LastMICID                  string    `json:"lastMicId"`
	NetPercentChange           float64   `json:"netPercentChange"`
	RegularMarketPercentChange float64   `json:"regularMarketPercentChange"`
	MarkNetChange              float64   `json:"markNetChange"`
	MarkPercentChange          float64   `json:"markPercentChange"`
	HardToBorrowQuantity       int64     `json:"htbQuantity"`
	HardToBorrowRate           float64   `json:"htbRate"`
	HardToBorrow               int64     `json:"isHardToBorrow"`
	Shortable                  int64     `json:"isShortable"`
	PostMarketNetChange        float64   `json:"postMarketNetChange"`
	PostMarketPercentChange    float64   `json:"postMarketPercentChange"`
}

func (q *LevelOneEquity) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 0:
		return setString(&q.Symbol, raw)
	case 1:
		return setFloat(&q.BidPrice, raw)
	case 2:
		return setFloat(&q.AskPrice, raw)
	case 3:
		return setFloat(&q.LastPrice, raw)
	case 4:
		return setInt(&q.BidSize, raw)
	case 5:
		return setInt(&q.AskSize, raw)
	case 6:
		return setString(&q.AskID, raw)
	case 7:
		return setString(&q.BidID, raw)
	case 8:
		return setInt(&q.TotalVolume, raw)
	case 9:
		return setInt(&q.LastSize, raw)
	case 10:
		return setFloat(&q.HighPrice, raw)
	case 11:
		return setFloat(&q.LowPrice, raw)
	case 12:
		return setFloat(&q.ClosePrice, raw)
	case 13:
		return setString(&q.ExchangeID, raw)
	case 14:
		return setBool(&q.Marginable, raw)
	case 15:
		return setString(&q.Description, raw)
	case 16:
		return setString(&q.LastID, raw)
	case 17:
		return setFloat(&q.OpenPrice, raw)
	case 18:
		return setFloat(&q.NetChange, raw)
	case 19:
		return setFloat(&q.High52Week, raw)
	case 20:
		return setFloat(&q.Low52Week, raw)
	case 21:
		return setFloat(&q.PERatio, raw)
	case 22:
		return setFloat(&q.AnnualDividend, raw)
	case 23:
		return setFloat(&q.DividendYield, raw)
	case 24:
		return setFloat(&q.NAV, raw)
	case 25:
		return setString(&q.ExchangeName, raw)
	case 26:
		return setString(&q.DividendDate, raw)
	case 27:
		return setBool(&q.RegularMarketQuote, raw)
	case 28:
		return setBool(&q.RegularMarketTrade, raw)
	case 29:
		return setFloat(&q.RegularMarketLastPrice, raw)
	case 30:
		return setInt(&q.RegularMarketLastSize, raw)
	case 31:
		return setFloat(&q.RegularMarketNetChange, raw)
	case 32:
		return setString(&q.SecurityStatus, raw)
	case 33:
		return setFloat(&q.MarkPrice, raw)
	case 34:
		return setTime(&q.QuoteTime, raw)
	case 35:
		return setTime(&q.TradeTime, raw)
	case 36:
		return setTime(&q.RegularMarketTradeTime, raw)
	case 37:
		return setTime(&q.BidTime, raw)
	case 38:
		return setTime(&q.AskTime, raw)
	case 39:
		return setString(&q.AskMICID, raw)
	case 40:
		return setString(&q.BidMICID, raw)
	case 41:
		return setString(&q.LastMICID, raw)
	case 42:
		return setFloat(&q.NetPercentChange, raw)
	case 43:
		return setFloat(&q.RegularMarketPercentChange, raw)
	case 44:
		return setFloat(&q.MarkNetChange, raw)
	case 45:
		return setFloat(&q.MarkPercentChange, raw)
	case 46:
		return setInt(&q.HardToBorrowQuantity, raw)
	case 47:
		return setFloat(&q.HardToBorrowRate, raw)
	case 48:
		return setInt(&q.HardToBorrow, raw)
	case 49:
		return setInt(&q.Shortable, raw)
	case 50:
		return setFloat(&q.PostMarketNetChange, raw)
	case 51:
		return setFloat(&q.PostMarketPercentChange, raw)
	}
	return nil
}

// LevelOneOption is a top-of-book option quote (LEVELONE_OPTIONS).
type LevelOneOption struct {
	Envelope
	Symbol                 string    `json:"symbol"`
	Description            string    `json:"description"`
	BidPrice               float64   `json:"bidPrice"`
	AskPrice               float64   `json:"askPrice"`
	LastPrice              float64   `json:"lastPrice"`
	HighPrice              float64   `json:"highPrice"`
	LowPrice               float64   `json:"lowPrice"`
	ClosePrice             float64   `json:"closePrice"`
	TotalVolume            int64     `json:"totalVolume"`
	OpenInterest           int64     `json:"openInterest"`
	Volatility             float64   `json:"volatility"`
	MoneyIntrinsicValue    float64   `json:"moneyIntrinsicValue"`
	ExpirationYear         int64     `json:"expirationYear"`
	Multiplier             float64   `json:"multiplier"`
	Digits                 int64     `json:"digits"`
	OpenPrice              float64   `json:"openPrice"`
	BidSize                int64     `json:"bidSize"`
	AskSize                int64     `json:"askSize"`
	LastSize               int64     `json:"lastSize"`
	NetChange              float64   `json:"netChange"`
	StrikePrice            float64   `json:"strikePrice"`
	ContractType           string    `json:"contractType"`
	Underlying             string    `json:"underlying"`
	ExpirationMonth        int64     `json:"expirationMonth"`
	Deliverables           string    `json:"deliverables"`
	TimeValue              float64   `json:"timeValue"`
	ExpirationDay          int64     `json:"expirationDay"`
	DaysToExpiration       int64     `json:"daysToExpiration"`
	Delta                  float64   `json:"delta"`
	Gamma                  float64   `json:"gamma"`
	Theta                  float64   `json:"theta"`
	Vega                   float64   `json:"vega"`
	Rho                    float64   `json:"rho"`
	SecurityStatus         string    `json:"securityStatus"`
	TheoreticalOptionValue float64   `json:"theoreticalOptionValue"`
	UnderlyingPrice        float64   `json:"underlyingPrice"`
	UVExpirationType       string    `json:"uvExpirationType"`
	MarkPrice              float64   `json:"markPrice"`
	QuoteTime              time.Time `json:"quoteTime"`
	TradeTime              time.Time `json:"tradeTime"`
	Exchange               string    `json:"exchange"`
	ExchangeName           string    `json:"exchangeName"`
	LastTradingDay         int64     `json:"lastTradingDay"`
	SettlementType         string    `json:"settlementType"`
	NetPercentChange       float64   `json:"netPercentChange"`
	MarkNetChange          float64   `json:"markNetChange"`
	MarkPercentChange      float64   `json:"markPercentChange"`
	ImpliedYield           float64   `json:"impliedYield"`
	IsPennyPilot           bool      `json:"isPennyPilot"`
	OptionRoot             string    `json:"optionRoot"`
	High52Week             float64   `json:"high52Week"`
	Low52Week              float64   `json:"low52Week"`
	IndicativeAskPrice     float64   `json:"indicativeAskPrice"`
	IndicativeBidPrice     float64   `json:"indicativeBidPrice"`
	IndicativeQuoteTime    time.Time `json:"indicativeQuoteTime"`
	ExerciseType           string    `json:"exerciseType"`
}

func (q *LevelOneOption) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 0:
		return setString(&q.Symbol, raw)
	case 1:
		return setString(&q.Description, raw)
	case 2:
		return setFloat(&q.BidPrice, raw)
	case 3:
		return setFloat(&q.AskPrice, raw)
	case 4:
		return setFloat(&q.LastPrice, raw)
	case 5:
		return setFloat(&q.HighPrice, raw)
	case 6:
		return setFloat(&q.LowPrice, raw)
	case 7:
		return setFloat(&q.ClosePrice, raw)
	case 8:
		return setInt(&q.TotalVolume, raw)
	case 9:
		return setInt(&q.OpenInterest, raw)
	case 10:
		return setFloat(&q.Volatility, raw)
	case 11:
		return setFloat(&q.MoneyIntrinsicValue, raw)
	case 12:
		return setInt(&q.ExpirationYear, raw)
	case 13:
		return setFloat(&q.Multiplier, raw)
	case 14:
		return setInt(&q.Digits, raw)
	case 15:
		return setFloat(&q.OpenPrice, raw)
	case 16:
		return setInt(&q.BidSize, raw)
	case 17:
		return setInt(&q.AskSize, raw)
	case 18:
		return setInt(&q.LastSize, raw)
	case 19:
		return setFloat(&q.NetChange, raw)
	case 20:
		return setFloat(&q.StrikePrice, raw)
	case 21:
		return setString(&q.ContractType, raw)
	case 22:
		return setString(&q.Underlying, raw)
	case 23:
		return setInt(&q.ExpirationMonth, raw)
	case 24:
		return setString(&q.Deliverables, raw)
	case 25:
		return setFloat(&q.TimeValue, raw)
	case 26:
		return setInt(&q.ExpirationDay, raw)
	case 27:
		return setInt(&q.DaysToExpiration, raw)
	case 28:
		return setFloat(&q.Delta, raw)
	case 29:
		return setFloat(&q.Gamma, raw)
	case 30:
		return setFloat(&q.Theta, raw)
	case 31:
		return setFloat(&q.Vega, raw)
	case 32:
		return setFloat(&q.Rho, raw)
	case 33:
		return setString(&q.SecurityStatus, raw)
	case 34:
		return setFloat(&q.TheoreticalOptionValue, raw)
	case 35:
		return setFloat(&q.UnderlyingPrice, raw)
	case 36:
		return setString(&q.UVExpirationType, raw)
	case 37:
		return setFloat(&q.MarkPrice, raw)
	case 38:
		return setTime(&q.QuoteTime, raw)
	case 39:
		return setTime(&q.TradeTime, raw)
	case 40:
		return setString(&q.Exchange, raw)
	case 41:
		return setString(&q.ExchangeName, raw)
	case 42:
		return setInt(&q.LastTradingDay, raw)
	case 43:
		return setString(&q.SettlementType, raw)
	case 44:
		return setFloat(&q.NetPercentChange, raw)
	case 45:
		return setFloat(&q.MarkNetChange, raw)
	case 46:
		return setFloat(&q.MarkPercentChange, raw)
	case 47:
		return setFloat(&q.ImpliedYield, raw)
	case 48:
		return setBool(&q.IsPennyPilot, raw)
	case 49:
		return setString(&q.OptionRoot, raw)
	case 50:
		return setFloat(&q.High52Week, raw)
	case 51:
		return setFloat(&q.Low52Week, raw)
	case 52:
		return setFloat(&q.IndicativeAskPrice, raw)
	case 53:
		return setFloat(&q.IndicativeBidPrice, raw)
	case 54:
		return setTime(&q.IndicativeQuoteTime, raw)
	case 55:
		return setString(&q.ExerciseType, raw)
	}
	return nil
}

// LevelOneFuture is a top-of-book futures quote (LEVELONE_FUTURES).
type LevelOneFuture struct {
	Envelope
	Symbol          string    `json:"symbol"`
	BidPrice        float64   `json:"bidPrice"`
	AskPrice        float64   `json:"askPrice"`
	LastPrice       float64   `json:"lastPrice"`
	BidSize         int64     `json:"bidSize"`
	AskSize         int64     `json:"askSize"`
	BidID           string    `json:"bidId"`
	AskID           string    `json:"askId"`
	TotalVolume     int64     `json:"totalVolume"`
	LastSize        int64     `json:"lastSize"`
	QuoteTime       time.Time `json:"quoteTime"`
	TradeTime       time.Time `json:"tradeTime"`
	HighPrice       float64   `json:"highPrice"`
	LowPrice        float64   `json:"lowPrice"`
	ClosePrice      float64   `json:"closePrice"`
	ExchangeID      string    `json:"exchangeId"`
	Description     string    `json:"description"`
	LastID          string    `json:"lastId"`
	OpenPrice       float64   `json:"openPrice"`
	NetChange       float64   `json:"netChange"`
	PercentChange   float64   `json:"futurePercentChange"`
	ExchangeName    string    `json:"exchangeName"`
	SecurityStatus  string    `json:"securityStatus"`
	OpenInterest    int64     `json:"openInterest"`
	MarkPrice       float64   `json:"mark"`
	Tick            float64   `json:"tick"`
	TickAmount      float64   `json:"tickAmount"`
	Product         string    `json:"product"`
	PriceFormat     string    `json:"futurePriceFormat"`
	TradingHours    string    `json:"futureTradingHours"`
	IsTradable      bool      `json:"futureIsTradable"`
	Multiplier      float64   `json:"futureMultiplier"`
	IsActive        bool      `json:"futureIsActive"`
	SettlementPrice float64   `json:"futureSettlementPrice"`
	ActiveSymbol    string    `json:"futureActiveSymbol"`
	ExpirationDate  time.Time `json:"futureExpirationDate"`
	ExpirationStyle string    `json:"expirationStyle"`
	AskTime         time.Time `json:"askTime"`
	BidTime         time.Time `json:"bidTime"`
	QuotedInSession bool      `json:"quotedInSession"`
	SettlementDate  time.Time `json:"settlementDate"`
}

func (q *LevelOneFuture) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 0:
		return setString(&q.Symbol, raw)
	case 1:
		return setFloat(&q.BidPrice, raw)
	case 2:
		return setFloat(&q.AskPrice, raw)
	case 3:
		return setFloat(&q.LastPrice, raw)
	case 4:
		return setInt(&q.BidSize, raw)
	case 5:
		return setInt(&q.AskSize, raw)
	case 6:
		return setString(&q.BidID, raw)
	case 7:
		return setString(&q.AskID, raw)
	case 8:
		return setInt(&q.TotalVolume, raw)
	case 9:
		return setInt(&q.LastSize, raw)
	case 10:
		return setTime(&q.QuoteTime, raw)
	case 11:
		return setTime(&q.TradeTime, raw)
	case 12:
		return setFloat(&q.HighPrice, raw)
	case 13:
		return setFloat(&q.LowPrice, raw)
	case 14:
		return setFloat(&q.ClosePrice, raw)
	case 15:
		return setString(&q.ExchangeID, raw)
	case 16:
		return setString(&q.Description, raw)
	case 17:
		return setString(&q.LastID, raw)
	case 18:
		return setFloat(&q.OpenPrice, raw)
	case 19:
		return setFloat(&q.NetChange, raw)
	case 20:
		return setFloat(&q.PercentChange, raw)
	case 21:
		return setString(&q.ExchangeName, raw)
	case 22:
		return setString(&q.SecurityStatus, raw)
	case 23:
		return setInt(&q.OpenInterest, raw)
	case 24:
		return setFloat(&q.MarkPrice, raw)
	case 25:
		return setFloat(&q.Tick, raw)
	case 26:
		return setFloat(&q.TickAmount, raw)
	case 27:
		return setString(&q.Product, raw)
	case 28:
		return setString(&q.PriceFormat, raw)
	case 29:
		return setString(&q.TradingHours, raw)
	case 30:
		return setBool(&q.IsTradable, raw)
	case 31:
		return setFloat(&q.Multiplier, raw)
	case 32:
		return setBool(&q.IsActive, raw)
	case 33:
		return setFloat(&q.SettlementPrice, raw)
	case 34:
		return setString(&q.ActiveSymbol, raw)
	case 35:
		return setTime(&q.ExpirationDate, raw)
	case 36:
		return setString(&q.ExpirationStyle, raw)
	case 37:
		return setTime(&q.AskTime, raw)
	case 38:
		return setTime(&q.BidTime, raw)
	case 39:
		return setBool(&q.QuotedInSession, raw)
	case 40:
		return setTime(&q.SettlementDate, raw)
	}
	return nil
}

// LevelOneFutureOption is a top-of-book futures option quote (LEVELONE_FUTURES_OPTIONS).
type LevelOneFutureOption struct {
	Envelope
	Symbol           string    `json:"symbol"`
	BidPrice         float64   `json:"bidPrice"`
	AskPrice         float64   `json:"askPrice"`
	LastPrice        float64   `json:"lastPrice"`
	BidSize          int64     `json:"bidSize"`
	AskSize          int64     `json:"askSize"`
	BidID            string    `json:"bidId"`
	AskID            string    `json:"askId"`
	TotalVolume      int64     `json:"totalVolume"`
	LastSize         int64     `json:"lastSize"`
	QuoteTime        time.Time `json:"quoteTime"`
	TradeTime        time.Time `json:"tradeTime"`
	HighPrice        float64   `json:"highPrice"`
	LowPrice         float64   `json:"lowPrice"`
	ClosePrice       float64   `json:"closePrice"`
	LastID           string    `json:"lastId"`
	Description      string    `json:"description"`
	OpenPrice        float64   `json:"openPrice"`
	OpenInterest     int64     `json:"openInterest"`
	MarkPrice        float64   `json:"mark"`
	Tick             float64   `json:"tick"`
	TickAmount       float64   `json:"tickAmount"`
	Multiplier       float64   `json:"futureMultiplier"`
	SettlementPrice  float64   `json:"futureSettlementPrice"`
	UnderlyingSymbol string    `json:"underlyingSymbol"`
	StrikePrice      float64   `json:"strikePrice"`
	ExpirationDate   time.Time `json:"futureExpirationDate"`
	ExpirationStyle  string    `json:"expirationStyle"`
	ContractType     string    `json:"contractType"`
	SecurityStatus   string    `json:"securityStatus"`
	Exchange         string    `json:"exchange"`
	ExchangeName     string    `json:"exchangeName"`
}

func (q *LevelOneFutureOption) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 0:
		return setString(&q.Symbol, raw)
	case 1:
		return setFloat(&q.BidPrice, raw)
	case 2:
		return setFloat(&q.AskPrice, raw)
	case 3:
		return setFloat(&q.LastPrice, raw)
	case 4:
		return setInt(&q.BidSize, raw)
	case 5:
		return setInt(&q.AskSize, raw)
	case 6:
		return setString(&q.BidID, raw)
	case 7:
		return setString(&q.AskID, raw)
	case 8:
		return setInt(&q.TotalVolume, raw)
	case 9:
		return setInt(&q.LastSize, raw)
	case 10:
		return setTime(&q.QuoteTime, raw)
	case 11:
		return setTime(&q.TradeTime, raw)
	case 12:
		return setFloat(&q.HighPrice, raw)
	case 13:
		return setFloat(&q.LowPrice, raw)
	case 14:
		return setFloat(&q.ClosePrice, raw)
	case 15:
		return setString(&q.LastID, raw)
	case 16:
		return setString(&q.Description, raw)
	case 17:
		return setFloat(&q.OpenPrice, raw)
	case 18:
		return setInt(&q.OpenInterest, raw)
	case 19:
		return setFloat(&q.MarkPrice, raw)
	case 20:
		return setFloat(&q.Tick, raw)
	case 21:
		return setFloat(&q.TickAmount, raw)
	case 22:
		return setFloat(&q.Multiplier, raw)
	case 23:
		return setFloat(&q.SettlementPrice, raw)
	case 24:
		return setString(&q.UnderlyingSymbol, raw)
	case 25:
		return setFloat(&q.StrikePrice, raw)
	case 26:
		return setTime(&q.ExpirationDate, raw)
	case 27:
		return setString(&q.ExpirationStyle, raw)
	case 28:
		return setString(&q.ContractType, raw)
	case 29:
		return setString(&q.SecurityStatus, raw)
	case 30:
		return setString(&q.Exchange, raw)
	case 31:
		return setString(&q.ExchangeName, raw)
	}
	return nil
}

// LevelOneForex is a top-of-book currency pair quote (LEVELONE_FOREX).
type LevelOneForex struct {
	Envelope
	Symbol         string    `json:"symbol"`
	BidPrice       float64   `json:"bidPrice"`
	AskPrice       float64   `json:"askPrice"`
	LastPrice      float64   `json:"lastPrice"`
	BidSize        int64     `json:"bidSize"`
	AskSize        int64     `json:"askSize"`
	TotalVolume    int64     `json:"totalVolume"`
	LastSize       int64     `json:"lastSize"`
	QuoteTime      time.Time `json:"quoteTime"`
	TradeTime      time.Time `json:"tradeTime"`
	HighPrice      float64   `json:"highPrice"`
	LowPrice       float64   `json:"lowPrice"`
	ClosePrice     float64   `json:"closePrice"`
	Exchange       string    `json:"exchange"`
	Description    string    `json:"description"`
	OpenPrice      float64   `json:"openPrice"`
	NetChange      float64   `json:"netChange"`
	PercentChange  float64   `json:"percentChange"`
	ExchangeName   string    `json:"exchangeName"`
	Digits         int64     `json:"digits"`
	SecurityStatus string    `json:"securityStatus"`
	Tick           float64   `json:"tick"`
	TickAmount     float64   `json:"tickAmount"`
	Product        string    `json:"product"`
	TradingHours   string    `json:"tradingHours"`
	IsTradable     bool      `json:"isTradable"`
	MarketMaker    string    `json:"marketMaker"`
	High52Week     float64   `json:"high52Week"`
	Low52Week      float64   `json:"low52Week"`
	MarkPrice      float64   `json:"mark"`
}

func (q *LevelOneForex) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 0:
		return setString(&q.Symbol, raw)
	case 1:
		return setFloat(&q.BidPrice, raw)
	case 2:
		return setFloat(&q.AskPrice, raw)
	case 3:
		return setFloat(&q.LastPrice, raw)
	case 4:
		return setInt(&q.BidSize, raw)
	case 5:
		return setInt(&q.AskSize, raw)
	case 6:
		return setInt(&q.TotalVolume, raw)
	case 7:
		return setInt(&q.LastSize, raw)
	case 8:
		return setTime(&q.QuoteTime, raw)
	case 9:
		return setTime(&q.TradeTime, raw)
	case 10:
		return setFloat(&q.HighPrice, raw)
	case 11:
		return setFloat(&q.LowPrice, raw)
	case 12:
		return setFloat(&q.ClosePrice, raw)
	case 13:
		return setString(&q.Exchange, raw)
	case 14:
		return setString(&q.Description, raw)
	case 15:
		return setFloat(&q.OpenPrice, raw)
	case 16:
		return setFloat(&q.NetChange, raw)
	case 17:
		return setFloat(&q.PercentChange, raw)
	case 18:
		return setString(&q.ExchangeName, raw)
	case 19:
		return setInt(&q.Digits, raw)
	case 20:
		return setString(&q.SecurityStatus, raw)
	case 21:
		return setFloat(&q.Tick, raw)
	case 22:
		return setFloat(&q.TickAmount, raw)
	case 23:
		return setString(&q.Product, raw)
	case 24:
		return setString(&q.TradingHours, raw)
	case 25:
		return setBool(&q.IsTradable, raw)
	case 26:
		return setString(&q.MarketMaker, raw)
	case 27:
		return setFloat(&q.High52Week, raw)
	case 28:
		return setFloat(&q.Low52Week, raw)
	case 29:
		return setFloat(&q.MarkPrice, raw)
	}
	return nil
}

type (
	LevelOneEquities       = Handler[LevelOneEquity, *LevelOneEquity]
	LevelOneOptions        = Handler[LevelOneOption, *LevelOneOption]
	LevelOneFutures        = Handler[LevelOneFuture, *LevelOneFuture]
	LevelOneFuturesOptions = Handler[LevelOneFutureOption, *LevelOneFutureOption]
	LevelOneForexes        = Handler[LevelOneForex, *LevelOneForex]
)
