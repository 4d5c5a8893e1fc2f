package calahan

// QuoteType classifies the financial instruments supported by the
// Yahoo! Finance API.
type QuoteType string

const (
	QuoteTypeEquity         QuoteType = "EQUITY"
	QuoteTypeIndex          QuoteType = "INDEX"
	QuoteTypeOption         QuoteType = "OPTION"
	QuoteTypeCurrency       QuoteType = "CURRENCY"
	QuoteTypeCryptocurrency QuoteType = "CRYPTOCURRENCY"
	QuoteTypeFuture         QuoteType = "FUTURE"
	QuoteTypeETF            QuoteType = "ETF"
	QuoteTypeMutualFund     QuoteType = "MUTUALFUND"
)

// MarketState identifies the trading session phase for a market.
//
// PRE usually covers weekdays 4:00am - 9:30am Eastern, REGULAR
// 9:30am - 4:00pm and POST 4:00pm - 8:00pm, excluding holidays.
type MarketState string

const (
	MarketStatePrePre   MarketState = "PREPRE"
	MarketStatePre      MarketState = "PRE"
	MarketStateRegular  MarketState = "REGULAR"
	MarketStatePost     MarketState = "POST"
	MarketStatePostPost MarketState = "POSTPOST"
	MarketStateClosed   MarketState = "CLOSED"
)

// OptionType classifies derivative contracts by the right they confer on
// the underlying asset.
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// PriceAlertConfidence is a confidence indicator attached by Yahoo! to
// price alerts. Observed values are NONE, LOW and HIGH.
type PriceAlertConfidence string

const (
	PriceAlertConfidenceNone PriceAlertConfidence = "NONE"
	PriceAlertConfidenceLow  PriceAlertConfidence = "LOW"
	PriceAlertConfidenceHigh PriceAlertConfidence = "HIGH"
)
