package calahan

import (
	"fmt"
	"time"
)

// YQuote is the structured representation of financial market quote data
// from Yahoo! Finance.
//
// Yahoo! populates a different subset of fields for each quote type, so
// most numeric fields are pointers; nil means the provider did not report
// a value. Strings are empty when absent.
type YQuote struct {
	// Identity. Populated for all quote types.
	Symbol      string      `json:"symbol"`
	ShortName   string      `json:"shortName"`
	LongName    string      `json:"longName"`
	DisplayName string      `json:"displayName"`
	QuoteType   QuoteType   `json:"quoteType"`
	TypeDisp    string      `json:"typeDisp"`
	Currency    string      `json:"currency"`
	Language    string      `json:"language"`
	Region      string      `json:"region"`
	MarketState MarketState `json:"marketState"`
	Market      string      `json:"market"`

	// Exchange.
	Exchange                  string `json:"exchange"`
	FullExchangeName          string `json:"fullExchangeName"`
	ExchangeTimezoneName      string `json:"exchangeTimezoneName"`
	ExchangeTimezoneShortName string `json:"exchangeTimezoneShortName"`
	ExchangeDataDelayedBy     *int   `json:"exchangeDataDelayedBy"`
	GmtOffSetMilliseconds     int64  `json:"gmtOffSetMilliseconds"`
	QuoteSourceName           string `json:"quoteSourceName"`
	SourceInterval            *int   `json:"sourceInterval"`
	MessageBoardID            string `json:"messageBoardId"`

	// Regular trading session.
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	RegularMarketOpen          *float64 `json:"regularMarketOpen"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	RegularMarketDayRange      string   `json:"regularMarketDayRange"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume        *int64   `json:"regularMarketVolume"`
	RegularMarketTime          *int64   `json:"regularMarketTime"`

	// Pre and post market sessions.
	PreMarketPrice             *float64 `json:"preMarketPrice"`
	PreMarketChange            *float64 `json:"preMarketChange"`
	PreMarketChangePercent     *float64 `json:"preMarketChangePercent"`
	PreMarketTime              *int64   `json:"preMarketTime"`
	PostMarketPrice            *float64 `json:"postMarketPrice"`
	PostMarketChange           *float64 `json:"postMarketChange"`
	PostMarketChangePercent    *float64 `json:"postMarketChangePercent"`
	PostMarketTime             *int64   `json:"postMarketTime"`
	FirstTradeDateMilliseconds int64    `json:"firstTradeDateMilliseconds"`

	// Bid and ask.
	Ask     *float64 `json:"ask"`
	AskSize *int64   `json:"askSize"`
	Bid     *float64 `json:"bid"`
	BidSize *int64   `json:"bidSize"`

	// Volume averages.
	AverageDailyVolume10Day  *int64 `json:"averageDailyVolume10Day"`
	AverageDailyVolume3Month *int64 `json:"averageDailyVolume3Month"`

	// Moving averages and ranges.
	FiftyDayAverage                   *float64 `json:"fiftyDayAverage"`
	FiftyDayAverageChange             *float64 `json:"fiftyDayAverageChange"`
	FiftyDayAverageChangePercent      *float64 `json:"fiftyDayAverageChangePercent"`
	TwoHundredDayAverage              *float64 `json:"twoHundredDayAverage"`
	TwoHundredDayAverageChange        *float64 `json:"twoHundredDayAverageChange"`
	TwoHundredDayAverageChangePercent *float64 `json:"twoHundredDayAverageChangePercent"`
	FiftyTwoWeekChangePercent         *float64 `json:"fiftyTwoWeekChangePercent"`
	FiftyTwoWeekHigh                  *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekHighChange            *float64 `json:"fiftyTwoWeekHighChange"`
	FiftyTwoWeekHighChangePercent     *float64 `json:"fiftyTwoWeekHighChangePercent"`
	FiftyTwoWeekLow                   *float64 `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekLowChange             *float64 `json:"fiftyTwoWeekLowChange"`
	FiftyTwoWeekLowChangePercent      *float64 `json:"fiftyTwoWeekLowChangePercent"`
	FiftyTwoWeekRange                 string   `json:"fiftyTwoWeekRange"`

	// Fundamentals. EQUITY, ETF and MUTUALFUND quotes mostly.
	MarketCap                   *int64   `json:"marketCap"`
	SharesOutstanding           *int64   `json:"sharesOutstanding"`
	BookValue                   *float64 `json:"bookValue"`
	PriceToBook                 *float64 `json:"priceToBook"`
	TrailingPE                  *float64 `json:"trailingPE"`
	ForwardPE                   *float64 `json:"forwardPE"`
	EpsCurrentYear              *float64 `json:"epsCurrentYear"`
	EpsForward                  *float64 `json:"epsForward"`
	EpsTrailingTwelveMonths     *float64 `json:"epsTrailingTwelveMonths"`
	PriceEpsCurrentYear         *float64 `json:"priceEpsCurrentYear"`
	FinancialCurrency           string   `json:"financialCurrency"`
	AverageAnalystRating        string   `json:"averageAnalystRating"`
	DividendDate                *int64   `json:"dividendDate"`
	DividendRate                *float64 `json:"dividendRate"`
	DividendYield               *float64 `json:"dividendYield"`
	TrailingAnnualDividendRate  *float64 `json:"trailingAnnualDividendRate"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	EarningsTimestamp           *int64   `json:"earningsTimestamp"`
	EarningsTimestampStart      *int64   `json:"earningsTimestampStart"`
	EarningsTimestampEnd        *int64   `json:"earningsTimestampEnd"`

	// Funds. ETF and MUTUALFUND quotes.
	NetAssets                    *float64 `json:"netAssets"`
	NetExpenseRatio              *float64 `json:"netExpenseRatio"`
	TrailingThreeMonthNavReturns *float64 `json:"trailingThreeMonthNavReturns"`
	TrailingThreeMonthReturns    *float64 `json:"trailingThreeMonthReturns"`
	YtdReturn                    *float64 `json:"ytdReturn"`

	// Cryptocurrency.
	CirculatingSupply   *int64 `json:"circulatingSupply"`
	CoinImageURL        string `json:"coinImageUrl"`
	CoinMarketCapLink   string `json:"coinMarketCapLink"`
	CryptoTradeable     *bool  `json:"cryptoTradeable"`
	FromCurrency        string `json:"fromCurrency"`
	ToCurrency          string `json:"toCurrency"`
	LastMarket          string `json:"lastMarket"`
	LogoURL             string `json:"logoUrl"`
	Volume24Hr          *int64 `json:"volume24Hr"`
	VolumeAllCurrencies *int64 `json:"volumeAllCurrencies"`
	StartDate           *int64 `json:"startDate"`

	// Options and futures.
	OptionType               *OptionType `json:"optionType"`
	Strike                   *float64    `json:"strike"`
	OpenInterest             *int64      `json:"openInterest"`
	ExpireDate               *int64      `json:"expireDate"`
	ExpireISODate            string      `json:"expireIsoDate"`
	ContractSymbol           *bool       `json:"contractSymbol"`
	HeadSymbolAsString       string      `json:"headSymbolAsString"`
	UnderlyingSymbol         string      `json:"underlyingSymbol"`
	UnderlyingShortName      string      `json:"underlyingShortName"`
	UnderlyingExchangeSymbol string      `json:"underlyingExchangeSymbol"`

	// Corporate actions and miscellany.
	IpoExpectedDate            string               `json:"ipoExpectedDate"`
	NameChangeDate             string               `json:"nameChangeDate"`
	PrevName                   string               `json:"prevName"`
	CustomPriceAlertConfidence PriceAlertConfidence `json:"customPriceAlertConfidence"`
	EsgPopulated               *bool                `json:"esgPopulated"`
	Tradeable                  *bool                `json:"tradeable"`
	Triggerable                *bool                `json:"triggerable"`
	PriceHint                  *int                 `json:"priceHint"`
}

// exchangeLocation resolves the exchange's IANA timezone, falling back to
// UTC when the name is absent or unknown.
func (q *YQuote) exchangeLocation() *time.Location {
	if q.ExchangeTimezoneName == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(q.ExchangeTimezoneName)
	if err != nil {
		return time.UTC
	}
	return loc
}

// datetime converts an epoch-seconds field into the exchange's timezone.
func (q *YQuote) datetime(timestamp *int64) (time.Time, bool) {
	if timestamp == nil {
		return time.Time{}, false
	}
	return time.Unix(*timestamp, 0).In(q.exchangeLocation()), true
}

// RegularMarketDatetime returns the time of the most recent trade in the
// regular trading session.
func (q *YQuote) RegularMarketDatetime() (time.Time, bool) {
	return q.datetime(q.RegularMarketTime)
}

// PreMarketDatetime returns the time of the most recent pre-market trade.
func (q *YQuote) PreMarketDatetime() (time.Time, bool) {
	return q.datetime(q.PreMarketTime)
}

// PostMarketDatetime returns the time of the most recent post-market trade.
func (q *YQuote) PostMarketDatetime() (time.Time, bool) {
	return q.datetime(q.PostMarketTime)
}

// EarningsDatetime returns the time of the company's earnings announcement.
func (q *YQuote) EarningsDatetime() (time.Time, bool) {
	return q.datetime(q.EarningsTimestamp)
}

// EarningsDatetimeStart returns the start of the earnings announcement
// window.
func (q *YQuote) EarningsDatetimeStart() (time.Time, bool) {
	return q.datetime(q.EarningsTimestampStart)
}

// EarningsDatetimeEnd returns the end of the earnings announcement window.
func (q *YQuote) EarningsDatetimeEnd() (time.Time, bool) {
	return q.datetime(q.EarningsTimestampEnd)
}

// FirstTradeDatetime returns the time of the first trade of the security.
func (q *YQuote) FirstTradeDatetime() time.Time {
	seconds := q.FirstTradeDateMilliseconds / 1000
	return time.Unix(seconds, 0).In(q.exchangeLocation())
}

// String renders the quote as 'symbol: price (percent%) -- datetime'.
func (q *YQuote) String() string {
	price := "N/A"
	if q.RegularMarketPrice != nil {
		price = fmt.Sprintf("%.2f", *q.RegularMarketPrice)
	}
	percent := "N/A"
	if q.RegularMarketChangePercent != nil {
		percent = fmt.Sprintf("%.2f%%", *q.RegularMarketChangePercent)
	}
	when := "N/A"
	if t, ok := q.RegularMarketDatetime(); ok {
		when = t.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("YQuote(%s: %s (%s) -- %s)", q.Symbol, price, percent, when)
}
