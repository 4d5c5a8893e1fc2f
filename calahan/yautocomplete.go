package calahan

import "strings"

// YAutocomplete is a single entry returned by the Yahoo! Finance
// autocomplete API.
//
// The autocomplete endpoint predates the search endpoint and uses short
// field names and one-letter type codes.
type YAutocomplete struct {
	Exchange        string `json:"exch"`
	ExchangeDisplay string `json:"exchDisp"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	TypeCode        string `json:"type"`
	TypeDisplay     string `json:"typeDisp"`
}

// Type maps Yahoo!'s one-letter type code to a QuoteType. Codes for
// options, currencies, cryptocurrencies, futures and ETFs are not currently
// mapped and resolve to EQUITY.
func (a *YAutocomplete) Type() QuoteType {
	switch strings.ToUpper(a.TypeCode) {
	case "S":
		return QuoteTypeEquity
	case "I":
		return QuoteTypeIndex
	case "M":
		return QuoteTypeMutualFund
	default:
		return QuoteTypeEquity
	}
}
