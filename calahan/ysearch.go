package calahan

import (
	"strings"
	"time"
)

// Date is a calendar date decoded from Yahoo!'s "YYYY-MM-DD" fields.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts a quoted "YYYY-MM-DD" string, null, or an empty
// string (left as the zero Date).
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// MarshalJSON renders the date back as a quoted "YYYY-MM-DD" string, or
// null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// YSearchQuote is a single security returned by a Yahoo! Finance search.
//
// Search results use lowercase keys for a handful of fields (longname,
// shortname) unlike the quote API.
type YSearchQuote struct {
	Symbol               string    `json:"symbol"`
	ShortName            string    `json:"shortname"`
	LongName             string    `json:"longname"`
	Exchange             string    `json:"exchange"`
	ExchDisp             string    `json:"exchDisp"`
	ExchangeTransferDate Date      `json:"exchangeTransferDate"`
	Index                string    `json:"index"`
	Industry             string    `json:"industry"`
	IndustryDisp         string    `json:"industryDisp"`
	Sector               string    `json:"sector"`
	SectorDisp           string    `json:"sectorDisp"`
	QuoteType            QuoteType `json:"quoteType"`
	TypeDisp             string    `json:"typeDisp"`
	Score                float64   `json:"score"`
	IsYahooFinance       bool      `json:"isYahooFinance"`
	NameChangeDate       Date      `json:"nameChangeDate"`
	NewListingsDate      Date      `json:"newListingsDate"`
	TickerChangeDate     Date      `json:"tickerChangeDate"`
	PrevExchange         string    `json:"prevExchange"`
	PrevName             string    `json:"prevName"`
	PrevTicker           string    `json:"prevTicker"`
}

// YSearchNewsThumbnailResolution describes one size of a news thumbnail.
type YSearchNewsThumbnailResolution struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tag    string `json:"tag"`
}

// YSearchNewsThumbnail carries the available thumbnail resolutions for a
// news item.
type YSearchNewsThumbnail struct {
	Resolutions []YSearchNewsThumbnailResolution `json:"resolutions"`
}

// YSearchNews is a news story returned with search results.
type YSearchNews struct {
	UUID                string                `json:"uuid"`
	Title               string                `json:"title"`
	Publisher           string                `json:"publisher"`
	Link                string                `json:"link"`
	ProviderPublishTime int64                 `json:"providerPublishTime"`
	Type                string                `json:"type"`
	Thumbnail           *YSearchNewsThumbnail `json:"thumbnail"`
	RelatedTickers      []string              `json:"relatedTickers"`
}

// PublishDatetime returns the publication time of the story.
func (n *YSearchNews) PublishDatetime() time.Time {
	return time.Unix(n.ProviderPublishTime, 0)
}

// YSearchList is a curated list (algorithmic watchlist, screener) surfaced
// with search results.
type YSearchList struct {
	ListType         string   `json:"type"`
	Index            string   `json:"index"`
	Score            float64  `json:"score"`
	IconURL          string   `json:"iconUrl"`
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	BrandSlug        string   `json:"brandSlug"`
	PfID             string   `json:"pfId"`
	SymbolCount      *int     `json:"symbolCount"`
	DailyPercentGain *float64 `json:"dailyPercentGain"`
	FollowerCount    *int     `json:"followerCount"`
	UserID           string   `json:"userId"`
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	CanonicalName    string   `json:"canonicalName"`
	Total            *int     `json:"total"`
	IsPremium        *bool    `json:"isPremium"`
}

// YSearchNavLink is a navigation link returned with search results.
type YSearchNavLink struct {
	Name string `json:"navName"`
	URL  string `json:"navUrl"`
}

// YSearchResult is the structured representation of Yahoo! Finance search
// results.
type YSearchResult struct {
	Count  int              `json:"count"`
	Quotes []YSearchQuote   `json:"quotes"`
	News   []YSearchNews    `json:"news"`
	Lists  []YSearchList    `json:"lists"`
	Nav    []YSearchNavLink `json:"nav"`
}
