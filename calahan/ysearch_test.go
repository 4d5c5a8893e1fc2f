package calahan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"valid date", `"2025-11-01"`, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"empty string", `""`, time.Time{}, false},
		{"garbage", `"tomorrow"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.Equal(tt.want), "got %v, want %v", d.Time, tt.want)
		})
	}
}

func TestDateMarshalRoundTrip(t *testing.T) {
	d := Date{Time: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)}
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-11-01"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestYSearchResultParsesAllSections(t *testing.T) {
	payload := `{
		"count": 15,
		"quotes": [
			{
				"symbol": "BTC=F",
				"shortname": "Bitcoin Futures,Oct-2025",
				"quoteType": "FUTURE",
				"exchange": "CME",
				"score": 30007.0,
				"isYahooFinance": true
			},
			{
				"symbol": "BTCT",
				"longname": "BTC Digital Ltd.",
				"quoteType": "EQUITY",
				"sector": "Technology",
				"industryDisp": "Computer Hardware",
				"prevName": "Meten EdtechX Education Group Ltd.",
				"nameChangeDate": "2025-11-01",
				"score": 20102.0,
				"isYahooFinance": true
			}
		],
		"news": [
			{
				"uuid": "16c97176",
				"title": "Bitcoin climbs",
				"publisher": "Newswire",
				"link": "https://example.com/btc",
				"providerPublishTime": 1762193478,
				"type": "VIDEO",
				"thumbnail": {
					"resolutions": [
						{"url": "https://example.com/t.jpg", "width": 1920, "height": 1080, "tag": "original"}
					]
				}
			}
		],
		"lists": [
			{"type": "ALGO_WATCHLIST", "index": "most-watched", "score": 11.0, "followerCount": 120}
		],
		"nav": [
			{"navName": "Cryptocurrencies", "navUrl": "https://finance.yahoo.com/crypto"}
		]
	}`

	var result YSearchResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	assert.Equal(t, 15, result.Count)
	require.Len(t, result.Quotes, 2)

	future := result.Quotes[0]
	assert.Equal(t, "BTC=F", future.Symbol)
	assert.Equal(t, QuoteTypeFuture, future.QuoteType)
	assert.Equal(t, "Bitcoin Futures,Oct-2025", future.ShortName)
	assert.InDelta(t, 30007.0, future.Score, 1e-9)
	assert.True(t, future.IsYahooFinance)

	equity := result.Quotes[1]
	assert.Equal(t, QuoteTypeEquity, equity.QuoteType)
	assert.Equal(t, "BTC Digital Ltd.", equity.LongName)
	assert.Equal(t, "Technology", equity.Sector)
	assert.Equal(t, "Computer Hardware", equity.IndustryDisp)
	assert.Equal(t, "Meten EdtechX Education Group Ltd.", equity.PrevName)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), equity.NameChangeDate.Time)

	require.Len(t, result.News, 1)
	news := result.News[0]
	assert.Equal(t, "Bitcoin climbs", news.Title)
	require.NotNil(t, news.Thumbnail)
	require.Len(t, news.Thumbnail.Resolutions, 1)
	assert.Equal(t, 1920, news.Thumbnail.Resolutions[0].Width)
	assert.Equal(t, int64(1762193478), news.PublishDatetime().Unix())

	require.Len(t, result.Lists, 1)
	assert.Equal(t, "ALGO_WATCHLIST", result.Lists[0].ListType)
	require.NotNil(t, result.Lists[0].FollowerCount)
	assert.Equal(t, 120, *result.Lists[0].FollowerCount)

	require.Len(t, result.Nav, 1)
	assert.Equal(t, "Cryptocurrencies", result.Nav[0].Name)
}
