package calahan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	yahooFinanceURL = "https://finance.yahoo.com"
	yahooQueryURL   = "https://query1.finance.yahoo.com"
	yahooConsentURL = "https://consent.yahoo.com"

	crumbPath = "/v1/test/getcrumb"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36 Edg/136.0.3240.64"

	acceptMIMETypes = "text/html,application/xhtml+xml,application/xml;" +
		"q=0.9,image/avif,image/webp,image/apng,*/*;" +
		"q=0.8,application/signed-exchange;v=b3;q=0.7"

	// authCookieName is the cookie Yahoo! requires alongside the crumb.
	authCookieName = "A3"

	maxRedirects = 10
)

// sessionEpoch is the zero expiry; any real cookie expiry supersedes it.
var sessionEpoch = time.Unix(0, 0)

// clientOptions holds options for creating a session client.
type clientOptions struct {
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetryElapsed time.Duration

	// Endpoint overrides, for tests.
	FinanceURL string
	QueryURL   string
	ConsentURL string
}

// yClient is the session-managed transport for the Yahoo! Finance API.
//
// Yahoo! requires a valid session cookie and an anti-CSRF "crumb" on every
// data request. The client refreshes both lazily, single-flight, and wraps
// every request with client-side rate limiting and exponential-backoff
// retries.
type yClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	financeURL string
	queryURL   string
	consentURL string

	maxRetryElapsed time.Duration

	mu     sync.RWMutex
	crumb  string
	expiry time.Time
}

// newYClient creates a new session client.
func newYClient(opts clientOptions) *yClient {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryElapsed == 0 {
		opts.MaxRetryElapsed = 30 * time.Second
	}
	if opts.FinanceURL == "" {
		opts.FinanceURL = yahooFinanceURL
	}
	if opts.QueryURL == "" {
		opts.QueryURL = yahooQueryURL
	}
	if opts.ConsentURL == "" {
		opts.ConsentURL = yahooConsentURL
	}

	// The jar carries session cookies across the login, consent and data
	// requests. Redirects are always followed manually so the chain can be
	// inspected for consent parameters.
	jar, _ := cookiejar.New(nil)

	return &yClient{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter:         rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		logger:          newComponentLogger("yclient"),
		financeURL:      opts.FinanceURL,
		queryURL:        opts.QueryURL,
		consentURL:      opts.ConsentURL,
		maxRetryElapsed: opts.MaxRetryElapsed,
		expiry:          sessionEpoch,
	}
}

// hop is one request/response pair in a manually followed redirect chain.
type hop struct {
	url  *url.URL
	resp *http.Response
}

// doChain executes a request and follows redirects manually, returning every
// hop. Response bodies of intermediate hops are closed; the final hop's body
// is left open for the caller.
func (c *yClient) doChain(ctx context.Context, method, rawURL string, headers map[string]string, body io.Reader, follow bool) ([]hop, error) {
	var hops []hop

	current := rawURL
	reqBody := body
	reqMethod := method
	for i := 0; i < maxRedirects; i++ {
		req, err := http.NewRequestWithContext(ctx, reqMethod, current, reqBody)
		if err != nil {
			return hops, fmt.Errorf("creating request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return hops, fmt.Errorf("HTTP request failed: %w", err)
		}

		u := req.URL
		hops = append(hops, hop{url: u, resp: resp})

		location := resp.Header.Get("Location")
		redirected := resp.StatusCode >= 300 && resp.StatusCode < 400 && location != ""
		if !follow || !redirected {
			return hops, nil
		}

		next, err := u.Parse(location)
		if err != nil {
			return hops, fmt.Errorf("parsing redirect location: %w", err)
		}

		resp.Body.Close()
		current = next.String()
		// Redirects degrade to GET, mirroring browser behavior.
		reqMethod = http.MethodGet
		reqBody = nil
	}

	return hops, fmt.Errorf("stopped after %d redirects", maxRedirects)
}

// closeHops closes every remaining open body in a chain.
func closeHops(hops []hop) {
	if len(hops) > 0 {
		hops[len(hops)-1].resp.Body.Close()
	}
}

func (c *yClient) loginHeaders() map[string]string {
	return map[string]string{
		"accept":                    acceptMIMETypes,
		"accept-language":           "en-US,en;q=0.9",
		"upgrade-insecure-requests": "1",
		"user-agent":                userAgent,
	}
}

// refreshCookies logs into Yahoo! Finance and establishes the session
// cookies. On success the crumb is invalidated so it is refreshed on next
// use.
func (c *yClient) refreshCookies(ctx context.Context) {
	c.logger.Debug().Msg("logging in")

	hops, err := c.doChain(ctx, http.MethodGet, c.financeURL, c.loginHeaders(), nil, false)
	if err != nil {
		c.logger.Error().Err(err).
			Str("url", c.financeURL).
			Msg("cookie refresh failed: unable to connect to Yahoo Finance; " +
				"authentication will not work without cookies")
		closeHops(hops)
		return
	}

	resp := hops[len(hops)-1].resp
	cookies := resp.Cookies()
	resp.Body.Close()

	if isEUConsentRedirect(resp) {
		cookies = c.acquireCookiesEU(ctx)
	}

	if !hasCookie(cookies, authCookieName) {
		c.logger.Error().
			Strs("cookies_received", cookieNames(cookies)).
			Msg("cookie refresh failed: required A3 cookie not set; " +
				"possible causes: changed authentication flow, failed EU consent, " +
				"or regional access restrictions")
		return
	}

	// The session lasts until the earliest cookie expiry; ten years is the
	// ceiling when Yahoo! reports none.
	expiry := time.Now().Add(10 * 365 * 24 * time.Hour)
	for _, cookie := range cookies {
		if !strings.HasSuffix(cookie.Domain, "yahoo.com") || cookie.Expires.IsZero() {
			continue
		}
		if cookie.Expires.Before(expiry) {
			c.logger.Debug().
				Str("cookie", cookie.Name).
				Time("expiry", cookie.Expires).
				Msg("cookie accepted")
			expiry = cookie.Expires
		}
	}

	c.expiry = expiry
	// Invalidate the crumb so it gets refreshed on next use.
	c.crumb = ""
}

// isEUConsentRedirect reports whether the login response bounced to the EU
// consent flow.
func isEUConsentRedirect(resp *http.Response) bool {
	return resp.StatusCode >= 300 && resp.StatusCode < 400 &&
		strings.Contains(resp.Header.Get("Location"), "guce.yahoo.com")
}

// acquireCookiesEU walks the EU consent flow and returns the resulting
// session cookies (possibly none).
func (c *yClient) acquireCookiesEU(ctx context.Context) []*http.Cookie {
	hops, err := c.doChain(ctx, http.MethodGet, c.financeURL, c.loginHeaders(), nil, true)
	if err != nil {
		c.logger.Error().Err(err).
			Msg("EU consent flow failed: unable to connect to Yahoo Finance")
		closeHops(hops)
		return nil
	}

	final := hops[len(hops)-1]
	final.resp.Body.Close()

	sessionID := final.url.Query().Get("sessionId")
	if sessionID == "" {
		c.logger.Error().
			Str("url", final.url.String()).
			Msg("EU consent flow failed: sessionId missing from redirect URL; " +
				"possible cause: Yahoo's consent flow has changed")
		return nil
	}

	// The CSRF token rides on the guce.yahoo.com hop of the redirect chain.
	var csrfToken string
	for _, h := range hops {
		if token := h.url.Query().Get("gcrumb"); token != "" {
			csrfToken = token
			break
		}
	}
	if csrfToken == "" {
		c.logger.Error().
			Strs("visited_hosts", hopHosts(hops)).
			Msg("EU consent flow failed: gcrumb CSRF token missing from " +
				"guce.yahoo.com redirect; possible cause: Yahoo's consent flow has changed")
		return nil
	}

	referrerURL := c.consentURL + "/v2/collectConsent?sessionId=" + sessionID
	form := url.Values{
		"csrfToken": {csrfToken},
		"sessionId": {sessionID},
		"namespace": {"yahoo"},
		"agree":     {"agree"},
	}
	consentHeaders := map[string]string{
		"origin":          c.consentURL,
		"content-type":    "application/x-www-form-urlencoded",
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"accept-language": "en-US,en;q=0.5",
		"dnt":             "1",
		"referer":         referrerURL,
		"user-agent":      userAgent,
	}

	postHops, err := c.doChain(ctx, http.MethodPost, referrerURL, consentHeaders,
		strings.NewReader(form.Encode()), true)
	if err != nil {
		c.logger.Error().Err(err).
			Msg("EU consent flow failed: unable to POST consent")
		closeHops(postHops)
		return nil
	}

	last := postHops[len(postHops)-1]
	last.resp.Body.Close()

	for _, h := range postHops {
		if cookies := h.resp.Cookies(); hasCookie(cookies, authCookieName) {
			return cookies
		}
	}

	c.logger.Error().
		Int("status", last.resp.StatusCode).
		Str("final_url", last.url.String()).
		Msg("EU consent flow failed: A3 cookie not received after consent POST; " +
			"this is the critical authentication cookie")
	return nil
}

// refreshCrumb fetches the crumb required on data requests.
func (c *yClient) refreshCrumb(ctx context.Context) {
	c.logger.Debug().Msg("refreshing crumb")
	c.crumb = ""

	body, err := c.doRequest(ctx, c.queryURL+crumbPath, nil)
	if err != nil {
		c.logger.Error().Err(err).
			Str("url", c.queryURL+crumbPath).
			Msg("crumb refresh failed; API calls will not work without a valid crumb")
		return
	}

	c.crumb = strings.TrimSpace(string(body))
	if c.crumb == "" {
		c.logger.Error().
			Str("url", c.queryURL+crumbPath).
			Msg("crumb refresh failed: empty response; " +
				"possible causes: expired cookies or failed authentication")
		return
	}

	c.logger.Debug().
		Str("crumb", c.crumb).
		Time("expiry", c.expiry).
		Msg("crumb refreshed")
}

// ensureReady refreshes cookies and crumb when either is stale. Refresh is
// single-flight; concurrent callers share the resulting session.
func (c *yClient) ensureReady(ctx context.Context) {
	// Fast path: a live session only needs a read lock.
	c.mu.RLock()
	ready := time.Now().Before(c.expiry) && c.crumb != ""
	c.mu.RUnlock()
	if ready {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if time.Now().Before(c.expiry) && c.crumb != "" {
		return
	}
	if !time.Now().Before(c.expiry) {
		c.refreshCookies(ctx)
	}
	if c.crumb == "" {
		c.refreshCrumb(ctx)
	}
}

// doRequest performs a rate-limited GET with exponential-backoff retries and
// returns the response body.
func (c *yClient) doRequest(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := rawURL
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("accept", "*/*")
		req.Header.Set("accept-language", "en-US,en;q=0.9")
		req.Header.Set("origin", c.financeURL)
		req.Header.Set("user-agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			reqErr := &MarketDataRequestError{
				StatusCode: resp.StatusCode,
				URL:        rawURL,
				Reason:     resp.Status,
			}
			if !reqErr.IsRetryable() {
				return backoff.Permanent(reqErr)
			}
			return reqErr
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.maxRetryElapsed

	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return nil, err
	}

	return body, nil
}

// Prime refreshes cookies and crumb ahead of the first data request.
func (c *yClient) Prime(ctx context.Context) {
	c.ensureReady(ctx)
}

// Call executes a Yahoo! Finance API call and decodes the JSON response
// into out. The crumb is appended to the query parameters automatically.
func (c *yClient) Call(ctx context.Context, apiPath string, params url.Values, out any) error {
	c.logger.Debug().
		Str("api", apiPath).
		Str("params", params.Encode()).
		Msg("calling")

	c.ensureReady(ctx)

	if params == nil {
		params = url.Values{}
	}
	c.mu.RLock()
	if c.crumb != "" {
		params.Set("crumb", c.crumb)
	}
	c.mu.RUnlock()

	body, err := c.doRequest(ctx, c.queryURL+apiPath, params)
	if err != nil {
		c.logger.Error().Err(err).
			Str("api", apiPath).
			Msg("API call failed; possible causes: network issues, " +
				"authentication failure, or changed endpoint")
		if errors.Is(err, ErrMarketData) {
			return fmt.Errorf("%w: %s", err, apiPath)
		}
		// Transport-level failures (DNS, refused connections, timeouts)
		// still need to match the package sentinel.
		return &MarketDataUnavailableError{Context: apiPath, Cause: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		c.logger.Error().Err(err).
			Str("api", apiPath).
			Str("body", preview).
			Msg("API call failed: unable to parse JSON response; " +
				"possible causes: changed response format or an HTML error page")
		return &MarketDataMalformedError{Context: apiPath}
	}

	return nil
}

// Close releases idle connections held by the transport.
func (c *yClient) Close() {
	c.httpClient.CloseIdleConnections()
}

func hasCookie(cookies []*http.Cookie, name string) bool {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return true
		}
	}
	return false
}

func cookieNames(cookies []*http.Cookie) []string {
	names := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		names = append(names, cookie.Name)
	}
	return names
}

func hopHosts(hops []hop) []string {
	hosts := make([]string, 0, len(hops))
	for _, h := range hops {
		hosts = append(hosts, h.url.Host)
	}
	return hosts
}
