package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const defaultTimeout = 10 * time.Second

// Auth scheme names accepted by AuthConfig.Scheme.
const (
	AuthBearer = "bearer"
	AuthBasic  = "basic"
	AuthAPIKey = "apikey"
)

// AuthConfig describes how requests to the booking backend are
// authenticated. An empty Scheme sends no credentials.
type AuthConfig struct {
	Scheme       string
	Token        string
	Username     string
	Password     string
	APIKeyHeader string
	APIKey       string

	// Anti-forgery token: read from CSRFCookie on the backend origin
	// and echoed back in CSRFHeader on every request.
	CSRFCookie string
	CSRFHeader string
}

// Client is the HTTP client for the remote booking backend. All
// persistence of this service goes through it.
type Client struct {
	baseURL string
	base    *url.URL
	auth    AuthConfig
	ua      string
	http    *http.Client
}

// NewClient creates a booking backend client.
func NewClient(baseURL string, auth AuthConfig, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	trimmed := strings.TrimRight(baseURL, "/")
	base, _ := url.Parse(trimmed)

	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL: trimmed,
		base:    base,
		auth:    auth,
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			Jar:       jar,
		},
	}
}

// ListEmployees fetches one page of employees, optionally filtered by
// a search string.
func (c *Client) ListEmployees(ctx context.Context, page, size int, search string) (*EmployeePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if search != "" {
		q.Set("search", search)
	}

	var out EmployeePage
	if err := c.do(ctx, http.MethodGet, "/api/employees", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEmployee fetches a single employee by id.
func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodGet, "/api/employees/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEmployee creates an employee and returns the stored record.
func (c *Client) CreateEmployee(ctx context.Context, p EmployeePayload) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPost, "/api/employees", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmployee updates an employee and returns the stored record.
func (c *Client) UpdateEmployee(ctx context.Context, id string, p EmployeePayload) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPut, "/api/employees/"+url.PathEscape(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/employees/"+url.PathEscape(id), nil, nil, nil)
}

// ListBookings fetches one page of bookings. dateStart and dateEnd
// are inclusive unix-second bounds; zero means unbounded.
func (c *Client) ListBookings(ctx context.Context, page, size int, dateStart, dateEnd int64) (*BookingPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if dateStart > 0 {
		q.Set("date_start", strconv.FormatInt(dateStart, 10))
	}
	if dateEnd > 0 {
		q.Set("date_end", strconv.FormatInt(dateEnd, 10))
	}

	var out BookingPage
	if err := c.do(ctx, http.MethodGet, "/api/bookings", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBooking fetches a single booking by id.
func (c *Client) GetBooking(ctx context.Context, id string) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBooking creates a booking request and returns the stored
// record, which carries status pending.
func (c *Client) CreateBooking(ctx context.Context, p BookingPayload) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBooking removes a booking.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(id), nil, nil, nil)
}

// AcceptBooking confirms a pending booking and returns the updated
// record.
func (c *Client) AcceptBooking(ctx context.Context, id string) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings/"+url.PathEscape(id)+"/accept", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectBooking cancels a pending booking. The backend returns no
// body; callers treat the booking as cancelled.
func (c *Client) RejectBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/bookings/"+url.PathEscape(id)+"/reject", nil, nil, nil)
}

// GetAvailability fetches the availability structure for one
// employee. The shape is not fixed by a schema, so the raw payload is
// returned for the availability normalizer to interpret.
func (c *Client) GetAvailability(ctx context.Context, employeeID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/employees/"+url.PathEscape(employeeID)+"/availability", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("backend request error: client is nil")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return fmt.Errorf("backend config error: base_url is empty")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend request error: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("backend request error: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}
	c.applyAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("backend http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)
		}
		return fmt.Errorf("backend http error: status=%d body=%s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend response error: %w", err)
	}

	if err := json.Unmarshal(unwrap(raw), out); err != nil {
		return fmt.Errorf("backend response error: %w", err)
	}
	return nil
}

func (c *Client) applyAuth(req *http.Request) {
	switch strings.ToLower(c.auth.Scheme) {
	case AuthBearer:
		if c.auth.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.auth.Token)
		}
	case AuthBasic:
		if c.auth.Username != "" {
			req.SetBasicAuth(c.auth.Username, c.auth.Password)
		}
	case AuthAPIKey:
		if c.auth.APIKey != "" {
			header := c.auth.APIKeyHeader
			if header == "" {
				header = "X-Api-Key"
			}
			req.Header.Set(header, c.auth.APIKey)
		}
	}

	if c.auth.CSRFCookie != "" && c.auth.CSRFHeader != "" && c.base != nil && c.http.Jar != nil {
		for _, cookie := range c.http.Jar.Cookies(c.base) {
			if cookie.Name == c.auth.CSRFCookie {
				req.Header.Set(c.auth.CSRFHeader, cookie.Value)
				break
			}
		}
	}
}

// envelopeKeys are the field names the backend is known to wrap
// payloads under. Unwrapping is transparent to callers.
var envelopeKeys = []string{"data", "result", "payload"}

// unwrap extracts the real payload when the response is wrapped in a
// single-field envelope. Anything unrecognized passes through as-is.
func unwrap(raw []byte) json.RawMessage {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return raw
	}

	for _, key := range envelopeKeys {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		// Skip false positives: a payload object may itself carry a
		// "data" field next to real fields. Only unwrap when the
		// envelope has nothing but bookkeeping around the payload.
		if isEnvelopeShape(envelope, key) {
			return inner
		}
	}
	return raw
}

// isEnvelopeShape reports whether the object looks like a wire
// envelope around the field named key: every other field is a known
// bookkeeping field (success flags, messages, meta).
func isEnvelopeShape(obj map[string]json.RawMessage, key string) bool {
	for k := range obj {
		switch k {
		case key, "success", "status", "message", "meta", "total", "error":
		default:
			return false
		}
	}
	return true
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("backend timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("backend network error: %w", err)
	}
	return fmt.Errorf("backend request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	return false
}
