// Package sensor fetches room temperatures from the per-room sensor endpoints.
package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout = 500 * time.Millisecond
	DefaultPort    = 5000
	DefaultPath    = "/api/temp"
)

// ErrMalformed is returned when the sensor answers without a temperature.
var ErrMalformed = errors.New("sensor response has no temperature")

// Reader reads the current temperature of the sensor at address.
type Reader interface {
	ReadTemp(ctx context.Context, address string) (float64, error)
}

type Config struct {
	Timeout time.Duration
	Port    int
	Path    string
}

// Client is the HTTP sensor reader. Every request is bounded by Timeout.
type Client struct {
	http    *http.Client
	timeout time.Duration
	port    int
	path    string
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		cfg.Path = "/" + cfg.Path
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		timeout: cfg.Timeout,
		port:    cfg.Port,
		path:    cfg.Path,
	}
}

// URL builds the sensor URL for a room address. Bare hosts get the default
// port; full URLs are used as given.
func (c *Client) URL(address string) string {
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return address
	}
	host := address
	if _, _, err := net.SplitHostPort(address); err != nil {
		host = net.JoinHostPort(address, strconv.Itoa(c.port))
	}
	return "http://" + host + c.path
}

// tempPayload accepts both {"temp": ..} and {"success": .., "data": {"temp": ..}}.
type tempPayload struct {
	Temp *float64 `json:"temp"`
	Data *struct {
		Temp *float64 `json:"temp"`
	} `json:"data"`
}

func (p tempPayload) value() (float64, bool) {
	if p.Data != nil && p.Data.Temp != nil {
		return *p.Data.Temp, true
	}
	if p.Temp != nil {
		return *p.Temp, true
	}
	return 0, false
}

// ReadTemp GETs the room sensor and decodes its temperature.
func (c *Client) ReadTemp(ctx context.Context, address string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(address), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request sensor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload tempPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode payload: %w", err)
	}
	temp, ok := payload.value()
	if !ok {
		return 0, ErrMalformed
	}
	return temp, nil
}
