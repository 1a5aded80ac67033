package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
)

// lookupResponse is the wire shape of the geolocation collaborator
// (ip-api style payload).
type lookupResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
	Proxy       bool   `json:"proxy"`
	Hosting     bool   `json:"hosting"`
	Message     string `json:"message"`
}

// Client resolves requester IPs against an external geolocation
// service. The lookup is time-bounded; any failure yields a context
// with Unavailable set so the gate can fail open.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Resolve(ctx context.Context, ip string) *domain.NetworkContext {
	unavailable := &domain.NetworkContext{IP: ip, Unavailable: true}

	url := fmt.Sprintf("%s/json/%s?fields=status,message,countryCode,regionName,city,proxy,hosting", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("geoip request build failed", "error", err.Error())
		return unavailable
	}

	response, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("geoip lookup failed", "ip", ip, "error", err.Error())
		return unavailable
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil || response.StatusCode < 200 || response.StatusCode >= 300 {
		c.logger.Warn("geoip lookup bad response", "ip", ip, "status", response.StatusCode)
		return unavailable
	}

	var lookup lookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		c.logger.Warn("geoip lookup decode failed", "ip", ip, "error", err.Error())
		return unavailable
	}
	if lookup.Status != "success" {
		c.logger.Warn("geoip lookup rejected", "ip", ip, "message", lookup.Message)
		return unavailable
	}

	return &domain.NetworkContext{
		IP:          ip,
		CountryCode: lookup.CountryCode,
		Region:      lookup.RegionName,
		City:        lookup.City,
		IsProxy:     lookup.Proxy,
		IsHosting:   lookup.Hosting,
	}
}
