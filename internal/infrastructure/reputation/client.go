package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
)

// builtinBlacklist covers the domain categories that never need a
// remote lookup. The remote list, when configured, is merged on top.
var builtinBlacklist = map[string]domain.DomainVerdict{
	"mailinator.com":    {Category: "disposable", Reason: "disposable mailbox provider"},
	"guerrillamail.com": {Category: "disposable", Reason: "disposable mailbox provider"},
	"10minutemail.com":  {Category: "disposable", Reason: "disposable mailbox provider"},
	"yopmail.com":       {Category: "disposable", Reason: "disposable mailbox provider"},
	"sharklasers.com":   {Category: "disposable", Reason: "disposable mailbox provider"},
	"trashmail.com":     {Category: "disposable", Reason: "disposable mailbox provider"},
}

type remoteEntry struct {
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// Client answers domain reputation lookups from an in-memory table
// seeded with the builtin list and periodically refreshed from the
// remote reputation service when a base URL is configured.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu     sync.RWMutex
	remote map[string]domain.DomainVerdict

	lastRefresh time.Time
	refreshTTL  time.Duration
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
		remote:     make(map[string]domain.DomainVerdict),
		refreshTTL: 10 * time.Minute,
	}
}

func (c *Client) Lookup(ctx context.Context, dom string) (*domain.DomainVerdict, error) {
	dom = strings.ToLower(dom)

	if v, ok := builtinBlacklist[dom]; ok {
		v.Domain = dom
		return &v, nil
	}

	if c.baseURL == "" {
		return nil, nil
	}
	if err := c.refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: reputation list refresh: %v", domain.ErrCollaboratorUnavailable, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.remote[dom]; ok {
		v.Domain = dom
		return &v, nil
	}
	return nil, nil
}

// refresh fetches the remote blacklist at most once per TTL. A stale
// table keeps serving answers when a refresh fails.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.RLock()
	fresh := time.Since(c.lastRefresh) < c.refreshTTL
	havePrior := !c.lastRefresh.IsZero()
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/blacklist", nil)
	if err != nil {
		return err
	}
	response, err := c.http.Do(req)
	if err != nil {
		if havePrior {
			c.logger.Warn("reputation refresh failed, serving stale list", "error", err.Error())
			return nil
		}
		return err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		if havePrior {
			return nil
		}
		return fmt.Errorf("reputation service status %d", response.StatusCode)
	}

	var entries []remoteEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return err
	}

	table := make(map[string]domain.DomainVerdict, len(entries))
	for _, e := range entries {
		table[strings.ToLower(e.Domain)] = domain.DomainVerdict{
			Category: e.Category,
			Reason:   e.Reason,
		}
	}

	c.mu.Lock()
	c.remote = table
	c.lastRefresh = time.Now()
	c.mu.Unlock()
	c.logger.Info("reputation blacklist refreshed", "entries", len(table))
	return nil
}
