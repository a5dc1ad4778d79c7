package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// Subscription tiers.
const (
	TierFree       = "free"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

const defaultBaseURL = "https://api.revenuecat.com/v1"

// Subscription is a user's resolved billing state.
type Subscription struct {
	UserID    string     `json:"user_id"`
	Tier      string     `json:"tier"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Client resolves subscriptions from RevenueCat. With no API key the client
// is disabled: every user resolves to the free tier and no network calls are
// made.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

func NewClient(apiKey, baseURL string, logger *logging.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Enabled reports whether a billing provider is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// revenueCatSubscriber mirrors the subset of the RevenueCat subscriber
// payload the tier resolution needs.
type revenueCatSubscriber struct {
	Subscriber struct {
		Entitlements map[string]struct {
			ExpiresDate *time.Time `json:"expires_date"`
		} `json:"entitlements"`
	} `json:"subscriber"`
}

// Subscription resolves the user's tier. Entitlements named "premium" or
// "enterprise" map to their tiers; expired or absent entitlements resolve to
// free. Provider errors surface to the caller so gating can fail closed.
func (c *Client) Subscription(ctx context.Context, userID string) (Subscription, error) {
	sub := Subscription{UserID: userID, Tier: TierFree}
	if !c.Enabled() {
		return sub, nil
	}

	endpoint := fmt.Sprintf("%s/subscribers/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return sub, fmt.Errorf("billing: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sub, fmt.Errorf("billing: subscriber lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Never purchased anything.
		return sub, nil
	}
	if resp.StatusCode != http.StatusOK {
		return sub, fmt.Errorf("billing: provider returned status %d", resp.StatusCode)
	}

	var decoded revenueCatSubscriber
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return sub, fmt.Errorf("billing: failed to decode subscriber: %w", err)
	}

	now := time.Now().UTC()
	for name, ent := range decoded.Subscriber.Entitlements {
		if ent.ExpiresDate != nil && ent.ExpiresDate.Before(now) {
			continue
		}
		switch name {
		case TierEnterprise:
			sub.Tier = TierEnterprise
			sub.ExpiresAt = ent.ExpiresDate
		case TierPremium:
			if sub.Tier != TierEnterprise {
				sub.Tier = TierPremium
				sub.ExpiresAt = ent.ExpiresDate
			}
		}
	}
	return sub, nil
}

// IsPremium reports whether the user is on a paid tier. Lookup failures
// resolve to false.
func (c *Client) IsPremium(ctx context.Context, userID string) bool {
	sub, err := c.Subscription(ctx, userID)
	if err != nil {
		c.logger.Warn("subscription lookup failed, treating as free tier", "user_id", userID, "error", err)
		return false
	}
	return sub.Tier == TierPremium || sub.Tier == TierEnterprise
}
