package payment

// client.go talks to the payment provider's REST API to create hosted
// payment links. The provider exposes a stripe-shaped API: bearer auth,
// form-encoded request bodies, JSON responses.

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"
    "time"
)

// Link is a hosted payment page created by the provider.
type Link struct {
    ID  string `json:"id"`
    URL string `json:"url"`
}

// Provider creates payment links for an amount. The payment identifier
// is attached as metadata so the webhook can resolve it back to orders.
type Provider interface {
    CreateLink(ctx context.Context, amountCents uint64, description, paymentIdentifier string) (*Link, error)
}

// Client is a minimal provider API client. Only link creation is used;
// everything else about the payment lifecycle arrives via webhooks.
type Client struct {
    hc     *http.Client
    base   string
    apiKey string
}

// NewClient returns a client for the provider API at base.
func NewClient(base, apiKey string) *Client {
    return &Client{
        hc:     &http.Client{Timeout: 10 * time.Second},
        base:   strings.TrimRight(base, "/"),
        apiKey: apiKey,
    }
}

// CreateLink creates a hosted payment link for the given amount. The
// flow mirrors the provider's two-step shape: mint an ad-hoc price for
// the amount, then create a payment link referencing it with the
// payment identifier in metadata.
func (c *Client) CreateLink(ctx context.Context, amountCents uint64, description, paymentIdentifier string) (*Link, error) {
    price := url.Values{}
    price.Set("unit_amount", strconv.FormatUint(amountCents, 10))
    price.Set("currency", "usd")
    price.Set("product_data[name]", description)

    var pr struct {
        ID string `json:"id"`
    }
    if err := c.post(ctx, "/v1/prices", price, &pr); err != nil {
        return nil, fmt.Errorf("create price: %w", err)
    }

    link := url.Values{}
    link.Set("line_items[0][price]", pr.ID)
    link.Set("line_items[0][quantity]", "1")
    link.Set("metadata[paymentIdentifier]", paymentIdentifier)

    var out Link
    if err := c.post(ctx, "/v1/payment_links", link, &out); err != nil {
        return nil, fmt.Errorf("create payment link: %w", err)
    }
    return &out, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
    if err != nil {
        return err
    }
    req.Header.Set("Authorization", "Bearer "+c.apiKey)
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

    res, err := c.hc.Do(req)
    if err != nil {
        return err
    }
    defer res.Body.Close()
    body, err := io.ReadAll(res.Body)
    if err != nil {
        return err
    }
    if res.StatusCode >= 400 {
        var apiErr struct {
            Error struct {
                Message string `json:"message"`
            } `json:"error"`
        }
        _ = json.Unmarshal(body, &apiErr)
        if apiErr.Error.Message != "" {
            return fmt.Errorf("provider: %s (status=%d)", apiErr.Error.Message, res.StatusCode)
        }
        return fmt.Errorf("provider request failed (status=%d)", res.StatusCode)
    }
    return json.Unmarshal(body, out)
}
