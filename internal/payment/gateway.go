package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Gateway drives the hosted card checkout: init yields a page to send
// the customer to, verify confirms (server-side) what actually
// happened there. Card data never touches this process.
type Gateway struct {
	InitURL   string
	VerifyURL string
	APIKey    string
	HTTP      *http.Client
}

func NewGateway(initURL, verifyURL, apiKey string) *Gateway {
	return &Gateway{
		InitURL:   initURL,
		VerifyURL: verifyURL,
		APIKey:    apiKey,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

type InitResult struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

type VerifyResult struct {
	Paid   bool   `json:"paid"`
	Status string `json:"status"`
}

// MinorUnits converts a decimal amount to the gateway's integer minor
// currency unit (cents), rounded, never below 1.
func MinorUnits(total float64) int64 {
	n := int64(math.Round(total * 100))
	if n < 1 {
		n = 1
	}
	return n
}

// ExtractReference pulls the payment reference out of the callback
// query: the reference param wins, trxref is the gateway's alias, and
// the reference handed out at init time is the last resort.
func ExtractReference(q url.Values, initRef string) string {
	if r := q.Get("reference"); r != "" {
		return r
	}
	if r := q.Get("trxref"); r != "" {
		return r
	}
	return initRef
}

func (g *Gateway) post(ctx context.Context, u, token string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", g.APIKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errorMessage(resp.StatusCode, body))
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			// Treat a non-JSON success body as a malformed response.
			return fmt.Errorf("decode payment response: %s", strings.TrimSpace(string(body)))
		}
	}
	return nil
}

// errorMessage mirrors the client's degradation rule: prefer a JSON
// error/message field, otherwise the raw text, otherwise the status.
func errorMessage(status int, body []byte) string {
	var m map[string]any
	if json.Unmarshal(body, &m) == nil {
		for _, k := range []string{"error", "message"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	if t := strings.TrimSpace(string(body)); t != "" {
		return t
	}
	return fmt.Sprintf("HTTP %d", status)
}

// Init opens a payment session for an order. amount is in minor units.
func (g *Gateway) Init(ctx context.Context, token string, amount int64, email, orderID, callbackURL string) (InitResult, error) {
	in := map[string]any{
		"amount":       amount,
		"email":        email,
		"order_id":     orderID,
		"callback_url": callbackURL,
	}
	var out InitResult
	if err := g.post(ctx, g.InitURL, token, in, &out); err != nil {
		return InitResult{}, err
	}
	if out.AuthorizationURL == "" || out.Reference == "" {
		return InitResult{}, errors.New("missing authorization URL")
	}
	return out, nil
}

// Verify asks the gateway (server-side) whether the reference was paid.
func (g *Gateway) Verify(ctx context.Context, token, reference, orderID string) (VerifyResult, error) {
	in := map[string]string{"reference": reference, "order_id": orderID}
	var out VerifyResult
	if err := g.post(ctx, g.VerifyURL, token, in, &out); err != nil {
		return VerifyResult{}, err
	}
	return out, nil
}
