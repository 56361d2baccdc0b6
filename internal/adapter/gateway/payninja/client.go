// Package payninja implements ports.GatewayClient against the PayNinja
// payout API. Fund transfer payloads are AES-encrypted before sending;
// responses come back as plain JSON.
package payninja

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"vendor-payout-gateway/config"
	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	balancePath  = "/api/v1/account/balance"
	transferPath = "/api/v1/payout/fundTransfer"
	statusPath   = "/api/v1/payout/transactionStatus"
)

// Client calls the PayNinja payout gateway.
type Client struct {
	baseURL string
	apiKey  string
	crypto  ports.CryptoService
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a gateway client from config. The HTTP timeout bounds
// every call; a timed-out submission has an unknown outcome and is
// resolved later by a status check, never by resubmitting.
func NewClient(cfg config.GatewayConfig, crypto ports.CryptoService, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		crypto:  crypto,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "payninja").Logger(),
	}
}

// apiResponse is the gateway's JSON response shape, shared by all three
// endpoints. Fields outside data vary by endpoint and failure mode.
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    apiResponseData `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type apiResponseData struct {
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id"`
	UTR           *string `json:"utr"`
	Balance       string  `json:"balance"`
	Currency      string  `json:"currency"`
	Message       string  `json:"message"`
}

// GetBalance fetches the custodial account balance.
func (c *Client) GetBalance(ctx context.Context) (*domain.GatewayResult, error) {
	return c.do(ctx, http.MethodGet, balancePath, nil)
}

// SubmitPayout encrypts the signed payload and posts it to the fund
// transfer endpoint.
func (c *Client) SubmitPayout(ctx context.Context, payload *domain.PayoutPayload) (*domain.GatewayResult, error) {
	plain, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshaling payout payload: %w", err))
	}
	envelope, err := c.crypto.Encrypt(plain)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, transferPath, envelope)
}

// CheckStatus polls the gateway for the current state of a payout.
func (c *Client) CheckStatus(ctx context.Context, referenceID string) (*domain.GatewayResult, error) {
	body := map[string]string{"merchant_reference_id": referenceID}
	return c.do(ctx, http.MethodPost, statusPath, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*domain.GatewayResult, error) {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshaling request body: %w", err))
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("gateway request failed")
		return nil, apperror.ErrGatewayTransport(err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	raw := json.RawMessage{}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&raw); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.log.Error().Err(err).Str("path", path).Int("http_status", resp.StatusCode).
				Msg("gateway returned unparseable body")
			return nil, apperror.ErrGatewayProtocol(fmt.Errorf("decoding gateway response: %w", err))
		}
		// Non-2xx with garbage body is still a rejection.
		return nil, apperror.ErrGatewayRejected(resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil, apperror.ErrGatewayProtocol(fmt.Errorf("decoding gateway response: %w", err))
		}
		return nil, apperror.ErrGatewayRejected(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := rejectionMessage(&parsed)
		c.log.Warn().Str("path", path).Int("http_status", resp.StatusCode).Str("message", msg).
			Msg("gateway rejected request")
		return nil, apperror.ErrGatewayRejected(resp.StatusCode, msg)
	}

	result := &domain.GatewayResult{
		HTTPStatus:    resp.StatusCode,
		Status:        strings.ToLower(parsed.Data.Status),
		TransactionID: parsed.Data.TransactionID,
		Message:       firstNonEmpty(parsed.Data.Message, parsed.Message),
		Balance:       parsed.Data.Balance,
		Raw:           string(raw),
	}
	if parsed.Data.UTR != nil {
		result.UTR = *parsed.Data.UTR
	}
	return result, nil
}

// rejectionMessage assembles a human-readable reason from the message and
// errors fields, which the gateway populates inconsistently.
func rejectionMessage(r *apiResponse) string {
	msg := r.Message
	if len(r.Errors) == 0 {
		if msg == "" {
			return "fund transfer request failed"
		}
		return msg
	}

	var detail string
	var asObjects []struct {
		Description string `json:"description"`
	}
	var asStrings []string
	switch {
	case json.Unmarshal(r.Errors, &asObjects) == nil && len(asObjects) > 0 && asObjects[0].Description != "":
		detail = asObjects[0].Description
	case json.Unmarshal(r.Errors, &asStrings) == nil && len(asStrings) > 0:
		detail = strings.Join(asStrings, ", ")
	default:
		detail = string(r.Errors)
	}

	if msg == "" {
		return detail
	}
	return msg + " - " + detail
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
