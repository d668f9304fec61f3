package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"perk-store/internal/config"

	"github.com/rs/zerolog"
)

// client implements Gateway against the gateway's JSON API.
type client struct {
	httpClient *http.Client
	cfg        config.PaymentConfig
	logger     zerolog.Logger
}

// NewClient creates a Gateway backed by the configured HTTP endpoint. The
// client timeout bounds how long a checkout request can hang on the gateway.
func NewClient(cfg config.PaymentConfig, logger zerolog.Logger) Gateway {
	return &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger.With().Str("component", "payment-gateway").Logger(),
	}
}

type initiatePayload struct {
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
	RedirectURL   string  `json:"redirectUrl"`
	CallbackURL   string  `json:"callbackUrl"`
}

type initiateReply struct {
	PaymentURL    string `json:"paymentUrl"`
	TransactionID string `json:"transactionId"`
}

type verifyReply struct {
	Status     string  `json:"status"`
	PaidAmount float64 `json:"paidAmount"`
}

// Initiate starts a hosted payment session.
func (c *client) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	body, err := json.Marshal(initiatePayload{
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		RedirectURL:   req.RedirectURL,
		CallbackURL:   req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode initiate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initiate request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).
			Str("txn_id", req.TransactionID).
			Msg("gateway initiate call failed")
		return nil, fmt.Errorf("gateway initiate call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("txn_id", req.TransactionID).
			Msg("gateway rejected initiate request")
		return nil, fmt.Errorf("gateway rejected initiate request: status %d", resp.StatusCode)
	}

	var reply initiateReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode initiate response: %w", err)
	}

	if reply.PaymentURL == "" {
		return nil, fmt.Errorf("gateway returned no payment URL for transaction %s", req.TransactionID)
	}

	c.logger.Info().
		Str("txn_id", req.TransactionID).
		Float64("amount", req.Amount).
		Msg("payment session initiated")

	return &InitiateResponse{
		PaymentURL:   reply.PaymentURL,
		GatewayTxnID: reply.TransactionID,
	}, nil
}

// Verify fetches the transaction's final status.
func (c *client) Verify(ctx context.Context, transactionID string) (*VerifyResult, error) {
	endpoint := c.cfg.BaseURL + "/v1/sessions/" + url.PathEscape(transactionID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).
			Str("txn_id", transactionID).
			Msg("gateway verify call failed")
		return nil, fmt.Errorf("gateway verify call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("txn_id", transactionID).
			Msg("gateway rejected verify request")
		return nil, fmt.Errorf("gateway rejected verify request: status %d", resp.StatusCode)
	}

	var reply verifyReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	c.logger.Debug().
		Str("txn_id", transactionID).
		Str("status", reply.Status).
		Float64("paid_amount", reply.PaidAmount).
		Msg("transaction verified against gateway")

	return &VerifyResult{
		Status:     reply.Status,
		PaidAmount: reply.PaidAmount,
	}, nil
}

func (c *client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Merchant-Id", c.cfg.MerchantID)
	req.Header.Set("X-Merchant-Key", c.cfg.MerchantKey)
}
