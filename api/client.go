package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hsgq-olt-bot/collector"
	"hsgq-olt-bot/config"
	"hsgq-olt-bot/model"
)

const (
	maxAttempts  = 2
	retryBackoff = time.Second
)

// NewHTTPClient builds the shared transport used for every OLT call.
func NewHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 5,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: cfg.OLT.InsecureSkipVerify},
		},
		Timeout: time.Duration(cfg.Timeout * float64(time.Second)),
	}
}

// Client wraps every OLT HTTP interaction in a bounded retry loop that
// guarantees a valid token per attempt. The OLT rejects stale tokens in-band
// with a "Token Check Failed" payload inside an HTTP 200, so failure
// detection has to inspect the body, not just the status code.
type Client struct {
	sc      *config.SafeConfig
	http    *http.Client
	session *Session
	log     *zap.Logger
}

func New(sc *config.SafeConfig, httpClient *http.Client, session *Session, log *zap.Logger) *Client {
	return &Client{
		sc:      sc,
		http:    httpClient,
		session: session,
		log:     log,
	}
}

func (c *Client) Get(ctx context.Context, path string) (*model.Envelope, error) {
	return c.call(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, data any) (*model.Envelope, error) {
	return c.call(ctx, http.MethodPost, path, data)
}

func (c *Client) call(ctx context.Context, method string, path string, data any) (*model.Envelope, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Transport faults get a fixed pause before the next attempt; a
		// token rejection re-attempts immediately after re-login.
		if lastErr != nil && !errors.Is(lastErr, ErrTokenRejected) {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, &CallFailedError{Err: ctx.Err()}
			}
		}

		token, err := c.session.Token(ctx)
		if err != nil {
			c.log.Warn("login failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		env, err := c.request(ctx, method, path, token, data)
		if err != nil {
			c.log.Warn("request failed", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			c.session.Invalidate()
			lastErr = err
			continue
		}

		if env.TokenRejected() {
			c.log.Info("token rejected by olt, re-authenticating", zap.Int("attempt", attempt))
			collector.TokenRejections.Inc()
			c.session.Invalidate()
			lastErr = ErrTokenRejected
			continue
		}

		return env, nil
	}

	return nil, &CallFailedError{Err: lastErr}
}

func (c *Client) request(ctx context.Context, method string, path string, token string, data any) (*model.Envelope, error) {
	var buf io.Reader
	if data != nil {
		body, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(body)
	}

	url := c.sc.Get().OLT.Address + path
	c.log.Debug("send request", zap.String("method", method), zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, method, url, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Token", token)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		collector.Requests.WithLabelValues("transport_error").Inc()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		c.log.Error("error from API", zap.Int("status", res.StatusCode), zap.String("response", string(body)))
		collector.Requests.WithLabelValues("http_error").Inc()
		return nil, fmt.Errorf("non-200 response: %d", res.StatusCode)
	}

	var env model.Envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		collector.Requests.WithLabelValues("decode_error").Inc()
		return nil, err
	}

	collector.Requests.WithLabelValues("ok").Inc()
	return &env, nil
}
