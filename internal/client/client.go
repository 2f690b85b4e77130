// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is the terminal application's gateway to the marketplace API.

It plays the part of the managed backend for the client components: the auth
collaborator (sessions, state-change notifications), table-style persistence
for profiles and listings, the privileged admin procedures and object storage
uploads. Every call carries the current UI language so server messages come
back localized.

# Sessions

The session handle (access token, refresh token, identity) is persisted through
a [TokenStore]. Expired access tokens are rotated before a call; a 401 answer
triggers one rotation and one retry.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/respond"
)

// refreshLeeway rotates access tokens slightly before they expire.
const refreshLeeway = 30 * time.Second

// Options configure a [Client].
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore
	Language   i18n.Language
	Logger     *slog.Logger
}

// Client talks to the marketplace API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	lang      i18n.Language
	session   *Session
	loaded    bool
	listeners map[int]func(AuthChange)
	nextID    int

	refreshMu sync.Mutex
}

// New constructs a [Client].
func New(options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	tokens := options.Tokens
	if tokens == nil {
		tokens = &MemoryTokens{}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lang := options.Language
	if lang == "" {
		lang = i18n.Default
	}

	return &Client{
		baseURL:   strings.TrimRight(options.BaseURL, "/"),
		http:      httpClient,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
		lang:      lang,
		listeners: make(map[int]func(AuthChange)),
	}
}

// SetLanguage switches the language sent with every request.
func (c *Client) SetLanguage(lang i18n.Language) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
}

// Language returns the current request language.
func (c *Client) Language() i18n.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// # Transport

// call describes one API request.
type call struct {
	method      string
	path        string
	body        any
	raw         []byte
	contentType string
	header      http.Header
	out         any
	auth        bool
}

// do performs c and decodes the success envelope into c.out.
func (c *Client) do(ctx context.Context, req call) error {
	payload, contentType, err := req.encode()
	if err != nil {
		return err
	}

	var session *Session
	if req.auth {
		if session, err = c.activeSession(ctx); err != nil {
			return err
		}
	}

	status, body, err := c.send(ctx, req, payload, contentType)
	if err != nil {
		return err
	}

	// One rotation and one retry when the access token was rejected.
	if status == http.StatusUnauthorized && session != nil {
		if _, refreshErr := c.refresh(ctx, session); refreshErr == nil {
			status, body, err = c.send(ctx, req, payload, contentType)
			if err != nil {
				return err
			}
		}
	}

	return decode(status, body, req.out)
}

func (req call) encode() ([]byte, string, error) {
	if req.raw != nil {
		return req.raw, req.contentType, nil
	}
	if req.body == nil {
		return nil, "", nil
	}
	payload, err := json.Marshal(req.body)
	if err != nil {
		return nil, "", fmt.Errorf("client: encode %s %s: %w", req.method, req.path, err)
	}
	return payload, "application/json", nil
}

func (c *Client) send(ctx context.Context, req call, payload []byte, contentType string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("client: build %s %s: %w", req.method, req.path, err)
	}

	for name, values := range req.header {
		for _, value := range values {
			request.Header.Add(name, value)
		}
	}
	if contentType != "" {
		request.Header.Set(constants.HeaderContentType, contentType)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set(constants.HeaderAcceptLang, string(c.Language()))

	if req.auth {
		if session := c.current(); session != nil {
			request.Header.Set(constants.HeaderAuthorization, "Bearer "+session.AccessToken)
		}
	}

	response, err := c.http.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("client: %s %s: %w", req.method, req.path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("client: read %s %s: %w", req.method, req.path, err)
	}

	c.logger.Debug("api_call",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", response.StatusCode),
	)

	return response.StatusCode, body, nil
}

// decode unwraps the JSON envelope written by the respond package.
func decode(status int, body []byte, out any) error {
	if status >= 200 && status < 300 {
		if out == nil || status == http.StatusNoContent || len(body) == 0 {
			return nil
		}
		envelope := struct {
			Data json.RawMessage `json:"data"`
		}{}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("client: decode envelope: %w", err)
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("client: decode data: %w", err)
		}
		return nil
	}

	var envelope respond.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Code == "" {
		return &APIError{Status: status, Code: http.StatusText(status), Message: strings.TrimSpace(string(body))}
	}
	return &APIError{Status: status, Code: envelope.Code, Message: envelope.Error, Details: envelope.Details}
}
