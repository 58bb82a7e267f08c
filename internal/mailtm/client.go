package mailtm

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// ErrAuthentication is returned when the provider rejects the credentials
var ErrAuthentication = errors.New("authentication failed")

// ErrNotFound is returned when the referenced account or message is absent
var ErrNotFound = errors.New("not found")

// FetchError wraps a network or provider failure
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mailtm %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("mailtm %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client is a mail.tm API client
type Client struct {
	baseURL    string
	password   string // fixed mailbox password; empty means generate per account
	httpClient *http.Client

	mu           sync.Mutex
	cachedDomain string
}

// Config for the mail.tm client
type Config struct {
	BaseURL  string // e.g., https://api.mail.tm
	Password string
	Timeout  time.Duration
}

// Account is a provisioned mailbox with its credentials
type Account struct {
	ID       string
	Address  string
	Password string
	Token    string
}

// Address is a message sender or recipient
type Address struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Message is a mailbox message summary
type Message struct {
	ID        string    `json:"id"`
	From      Address   `json:"from"`
	Subject   string    `json:"subject"`
	Intro     string    `json:"intro"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageDetail is a full message including its body
type MessageDetail struct {
	Message
	Text string   `json:"text"`
	HTML []string `json:"html"`
}

type hydraError struct {
	Description string `json:"hydra:description"`
	Message     string `json:"message"`
}

func (e *hydraError) text() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Message
}

// NewClient creates a new mail.tm API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Domain returns an available provider domain, cached for the process
// lifetime after the first successful lookup.
func (c *Client) Domain(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedDomain != "" {
		return c.cachedDomain, nil
	}

	var envelope struct {
		Domains []struct {
			Domain string `json:"domain"`
		} `json:"hydra:member"`
	}
	if err := c.do(ctx, "GET", "/domains", "", nil, &envelope); err != nil {
		return "", err
	}
	if len(envelope.Domains) == 0 {
		return "", &FetchError{Op: "domains", Err: errors.New("no available domains")}
	}

	c.cachedDomain = envelope.Domains[0].Domain
	return c.cachedDomain, nil
}

// CreateAccount provisions a mailbox named after the given person and
// authenticates it.
func (c *Client) CreateAccount(ctx context.Context, firstName, lastName string) (*Account, error) {
	domain, err := c.Domain(ctx)
	if err != nil {
		return nil, err
	}

	username, err := generateUsername(firstName, lastName)
	if err != nil {
		return nil, err
	}
	address := username + "@" + domain

	password := c.password
	if password == "" {
		password, err = GenerateSecurePassword(16)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
	}

	var created struct {
		ID      string `json:"id"`
		Address string `json:"address"`
	}
	payload := map[string]string{"address": address, "password": password}
	if err := c.do(ctx, "POST", "/accounts", "", payload, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, &FetchError{Op: "accounts", Err: errors.New("provider returned no account id")}
	}

	token, err := c.Token(ctx, address, password)
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:       created.ID,
		Address:  address,
		Password: password,
		Token:    token,
	}, nil
}

// Token authenticates and returns a bearer token
func (c *Client) Token(ctx context.Context, address, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"address": address, "password": password}
	if err := c.do(ctx, "POST", "/token", "", payload, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrAuthentication
	}
	return resp.Token, nil
}

// Messages returns the full current message list for the mailbox
func (c *Client) Messages(ctx context.Context, token string) ([]Message, error) {
	var envelope struct {
		Messages []Message `json:"hydra:member"`
	}
	if err := c.do(ctx, "GET", "/messages", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Messages, nil
}

// Message returns one message with its body
func (c *Client) Message(ctx context.Context, token, id string) (*MessageDetail, error) {
	var detail MessageDetail
	if err := c.do(ctx, "GET", "/messages/"+id, token, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteAccount removes the mailbox at the provider. A 404 means the
// mailbox is already gone and counts as success.
func (c *Client) DeleteAccount(ctx context.Context, token, id string) error {
	err := c.do(ctx, "DELETE", "/accounts/"+id, token, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// do performs one API request. Empty token means unauthenticated.
func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	op := strings.TrimPrefix(path, "/")

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, ErrAuthentication)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode >= 400:
		var hydraErr hydraError
		if json.Unmarshal(respBody, &hydraErr) == nil && hydraErr.text() != "" {
			return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(hydraErr.text())}
		}
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(respBody)))}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
		}
	}
	return nil
}

// generateUsername builds a mailbox local part from a person's name, e.g.
// "John Smith" -> "jsmith42".
func generateUsername(firstName, lastName string) (string, error) {
	first := strings.ToLower(strings.TrimSpace(firstName))
	last := strings.ToLower(strings.TrimSpace(lastName))
	if first == "" || last == "" {
		return "", errors.New("first and last name are required")
	}
	initial, _ := utf8.DecodeRuneInString(first)

	// Random suffix 10-99
	n, err := rand.Int(rand.Reader, big.NewInt(90))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%c%s%d", initial, last, n.Int64()+10), nil
}

// GenerateSecurePassword generates a cryptographically secure password
func GenerateSecurePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

	password := make([]byte, length)
	for i := range password {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		password[i] = charset[num.Int64()]
	}

	return string(password), nil
}
