// Package gateway is the typed client for the portfolio REST API. The
// editor stores talk to the backend exclusively through it; every failure
// is normalized to an Error with a transport-independent Kind.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"portfolio-builder/internal/section"
)

type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindValidation   ErrorKind = "validation"
	KindServer       ErrorKind = "server"
	KindNetwork      ErrorKind = "network"
)

// Error is the uniform failure shape for every gateway call
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Message)
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}

// SectionRecord is a section as the backend returns it. Content stays raw
// here; normalization to the structured form is the store's job.
type SectionRecord struct {
	ID          uint64          `json:"id"`
	PortfolioID uint64          `json:"portfolio_id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Content     json.RawMessage `json:"content"`
	Order       int             `json:"order"`
	IsVisible   bool            `json:"is_visible"`
}

// SectionInput carries only the fields a create or update wants to send.
// Content is always the structured form; the raw string shape is never
// emitted.
type SectionInput struct {
	Type      string           `json:"type,omitempty"`
	Title     *string          `json:"title,omitempty"`
	Content   *section.Content `json:"content,omitempty"`
	Order     *int             `json:"order,omitempty"`
	IsVisible *bool            `json:"is_visible,omitempty"`
}

type PortfolioRecord struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Theme       string `json:"theme"`
	IsPublished bool   `json:"is_published"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) GetPortfolio(ctx context.Context, id uint64) (*PortfolioRecord, error) {
	var wrapper struct {
		Portfolio PortfolioRecord `json:"portfolio"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/portfolios/%d", id), nil, &wrapper)
	if err != nil {
		return nil, err
	}
	return &wrapper.Portfolio, nil
}

func (c *Client) ListSections(ctx context.Context, portfolioID uint64, includeHidden bool) ([]SectionRecord, error) {
	path := fmt.Sprintf("/portfolios/%d/sections", portfolioID)
	if includeHidden {
		path += "?include_hidden=true"
	}

	var wrapper struct {
		Sections []SectionRecord `json:"sections"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Sections, nil
}

func (c *Client) CreateSection(ctx context.Context, portfolioID uint64, input SectionInput) (*SectionRecord, error) {
	var wrapper struct {
		Section SectionRecord `json:"section"`
	}
	path := fmt.Sprintf("/portfolios/%d/sections", portfolioID)
	if err := c.do(ctx, http.MethodPost, path, input, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Section, nil
}

func (c *Client) UpdateSection(ctx context.Context, id uint64, input SectionInput) (*SectionRecord, error) {
	var wrapper struct {
		Section SectionRecord `json:"section"`
	}
	path := fmt.Sprintf("/sections/%d", id)
	if err := c.do(ctx, http.MethodPut, path, input, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Section, nil
}

func (c *Client) DeleteSection(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sections/%d", id), nil, nil)
}

// UploadImage streams a file through the multipart upload endpoint and
// returns the public URL of the stored object
func (c *Client) UploadImage(ctx context.Context, filename string, reader io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if _, err := io.Copy(part, reader); err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if err := writer.Close(); err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.errorFromResponse(resp)
	}

	var wrapper struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return "", &Error{Kind: KindServer, Status: resp.StatusCode, Message: err.Error()}
	}
	return wrapper.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return &Error{Kind: KindNetwork, Message: err.Error()}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: err.Error()}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) errorFromResponse(resp *http.Response) *Error {
	message := resp.Status
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		message = payload.Error
	}

	return &Error{
		Kind:    kindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: message,
	}
}
