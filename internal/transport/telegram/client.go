// Package telegram is the message-channel adapter: a long-polling Bot API
// client plus the update handler that turns inbound commands into directory
// operations and formats the single reply each event gets.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dialbook/internal/domain"
)

// Update is one inbound Bot API event. Only text messages matter here.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID int64 `json:"id"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// Client is a minimal Telegram Bot API client over net/http. Short calls are
// bounded by the HTTP client timeout; getUpdates long polls bypass it and
// rely on a context deadline sized to the poll timeout instead.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    "https://api.telegram.org",
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pollSlack pads the context deadline on long polls past the server-side
// poll timeout, covering connect and transfer time.
const pollSlack = 10 * time.Second

// GetUpdates long-polls for new updates past the given offset. The regular
// client timeout would kill an idle poll early, so this call is bounded by
// its context deadline alone.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := url.Values{
		"offset":  {strconv.FormatInt(offset, 10)},
		"timeout": {strconv.Itoa(int(timeout.Seconds()))},
	}
	ctx, cancel := context.WithTimeout(ctx, timeout+pollSlack)
	defer cancel()

	poll := *c.httpClient
	poll.Timeout = 0
	raw, err := c.callWith(ctx, &poll, "getUpdates", params)
	if err != nil {
		return nil, err
	}
	var updates []Update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

// SendMessage posts a plain-text reply to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}
	_, err := c.call(ctx, "sendMessage", params)
	return err
}

// SendDocument uploads a file attachment to a chat.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("build document request: %w", err)
	}
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("build document request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("build document request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("build document request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendDocument"), &body)
	if err != nil {
		return fmt.Errorf("build document request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	defer resp.Body.Close()
	if _, err := decodeResponse(resp.Body); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// ChatMemberStatus queries the membership oracle for an identity's status in
// a chat or channel. Satisfies membership.ChatClient.
func (c *Client) ChatMemberStatus(ctx context.Context, chat string, identity domain.Identity) (string, error) {
	params := url.Values{
		"chat_id": {chat},
		"user_id": {strconv.FormatInt(int64(identity), 10)},
	}
	raw, err := c.call(ctx, "getChatMember", params)
	if err != nil {
		return "", err
	}
	var member struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &member); err != nil {
		return "", fmt.Errorf("decode chat member: %w", err)
	}
	return member.Status, nil
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	return c.callWith(ctx, c.httpClient, method, params)
}

func (c *Client) callWith(ctx context.Context, client *http.Client, method string, params url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method),
		bytes.NewBufferString(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := decodeResponse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return raw, nil
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func decodeResponse(body io.Reader) (json.RawMessage, error) {
	var payload apiResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !payload.OK {
		return nil, fmt.Errorf("api error: %s", payload.Description)
	}
	return payload.Result, nil
}
