package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

// Message is the channel-agnostic view of a broadcast's content.
type Message struct {
	Type         string
	Content      string
	MediaURL     *string
	TemplateName *string
}

// Result is a successful send. Delivered is true only when the channel
// confirms delivery synchronously; the Cloud API acks acceptance, so it stays
// false here.
type Result struct {
	MessageID string
	Delivered bool
}

// SendError is a channel rejection for one recipient. It is data, not a
// reason to abort a dispatch run.
type SendError struct {
	StatusCode int
	Code       int
	Reason     string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("whatsapp send failed (http %d, code %d): %s", e.StatusCode, e.Code, e.Reason)
}

// Client talks to the WhatsApp Cloud API for one organization's number.
type Client struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	http          *http.Client
}

func NewClient(baseURL, phoneNumberID, accessToken string) *Client {
	return &Client{
		baseURL:       baseURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

type textPayload struct {
	Body string `json:"body"`
}

type imagePayload struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type templatePayload struct {
	Name     string `json:"name"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
}

type sendRequest struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             *textPayload     `json:"text,omitempty"`
	Image            *imagePayload    `json:"image,omitempty"`
	Template         *templatePayload `json:"template,omitempty"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Send delivers one message to one recipient phone number.
func (c *Client) Send(ctx context.Context, to string, msg Message) (*Result, error) {
	req := sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             msg.Type,
	}
	switch msg.Type {
	case model.MessageTypeImage:
		if msg.MediaURL == nil {
			return nil, &SendError{Reason: "image broadcast has no media_url"}
		}
		req.Image = &imagePayload{Link: *msg.MediaURL, Caption: msg.Content}
	case model.MessageTypeTemplate:
		if msg.TemplateName == nil {
			return nil, &SendError{Reason: "template broadcast has no template_name"}
		}
		tpl := &templatePayload{Name: *msg.TemplateName}
		tpl.Language.Code = "en"
		req.Template = tpl
	default:
		req.Type = model.MessageTypeText
		req.Text = &textPayload{Body: msg.Content}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode whatsapp response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &SendError{StatusCode: resp.StatusCode, Reason: "request rejected"}
		if decoded.Error != nil {
			se.Code = decoded.Error.Code
			se.Reason = decoded.Error.Message
		}
		return nil, se
	}

	if len(decoded.Messages) == 0 {
		return nil, &SendError{StatusCode: resp.StatusCode, Reason: "no message id in response"}
	}
	return &Result{MessageID: decoded.Messages[0].ID}, nil
}
