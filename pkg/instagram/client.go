package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultGraphBaseURL = "https://graph.instagram.com/v21.0"

// GraphClient implements Transport over the Instagram Graph messaging API.
type GraphClient struct {
	BaseURL     string
	AccessToken string
	Client      *http.Client
}

func NewGraphClient(baseURL, accessToken string) *GraphClient {
	if baseURL == "" {
		baseURL = defaultGraphBaseURL
	}
	return &GraphClient{
		BaseURL:     baseURL,
		AccessToken: accessToken,
		Client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type messageRecipient struct {
	ID string `json:"id"`
}

type messageBody struct {
	Text string `json:"text"`
}

type sendMessageRequest struct {
	Recipient messageRecipient `json:"recipient"`
	Message   messageBody      `json:"message"`
}

type commentReplyRequest struct {
	Message string `json:"message"`
}

// graphErrorEnvelope is the error variant of every Graph API response.
type graphErrorEnvelope struct {
	Error *GraphError `json:"error"`
}

func (c *GraphClient) SendDirectMessage(ctx context.Context, recipientID, text string) DispatchOutcome {
	payload := sendMessageRequest{
		Recipient: messageRecipient{ID: recipientID},
		Message:   messageBody{Text: text},
	}
	if err := c.post(ctx, "/me/messages", payload); err != nil {
		return DispatchOutcome{Success: false, Error: Translate(err)}
	}
	return DispatchOutcome{Success: true}
}

func (c *GraphClient) ReplyToComment(ctx context.Context, commentID, text string) DispatchOutcome {
	payload := commentReplyRequest{Message: text}
	if err := c.post(ctx, "/"+url.PathEscape(commentID)+"/replies", payload); err != nil {
		return DispatchOutcome{Success: false, Error: Translate(err)}
	}
	return DispatchOutcome{Success: true}
}

func (c *GraphClient) post(ctx context.Context, path string, payload interface{}) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s%s?access_token=%s", c.BaseURL, path, url.QueryEscape(c.AccessToken))
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("graph response read failed: %w", err)
	}

	if res.StatusCode == http.StatusOK {
		return nil
	}

	var envelope graphErrorEnvelope
	if err := json.Unmarshal(resBytes, &envelope); err == nil && envelope.Error != nil {
		return envelope.Error
	}

	return fmt.Errorf("graph request returned status %d: %s", res.StatusCode, string(resBytes))
}
