package clients

import (
	"context"
	"time"
)

const chatTimeout = 20 * time.Second

// ChatClient relays messages to the LLM chat completion provider.
type ChatClient struct {
	up *Upstream
}

func NewChatClient(baseURL string) *ChatClient {
	return &ChatClient{up: NewUpstream(baseURL, chatTimeout)}
}

func (c *ChatClient) Send(ctx context.Context, message string) (string, error) {
	var resp struct {
		Reply string `json:"reply"`
	}
	body := struct {
		Message string `json:"message"`
	}{Message: message}

	if err := c.up.PostJSON(ctx, "/chat", body, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}
