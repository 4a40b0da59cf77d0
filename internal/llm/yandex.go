package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Morwran/yagpt"
)

// iamRefreshMargin renews the IAM token this long before it expires.
const iamRefreshMargin = 5 * time.Minute

// YandexClient calls YandexGPT Lite. IAM tokens are exchanged from the
// OAuth token on first use and renewed before they expire.
type YandexClient struct {
	ya  yagpt.YaGPTFace
	iam yagpt.IamFace
	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("init yandex iam: %w", err)
	}
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		_ = iam.Close()
		return nil, fmt.Errorf("init yagpt: %w", err)
	}
	return newYandexClient(ya, iam), nil
}

func newYandexClient(ya yagpt.YaGPTFace, iam yagpt.IamFace) *YandexClient {
	return &YandexClient{ya: ya, iam: iam, now: time.Now}
}

func (c *YandexClient) iamToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Add(iamRefreshMargin).Before(c.expires) {
		return c.token, nil
	}
	resp, err := c.iam.CreateWithCtx(ctx)
	if err != nil {
		return "", fmt.Errorf("create iam token: %w", err)
	}
	c.token, c.expires = resp.IamToken, resp.ExpiresAt
	return c.token, nil
}

func (c *YandexClient) Generate(ctx context.Context, systemInstruction, prompt string) (Response, error) {
	tok, err := c.iamToken(ctx)
	if err != nil {
		return Response{}, err
	}
	resp, err := c.ya.CompletionWithCtx(ctx, tok, yandexMessages(systemInstruction, prompt))
	if err != nil {
		return Response{}, fmt.Errorf("yagpt completion: %w", err)
	}

	out := Response{Content: NoAnswer, Model: yagpt.YaModelLite}
	if resp == nil {
		return out, nil
	}
	for _, alt := range resp.Alternatives {
		if alt.Message.Content != "" {
			out.Content = alt.Message.Content
			break
		}
	}
	out.PromptTokens = int(resp.Usage.InputTextTokens)
	out.CompletionTokens = int(resp.Usage.CompletionTokens)
	out.TotalTokens = int(resp.Usage.TotalTokens)
	return out, nil
}

func (c *YandexClient) Close() error { return c.iam.Close() }

func yandexMessages(systemInstruction, prompt string) []yagpt.Message {
	msgs := make([]yagpt.Message, 0, 2)
	if systemInstruction != "" {
		msgs = append(msgs, yagpt.Message{Role: "system", Content: systemInstruction})
	}
	return append(msgs, yagpt.Message{Role: RoleUser, Content: prompt})
}
