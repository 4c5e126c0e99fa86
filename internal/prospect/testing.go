package prospect

import "context"

// SetTestGenerator replaces the Gemini call on a client with fn.
// This should only be used in tests.
func SetTestGenerator(c *Client, fn func(ctx context.Context, prompt string) (string, error)) {
	c.generate = fn
}

// NewTestClient returns a client backed only by fn, with no Gemini connection.
// This should only be used in tests.
func NewTestClient(fn func(ctx context.Context, prompt string) (string, error)) *Client {
	return &Client{model: DefaultModel, generate: fn}
}
