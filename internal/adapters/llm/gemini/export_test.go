package gemini

import "time"

// SetSleep replaces the retry backoff sleep so tests run instantly.
func SetSleep(c *Client, fn func(time.Duration)) { c.sleep = fn }
