// Package notify carries status lines outward and one-time codes
// inward. The Console notifier is the synchronous fallback; Relay
// bridges the sequential login flow to an externally serviced channel.
package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"wellsfargo-trader/internal/logger"
)

// DefaultCodeTimeout bounds how long a login blocks waiting for a
// one-time code.
const DefaultCodeTimeout = 300 * time.Second

// Console prompts for codes on stdin and prints reports to stdout. A
// single long-lived reader feeds every prompt: a line typed after a
// timed-out prompt reaches the next one instead of being swallowed by
// an abandoned read.
type Console struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan string
}

func NewConsole() *Console {
	return &Console{in: os.Stdin, out: os.Stdout}
}

func (c *Console) readLoop() {
	r := bufio.NewReader(c.in)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			c.lines <- strings.TrimSpace(line)
		}
		if err != nil {
			close(c.lines)
			return
		}
	}
}

// RequestCode prompts the operator and waits for the next input line,
// the timeout, or cancellation.
func (c *Console) RequestCode(ctx context.Context, sessionLabel string, timeout time.Duration) (string, error) {
	c.once.Do(func() {
		c.lines = make(chan string)
		go c.readLoop()
	})

	fmt.Fprintf(c.out, "Enter security code for %s: ", sessionLabel)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code, ok := <-c.lines:
		if !ok {
			return "", fmt.Errorf("input closed before a code for %s arrived", sessionLabel)
		}
		return code, nil
	case <-timer.C:
		return "", fmt.Errorf("no code entered for %s within %s", sessionLabel, timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Send prints one human-readable status line.
func (c *Console) Send(ctx context.Context, msg string) {
	fmt.Fprintln(c.out, msg)
	logger.Debug(ctx, "Report sent", "message", msg)
}
