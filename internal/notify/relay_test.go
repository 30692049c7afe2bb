package notify

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"wellsfargo-trader/internal/interfaces"
)

func TestRelayDeliversCode(t *testing.T) {
	relay := NewRelay(nil)

	go func() {
		req := <-relay.Requests()
		if req.SessionLabel != "WELLSFARGO 1" {
			t.Errorf("unexpected session label %q", req.SessionLabel)
		}
		req.Reply <- "123456"
	}()

	code, err := relay.RequestCode(context.Background(), "WELLSFARGO 1", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "123456" {
		t.Errorf("expected 123456, got %q", code)
	}
}

func TestRelayTimeoutWithoutFallback(t *testing.T) {
	relay := NewRelay(nil)

	go func() {
		// Accept the request but never answer.
		<-relay.Requests()
	}()

	_, err := relay.RequestCode(context.Background(), "WELLSFARGO 1", 20*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

type cannedNotifier struct {
	code  string
	sends []string
}

var _ interfaces.Notifier = (*cannedNotifier)(nil)

func (c *cannedNotifier) RequestCode(ctx context.Context, label string, timeout time.Duration) (string, error) {
	return c.code, nil
}

func (c *cannedNotifier) Send(ctx context.Context, msg string) {
	c.sends = append(c.sends, msg)
}

func TestRelayTimeoutFallsBack(t *testing.T) {
	fallback := &cannedNotifier{code: "654321"}
	relay := NewRelay(fallback)

	// Nobody services the request channel; buffered submit succeeds,
	// the reply wait times out and the fallback answers.
	code, err := relay.RequestCode(context.Background(), "WELLSFARGO 2", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "654321" {
		t.Errorf("expected fallback code, got %q", code)
	}
}

func TestRelaySendForwards(t *testing.T) {
	fallback := &cannedNotifier{}
	relay := NewRelay(fallback)

	relay.Send(context.Background(), "hello")
	if len(fallback.sends) != 1 || fallback.sends[0] != "hello" {
		t.Errorf("expected forwarded send, got %v", fallback.sends)
	}
}

func TestConsoleLineTypedAfterTimeoutServesNextPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := &Console{in: pr, out: &strings.Builder{}}

	// First prompt goes unattended.
	if _, err := c.RequestCode(context.Background(), "WELLSFARGO 1", 20*time.Millisecond); err == nil {
		t.Fatal("expected timeout for unattended prompt")
	}

	// The operator answers late; the line must reach the next prompt
	// instead of vanishing into the timed-out one.
	go func() {
		pw.Write([]byte("135790\n"))
	}()

	code, err := c.RequestCode(context.Background(), "WELLSFARGO 2", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "135790" {
		t.Errorf("expected 135790, got %q", code)
	}
}

func TestConsoleRequestCodeReadsLine(t *testing.T) {
	c := &Console{in: strings.NewReader("987654\n"), out: &strings.Builder{}}
	code, err := c.RequestCode(context.Background(), "WELLSFARGO 1", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "987654" {
		t.Errorf("expected 987654, got %q", code)
	}
}
