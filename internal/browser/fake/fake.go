// Package fake provides a scripted in-memory Browser for tests, so
// the session, holdings and order flows can run end-to-end without a
// live Chrome.
package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wellsfargo-trader/internal/interfaces"
)

// Call records one browser operation for assertions.
type Call struct {
	Op  string
	Arg string
}

// Browser is configured by populating the selector maps. Selectors
// absent from a map behave as timed-out waits, which is how the real
// site signals a missing feature.
type Browser struct {
	Visible  map[string]bool
	ClickErr map[string]error
	TextFor  map[string]string
	HTMLFor  map[string]string
	// OnEval answers script evaluations. Nil means every script
	// succeeds with a zero result.
	OnEval func(script string, out any) error

	NavigateErr error
	ReadyErr    error
	CloseErr    error

	Calls       []Call
	Typed       map[string][]string
	Screenshots []string
	Closed      bool
}

var _ interfaces.Browser = (*Browser)(nil)

func New() *Browser {
	return &Browser{
		Visible:  map[string]bool{},
		ClickErr: map[string]error{},
		TextFor:  map[string]string{},
		HTMLFor:  map[string]string{},
		Typed:    map[string][]string{},
	}
}

func (b *Browser) record(op, arg string) {
	b.Calls = append(b.Calls, Call{Op: op, Arg: arg})
}

// CallCount counts recorded operations matching op and arg.
func (b *Browser) CallCount(op, arg string) int {
	n := 0
	for _, c := range b.Calls {
		if c.Op == op && c.Arg == arg {
			n++
		}
	}
	return n
}

// EvalScripts returns every evaluated script, for substring matching.
func (b *Browser) EvalScripts() []string {
	var scripts []string
	for _, c := range b.Calls {
		if c.Op == "eval" {
			scripts = append(scripts, c.Arg)
		}
	}
	return scripts
}

// SetResult writes v into an Eval out pointer via a JSON round trip,
// mirroring how chromedp unmarshals evaluation results.
func SetResult(out, v any) error {
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	b.record("navigate", url)
	return b.NavigateErr
}

func (b *Browser) WaitReady(ctx context.Context, timeout time.Duration) error {
	b.record("ready", "")
	return b.ReadyErr
}

func (b *Browser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	b.record("wait", selector)
	if b.Visible[selector] {
		return nil
	}
	return fmt.Errorf("%w waiting for %s", interfaces.ErrTimeout, selector)
}

func (b *Browser) Click(ctx context.Context, selector string, timeout time.Duration) error {
	b.record("click", selector)
	if err, ok := b.ClickErr[selector]; ok {
		return err
	}
	return nil
}

func (b *Browser) Type(ctx context.Context, selector, text string, slow bool) error {
	b.record("type", selector)
	b.Typed[selector] = append(b.Typed[selector], text)
	return nil
}

func (b *Browser) PressEnter(ctx context.Context, selector string) error {
	b.record("enter", selector)
	return nil
}

func (b *Browser) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	b.record("text", selector)
	if s, ok := b.TextFor[selector]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w reading text of %s", interfaces.ErrTimeout, selector)
}

func (b *Browser) OuterHTML(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	b.record("html", selector)
	if s, ok := b.HTMLFor[selector]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w reading html of %s", interfaces.ErrTimeout, selector)
}

func (b *Browser) Eval(ctx context.Context, script string, out any) error {
	b.record("eval", script)
	if b.OnEval != nil {
		return b.OnEval(script, out)
	}
	return nil
}

func (b *Browser) Screenshot(ctx context.Context, path string) error {
	b.record("screenshot", path)
	b.Screenshots = append(b.Screenshots, path)
	return nil
}

func (b *Browser) Close(ctx context.Context) error {
	b.record("close", "")
	b.Closed = true
	return b.CloseErr
}
