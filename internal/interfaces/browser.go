package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned (possibly wrapped) by bounded waits that
// expired. Callers decide whether the expiry is an error or a valid
// "feature absent" signal, so it must stay distinguishable with
// errors.Is from hard failures.
var ErrTimeout = errors.New("wait timed out")

// Browser is the page-automation capability set. Selectors are opaque
// strings: CSS by default, XPath when prefixed with "//". They are
// configuration tied to the target site's current markup; a markup
// change surfaces as ErrTimeout, not a crash.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until the document reports itself fully loaded.
	WaitReady(ctx context.Context, timeout time.Duration) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Click(ctx context.Context, selector string, timeout time.Duration) error
	// Type sends text into the matched field. With slow set, characters
	// are sent one at a time with a small jittered delay to defeat
	// basic bot detection; this is behavior, not a performance knob.
	Type(ctx context.Context, selector, text string, slow bool) error
	PressEnter(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string, timeout time.Duration) (string, error)
	OuterHTML(ctx context.Context, selector string, timeout time.Duration) (string, error)
	// Eval runs a script in page context and unmarshals its result into
	// out when out is non-nil.
	Eval(ctx context.Context, script string, out any) error
	Screenshot(ctx context.Context, path string) error
	Close(ctx context.Context) error
}
