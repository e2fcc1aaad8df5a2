package character

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// NotificationTimeout is how long a share notice stays visible.
const NotificationTimeout = 2 * time.Second

const copiedMessage = "Link copied!"

// Clipboard receives the share link.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notification is the transient message shown after a share attempt.
type Notification struct {
	Message string
	Failed  bool
}

// ShareLink returns pageURL without its query or fragment, carrying a single
// seed parameter.
func ShareLink(pageURL, seed string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	u.RawQuery = url.Values{"seed": {seed}}.Encode()
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// Share builds the share link for seed and writes it to clip. Failures are
// reported through the returned Notification and never abort the caller.
func Share(ctx context.Context, clip Clipboard, pageURL, seed string) (string, Notification) {
	link, err := ShareLink(pageURL, seed)
	if err != nil {
		return "", errorNotice(err)
	}
	if err := clip.WriteText(ctx, link); err != nil {
		return link, errorNotice(err)
	}
	return link, Notification{Message: copiedMessage}
}

// errorNotice formats a failed share attempt.
func errorNotice(err error) Notification {
	return Notification{Message: "Error: " + err.Error(), Failed: true}
}
