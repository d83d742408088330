package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"wisbridge/internal/notification"
)

// Resolver obtains the raw file bytes a notification describes, either
// by decoding the inline payload or by downloading from the location
// the message points at.
type Resolver struct {
	client  *http.Client
	timeout time.Duration
	retries int
}

// NewResolver builds a resolver. timeout bounds each download attempt;
// retries is the number of extra attempts after a transport failure
// (zero keeps single-attempt behavior). A nil client falls back to
// http.DefaultClient.
func NewResolver(timeout time.Duration, retries int, client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if retries < 0 {
		retries = 0
	}
	return &Resolver{client: client, timeout: timeout, retries: retries}
}

// Resolve returns the file bytes for the message. Inline and remote
// messages are mutually exclusive: a message with content never touches
// the network.
func (r *Resolver) Resolve(ctx context.Context, msg *notification.Message) ([]byte, error) {
	if msg.Inline() {
		return r.decodeInline(msg)
	}
	return r.download(ctx, msg)
}

func (r *Resolver) decodeInline(msg *notification.Message) ([]byte, error) {
	// The schema gate already enforces the enumeration; the check is
	// repeated here so an unvalidated message can never sneak an
	// unknown encoding past this stage.
	if msg.Content.Encoding != notification.EncodingBase64 {
		return nil, fail(KindUnsupportedEncoding, "content encoding %q not supported", msg.Content.Encoding)
	}
	content, err := base64.StdEncoding.DecodeString(msg.Content.Value)
	if err != nil {
		return nil, fail(KindUnsupportedEncoding, "content is not valid base64: %v", err)
	}
	return content, nil
}

func (r *Resolver) download(ctx context.Context, msg *notification.Message) ([]byte, error) {
	fetchURL := msg.FetchURL()

	var content []byte
	attempt := func() error {
		body, err := r.fetchOnce(ctx, fetchURL)
		if err != nil {
			return err
		}
		content = body
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(r.retries)), ctx)
	if err := backoff.Retry(attempt, bo); err != nil {
		return nil, fail(KindFetch, "download %s: %v", fetchURL, err)
	}
	return content, nil
}

func (r *Resolver) fetchOnce(ctx context.Context, fetchURL string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
