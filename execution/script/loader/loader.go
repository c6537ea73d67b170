// Package loader fetches field script sources from disk, HTTP or memory.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// Loader supplies the body of a field script.
type Loader interface {
	// GetReader opens the script body. The caller closes it.
	GetReader(ctx context.Context) (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

// Infer picks a loader for a command-line script argument: http and https URLs load over
// HTTP, anything else is a file path.
func Infer(input string) (Loader, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty script location", ErrInputEmpty)
	}
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return NewFromHTTP(input)
	}
	return NewFromDisk(input)
}

// ReadAll reads the whole script body.
func ReadAll(ctx context.Context, l Loader) ([]byte, error) {
	r, err := l.GetReader(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptNotAvailable, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInputEmpty, l.GetSourceURL())
	}
	return body, nil
}

// Name is the last path element of the source URL, used to label loaded modules.
func Name(l Loader) string {
	u := l.GetSourceURL()
	if u == nil {
		return "script"
	}
	return path.Base(u.Path)
}
