package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
)

// Ensure FileProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*FileProvider)(nil)

// tokenFile is the JSON form of a token file. A file that is not JSON is
// read as a bare token.
type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int       `json:"expires_in"`
}

// FileProvider reads the token from a file the host rewrites when it renews
// the token. Watch keeps it current.
type FileProvider struct {
	tokenState
	path      string
	expiresIn time.Duration
}

// NewFileProvider creates a provider for path and loads it once.
// expiresIn applies to tokens that carry no expiry of their own.
func NewFileProvider(path string, expiresIn time.Duration) (*FileProvider, error) {
	p := &FileProvider{path: path, expiresIn: expiresIn}
	if err := p.Load(); err != nil {
		return nil, err
	}
	return p, nil
}

// Path returns the token file path.
func (p *FileProvider) Path() string {
	return p.path
}

// Load re-reads the token file.
func (p *FileProvider) Load() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	token, expiresAt, err := p.parse(data)
	if err != nil {
		return fmt.Errorf("parse token file %s: %w", p.path, err)
	}
	p.set(token, expiresAt)
	logger.Debug("loaded token from %s, expires %s", p.path, expiresAt.Format(time.RFC3339))
	return nil
}

func (p *FileProvider) parse(data []byte) (string, time.Time, error) {
	text := strings.TrimSpace(string(data))
	if !strings.HasPrefix(text, "{") {
		if text == "" {
			return "", time.Time{}, nil
		}
		return text, p.clock().Add(p.expiresIn), nil
	}

	var f tokenFile
	if err := json.Unmarshal([]byte(text), &f); err != nil {
		return "", time.Time{}, err
	}
	switch {
	case !f.ExpiresAt.IsZero():
		return f.AccessToken, f.ExpiresAt, nil
	case f.ExpiresIn > 0:
		return f.AccessToken, p.clock().Add(time.Duration(f.ExpiresIn) * time.Second), nil
	default:
		return f.AccessToken, p.clock().Add(p.expiresIn), nil
	}
}

// Watch reloads the token whenever the file changes until ctx is cancelled.
// The parent directory is watched so that atomic renames are seen.
// The returned channel receives nil after each successful reload and the
// error after each failed one; it is closed when watching stops.
func (p *FileProvider) Watch(ctx context.Context) (<-chan error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	reloads := make(chan error, 1)
	go func() {
		defer close(reloads)
		defer watcher.Close()

		target := filepath.Clean(p.path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				err := p.Load()
				if err != nil {
					logger.Warn("reload token file: %v", err)
				} else {
					logger.Info("token file %s reloaded", p.path)
				}
				notify(reloads, err)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("token file watcher: %v", err)
			}
		}
	}()
	return reloads, nil
}

// notify delivers err without blocking, replacing an unread result.
func notify(ch chan error, err error) {
	select {
	case ch <- err:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- err:
		default:
		}
	}
}
