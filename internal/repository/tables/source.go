package tables

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Source supplies the raw rows (header included) of one tabular input.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// FileSource reads a delimited table from the local filesystem.
type FileSource struct {
	Path string
}

// Rows loads and parses the file.
func (s FileSource) Rows(_ context.Context) ([][]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", s.Path, err)
	}
	return parseDelimited(data)
}

// HTTPSource fetches a delimited table from a remote endpoint, typically a
// published price feed for the products table.
type HTTPSource struct {
	URL    string
	client *resty.Client
}

// NewHTTPSource builds an HTTP table source with a shared timeout.
func NewHTTPSource(url string) HTTPSource {
	client := resty.New().SetTimeout(15 * time.Second)
	return HTTPSource{URL: url, client: client}
}

// Rows downloads and parses the remote table.
func (s HTTPSource) Rows(ctx context.Context) ([][]string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch table %s: %w", s.URL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch table %s: status %s", s.URL, resp.Status())
	}
	return parseDelimited(resp.Body())
}

// ForPath picks a file or HTTP source depending on the path's scheme.
func ForPath(path string) Source {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return NewHTTPSource(path)
	}
	return FileSource{Path: path}
}
