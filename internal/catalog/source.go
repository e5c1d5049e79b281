package catalog

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

//go:embed data/us_states_with_cities.json
var embeddedData embed.FS

// EmbeddedDataPath is the path of the bundled dataset inside embeddedData. It
// is also the URL path the data server publishes it under.
const EmbeddedDataPath = "data/us_states_with_cities.json"

// Source produces the raw JSON document a catalog is built from.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the dataset from a local file.
type FileSource struct {
	Path string
}

// Open opens the file.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

func (s FileSource) String() string { return "file:" + s.Path }

// httpClient is shared by HTTP sources that do not bring their own.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// HTTPSource fetches the dataset over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client // optional; defaults to a client with a 30s timeout
}

// Open issues the GET request. Non-200 responses are errors.
func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = httpClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", s.URL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", s.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP GET %s: status %d", s.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s HTTPSource) String() string { return s.URL }

// EmbeddedSource serves the dataset bundled into the binary.
type EmbeddedSource struct{}

// Open opens the embedded dataset.
func (EmbeddedSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return embeddedData.Open(EmbeddedDataPath)
}

func (EmbeddedSource) String() string { return "embedded:" + EmbeddedDataPath }

// BytesSource serves an in-memory document. Handy for tests and for hosts that
// already hold the data.
type BytesSource struct {
	Name string
	Data []byte
}

// Open returns a reader over the data.
func (s BytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

func (s BytesSource) String() string {
	if s.Name == "" {
		return "bytes"
	}
	return s.Name
}

// ReadAll reads the whole document from src.
func ReadAll(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	return data, nil
}
