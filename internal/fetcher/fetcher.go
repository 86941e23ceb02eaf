package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultMaxBytes bounds a downloaded image or page.
const DefaultMaxBytes = 5 << 20

var (
	ErrTooLarge    = errors.New("response too large")
	ErrNoImage     = errors.New("no image found")
	ErrNotAnImage  = errors.New("content is not an image")
	ErrInvalidURL  = errors.New("invalid URL")
	ErrUnsupported = errors.New("unsupported content type")
)

// Result is a downloaded image.
type Result struct {
	Data      []byte
	MediaType string
	URL       string
}

// Fetcher downloads food images referenced by URL. A URL may point at the
// image itself or at an HTML page, in which case the page's og:image (or its
// first <img>) is followed once.
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// New creates a Fetcher with the given request timeout.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		maxBytes:  DefaultMaxBytes,
		userAgent: "kalorien/1.0",
	}
}

// FetchImage retrieves the image referenced by rawURL.
func (f *Fetcher) FetchImage(ctx context.Context, rawURL string) (*Result, error) {
	u, err := normalize(rawURL)
	if err != nil {
		return nil, err
	}

	body, mediaType, final, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(mediaType, "image/") {
		return &Result{Data: body, MediaType: mediaType, URL: final.String()}, nil
	}
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mediaType)
	}

	ref := findImage(string(body))
	if ref == "" {
		return nil, fmt.Errorf("%w on page %s", ErrNoImage, final)
	}
	imgURL, err := final.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, ref, err)
	}

	body, mediaType, final, err = f.get(ctx, imgURL)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotAnImage, final, mediaType)
	}
	return &Result{Data: body, MediaType: mediaType, URL: final.String()}, nil
}

// IsURL checks if a string looks like a URL
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

func normalize(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, "www.") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) ([]byte, string, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*, text/html;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, "", nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType == "" || mediaType == "application/octet-stream" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(body))
	}
	return body, mediaType, resp.Request.URL, nil
}

// findImage returns the page's preferred image reference: og:image or
// twitter:image meta tags first, then the first <img> with a src.
func findImage(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var meta, img string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if meta != "" {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := strings.ToLower(attr(n, "property"))
				if key == "" {
					key = strings.ToLower(attr(n, "name"))
				}
				if key == "og:image" || key == "twitter:image" {
					meta = strings.TrimSpace(attr(n, "content"))
				}
			case "img":
				if img == "" {
					img = strings.TrimSpace(attr(n, "src"))
				}
			case "script", "style", "noscript":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta != "" {
		return meta
	}
	return img
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
