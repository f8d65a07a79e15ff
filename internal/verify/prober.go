package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/veridash/veridash/internal/models"
)

const (
	probeTimeout  = 5 * time.Second
	probeBodyCap  = 64 * 1024
	archivePrefix = "https://web.archive.org/web/"
)

// LinkProber checks whether a URL is reachable.
type LinkProber struct {
	client *http.Client
	now    func() time.Time
}

// NewLinkProber creates a prober with a bounded request timeout.
func NewLinkProber() *LinkProber {
	return &LinkProber{
		client: &http.Client{Timeout: probeTimeout},
		now:    time.Now,
	}
}

// Probe issues a HEAD request (falling back to GET when HEAD is not
// allowed) and classifies the URL. For accessible HTML pages the page
// title is included in the detail message; broken links get an archive
// fallback URL.
func (p *LinkProber) Probe(ctx context.Context, url string) (models.LinkStatus, *int, models.LinkDetail) {
	checkedAt := p.now().UTC()
	detail := models.LinkDetail{CheckedAt: &checkedAt}

	resp, err := p.request(ctx, http.MethodHead, url)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = p.request(ctx, http.MethodGet, url)
	}
	if err != nil {
		detail.Message = fmt.Sprintf("Request failed: %v", err)
		detail.Archived = true
		detail.ArchiveURL = archivePrefix + url
		return models.LinkBroken, nil, detail
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	if code >= 400 {
		detail.Message = fmt.Sprintf("Server returned %d %s", code, http.StatusText(code))
		detail.Archived = true
		detail.ArchiveURL = archivePrefix + url
		return models.LinkBroken, &code, detail
	}

	detail.Message = "URL is accessible"
	if title := pageTitle(resp); title != "" {
		detail.Message = fmt.Sprintf("URL is accessible: %s", title)
	}
	return models.LinkAccessible, &code, detail
}

func (p *LinkProber) request(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "veridash/1.0")
	return p.client.Do(req)
}

// pageTitle extracts the <title> of an HTML response body, reading at
// most probeBodyCap bytes.
func pageTitle(resp *http.Response) string {
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return ""
	}
	doc, err := html.Parse(io.LimitReader(resp.Body, probeBodyCap))
	if err != nil {
		return ""
	}
	return findTitle(doc)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
