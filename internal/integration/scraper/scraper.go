// Package scraper finds a preview image for a product page.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/giftcircle/backend/internal/application/adapter"
)

const (
	// maxBodyBytes bounds how much of a page is parsed.
	maxBodyBytes = 2 << 20

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ErrBlockedAddress is returned when a page resolves to a loopback, private
// or otherwise non-public address.
var ErrBlockedAddress = errors.New("address is not publicly routable")

// sharedAddressSpace is the carrier-grade NAT range, which netip does not
// report as private.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Config configures the scraper.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	// AllowPrivateNetworks lets the scraper reach loopback and private hosts.
	AllowPrivateNetworks bool
}

// Scraper implements adapter.ImageScraper over HTTP.
type Scraper struct {
	client    *http.Client
	userAgent string
}

// New creates a scraper with its own HTTP client.
func New(cfg Config) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.AllowPrivateNetworks {
		dialer := &net.Dialer{Timeout: cfg.Timeout, Control: publicOnly}
		transport.DialContext = dialer.DialContext
		transport.Proxy = nil
	}
	return &Scraper{
		client:    &http.Client{Timeout: cfg.Timeout, Transport: transport},
		userAgent: cfg.UserAgent,
	}
}

// publicOnly runs after name resolution, so redirects and rebinding DNS
// answers are checked against the address actually dialed.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if blocked(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}

func blocked(ip netip.Addr) bool {
	ip = ip.Unmap()
	return !ip.IsGlobalUnicast() || ip.IsPrivate() || sharedAddressSpace.Contains(ip)
}

// ScrapeImage fetches pageURL and returns its preview image, preferring
// og:image, then twitter:image, then the first <img> that does not look like
// an icon or logo. Relative URLs are resolved against the page.
func (s *Scraper) ScrapeImage(ctx context.Context, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := FindImage(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", nil
	}
	return resolve(base, raw), nil
}

// FindImage scans an HTML document for the preferred image reference and
// returns it unresolved.
func FindImage(r io.Reader) (string, error) {
	var twitterImage, firstImg string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return pick(twitterImage, firstImg), nil
			}
			return "", fmt.Errorf("failed to parse page: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Meta:
				property := attr(tok, "property")
				name := attr(tok, "name")
				content := strings.TrimSpace(attr(tok, "content"))
				if content == "" {
					continue
				}
				if property == "og:image" {
					// Nothing outranks og:image.
					return content, nil
				}
				if twitterImage == "" && name == "twitter:image" {
					twitterImage = content
				}
			case atom.Img:
				if firstImg != "" {
					continue
				}
				src := strings.TrimSpace(attr(tok, "src"))
				if src != "" && !strings.Contains(src, "icon") && !strings.Contains(src, "logo") {
					firstImg = src
				}
			}
		}
	}
}

func pick(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// Disabled is an ImageScraper that never finds an image.
type Disabled struct{}

// ScrapeImage always returns "".
func (Disabled) ScrapeImage(context.Context, string) (string, error) {
	return "", nil
}

var (
	_ adapter.ImageScraper = (*Scraper)(nil)
	_ adapter.ImageScraper = Disabled{}
)
