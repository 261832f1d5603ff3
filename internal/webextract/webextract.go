// Package webextract fetches and parses web pages into the structured form
// the conversation engine uses as sales context.
package webextract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/vendalab/salespipe/internal/models"
	"github.com/vendalab/salespipe/internal/observability"
)

// DefaultTimeout bounds a full fetch-and-parse cycle.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 5 << 20

// Caps on collected page elements.
const (
	maxLinks         = 50
	maxPrices        = 3
	maxReviewSamples = 2
	maxCleanText     = 15000
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\(?\d{2}\)?\s?\d{4,5}-?\d{4}`)
	pricePattern = regexp.MustCompile(`R\$|USD|\$|€`)
)

// Opts holds extractor configuration.
type Opts struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// Option configures the extractor.
type Option func(*Opts)

// WithHTTPClient sets the HTTP client used for fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Opts) { o.httpClient = client }
}

// WithUserAgent sets the User-Agent header sent with fetches.
func WithUserAgent(ua string) Option {
	return func(o *Opts) { o.userAgent = ua }
}

// WithTimeout sets the per-extraction deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.timeout = d }
}

// Extractor fetches pages and turns them into PageData.
type Extractor struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

// NewExtractor creates a web content extractor.
func NewExtractor(options ...Option) *Extractor {
	opts := Opts{
		timeout:   DefaultTimeout,
		userAgent: "Mozilla/5.0 (compatible; SalesPipe/1.0)",
	}
	for _, opt := range options {
		opt(&opts)
	}
	client := opts.httpClient
	if client == nil {
		client = &http.Client{Timeout: opts.timeout}
	}
	return &Extractor{client: client, userAgent: opts.userAgent, timeout: opts.timeout}
}

// Extract fetches and parses one page. It never returns an error; failures
// are reported inside the result so a bad URL cannot break a conversation
// turn.
func (e *Extractor) Extract(ctx context.Context, pageURL string) models.ExtractionResult {
	data, err := e.extract(ctx, pageURL)
	if err != nil {
		observability.WebExtractionsTotal.WithLabelValues("error").Inc()
		slog.Warn("Extractor.Extract: extraction failed", "url", pageURL, "error", err)
		return models.ExtractionResult{Success: false, Error: err.Error()}
	}
	observability.WebExtractionsTotal.WithLabelValues("success").Inc()
	slog.Info("Extractor.Extract: page extracted", "url", pageURL, "title", data.Title, "text_length", len(data.CleanText))
	return models.ExtractionResult{Success: true, Data: data}
}

func (e *Extractor) extract(ctx context.Context, pageURL string) (*models.PageData, error) {
	base, err := url.ParseRequestURI(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("invalid url %q", pageURL)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	root, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("html parse failed: %w", err)
	}

	data := parsePage(root, base)
	data.URL = pageURL
	data.ExtractedAt = time.Now()
	return data, nil
}

// parsePage walks the document once, collecting metadata, headings, links,
// prices, reviews and the clean body text.
func parsePage(root *html.Node, base *url.URL) *models.PageData {
	data := &models.PageData{Headings: make(map[string][]string)}
	var textParts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "header", "footer":
				return
			case "title":
				if data.Title == "" {
					data.Title = strings.TrimSpace(nodeText(n))
				}
			case "meta":
				if attr(n, "name") == "description" && data.Description == "" {
					data.Description = strings.TrimSpace(attr(n, "content"))
				}
			case "h1", "h2", "h3":
				if text := strings.TrimSpace(nodeText(n)); text != "" {
					data.Headings[n.Data] = append(data.Headings[n.Data], text)
				}
			case "a":
				if len(data.Links) < maxLinks {
					if link, ok := resolveLink(n, base); ok {
						data.Links = append(data.Links, link)
					}
				}
			}
			if class := strings.ToLower(attr(n, "class")); class != "" {
				collectClassHints(n, class, data)
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				textParts = append(textParts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	clean := strings.Join(textParts, " ")
	if len(clean) > maxCleanText {
		cut := maxCleanText
		for cut > 0 && !utf8.RuneStart(clean[cut]) {
			cut--
		}
		clean = clean[:cut]
	}
	data.CleanText = clean

	data.Contact.Emails = dedupe(emailPattern.FindAllString(clean, -1))
	data.Contact.Phones = dedupe(phonePattern.FindAllString(clean, -1))
	data.Pricing.HasPricing = len(data.Pricing.Prices) > 0
	data.Reviews.HasReviews = len(data.Reviews.Samples) > 0
	return data
}

// collectClassHints pulls prices and review snippets out of elements whose
// class names advertise them.
func collectClassHints(n *html.Node, class string, data *models.PageData) {
	switch {
	case strings.Contains(class, "price") || strings.Contains(class, "preco") || strings.Contains(class, "valor"):
		if len(data.Pricing.Prices) >= maxPrices {
			return
		}
		if text := strings.TrimSpace(nodeText(n)); pricePattern.MatchString(text) {
			data.Pricing.Prices = append(data.Pricing.Prices, text)
		}
	case strings.Contains(class, "review") || strings.Contains(class, "avaliacao") || strings.Contains(class, "rating"):
		if len(data.Reviews.Samples) >= maxReviewSamples {
			return
		}
		if text := strings.TrimSpace(nodeText(n)); text != "" {
			data.Reviews.Samples = append(data.Reviews.Samples, text)
		}
	}
}

func resolveLink(n *html.Node, base *url.URL) (models.PageLink, bool) {
	href := attr(n, "href")
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return models.PageLink{}, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return models.PageLink{}, false
	}
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return models.PageLink{}, false
	}
	return models.PageLink{Text: text, Href: base.ResolveReference(ref).String()}, true
}

// nodeText concatenates the text content below a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
