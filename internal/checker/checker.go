// Package checker probes link destinations and reports which short links
// point at pages that no longer resolve.
package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/nikbrunner/lp/internal/model"
	"golang.org/x/sync/errgroup"
)

// Status is the health of a link's destination.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx
	Dead                      // 404 or 410
	Unreachable               // no usable answer
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result is the outcome for one link.
type Result struct {
	Link       model.Link
	Status     Status
	StatusCode int    // 0 when no response arrived
	Error      string // reason shown for unreachable destinations
}

// ProgressFunc reports how many links have been resolved so far.
type ProgressFunc func(completed, total int)

// Params configures a check run.
type Params struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains are hosts whose 404s usually mean "login required".
	ExcludeDomains []string
	OnProgress     ProgressFunc
	HTTPClient     *http.Client
}

const maxRedirects = 10

const privateHint = "Possibly private (auth required)"

// CheckLinks probes every link's destination, at most Concurrency at a time.
// Links sharing a destination are probed once. Results keep the order of links.
func CheckLinks(ctx context.Context, links []model.Link, params Params) []Result {
	if len(links) == 0 {
		return nil
	}

	// destination -> indexes of the links pointing at it
	groups := make(map[string][]int)
	var order []string
	for i, link := range links {
		if _, seen := groups[link.OriginalURL]; !seen {
			order = append(order, link.OriginalURL)
		}
		groups[link.OriginalURL] = append(groups[link.OriginalURL], i)
	}

	p := prober{client: params.HTTPClient, exclude: excludeSet(params.ExcludeDomains)}
	if p.client == nil {
		p.client = &http.Client{
			Timeout: params.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	results := make([]Result, len(links))

	var (
		mu        sync.Mutex
		completed int
		g         errgroup.Group
	)
	g.SetLimit(max(params.Concurrency, 1))

	for _, dest := range order {
		g.Go(func() error {
			r := p.probe(ctx, dest)

			mu.Lock()
			defer mu.Unlock()
			for _, idx := range groups[dest] {
				r.Link = links[idx]
				results[idx] = r
			}
			completed += len(groups[dest])
			if params.OnProgress != nil {
				params.OnProgress(completed, len(links))
			}
			return nil
		})
	}
	// probes report failures in their Result, never as an error
	_ = g.Wait()

	return results
}

type prober struct {
	client  *http.Client
	exclude map[string]bool
}

func (p prober) probe(ctx context.Context, dest string) Result {
	u, err := url.Parse(dest)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Result{Status: Unreachable, Error: "Invalid URL"}
	}

	// Some servers reject HEAD; retry those with GET.
	resp, err := p.do(ctx, http.MethodHead, dest)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = p.do(ctx, http.MethodGet, dest)
	}
	if err != nil {
		return Result{Status: Unreachable, Error: describe(err)}
	}
	resp.Body.Close()

	r := Result{StatusCode: resp.StatusCode}
	switch code := resp.StatusCode; {
	case code >= 200 && code < 400:
		r.Status = Healthy
	case code == http.StatusNotFound || code == http.StatusGone:
		r.Status = Dead
		if p.excluded(u.Hostname()) {
			r.Status, r.Error = Unreachable, privateHint
		}
	default:
		r.Status = Unreachable
		r.Error = http.StatusText(code)
	}
	return r
}

func (p prober) do(ctx context.Context, method, dest string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, dest, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "lp-checker/1.0")
	return p.client.Do(req)
}

// excluded reports whether host is an excluded domain or one of its subdomains.
func (p prober) excluded(host string) bool {
	host = strings.ToLower(host)
	for {
		if p.exclude[host] {
			return true
		}
		_, parent, ok := strings.Cut(host, ".")
		if !ok {
			return false
		}
		host = parent
	}
}

func excludeSet(domains []string) map[string]bool {
	set := make(map[string]bool, len(domains))
	for _, d := range domains {
		set[strings.ToLower(d)] = true
	}
	return set
}

// describe turns a transport error into a short reason.
func describe(err error) string {
	var (
		dnsErr  *net.DNSError
		netErr  net.Error
		certErr *tls.CertificateVerificationError
		authErr x509.UnknownAuthorityError
		hostErr x509.HostnameError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "Timeout"
	case errors.As(err, &dnsErr):
		return "DNS failure"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused"
	case errors.Is(err, syscall.ENETUNREACH):
		return "Network unreachable"
	case errors.As(err, &certErr), errors.As(err, &authErr), errors.As(err, &hostErr):
		return "TLS/certificate error"
	default:
		return err.Error()
	}
}
