package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// ErrBlockedURL is returned when a fetch would reach a loopback, private or
// otherwise internal address.
var ErrBlockedURL = errors.New("blocked internal URL")

// ErrTooLarge is returned when a response body exceeds the fetch size limit.
var ErrTooLarge = errors.New("response too large")

// AllowInternalURLsForTesting disables the internal address check so tests
// can fetch from httptest servers on 127.0.0.1.
var AllowInternalURLsForTesting = false

var internalSuffixes = []string{".local", ".localhost", ".internal", ".localdomain"}

// isInternalURL reports whether rawURL names a host that must not be fetched
// on behalf of a bookmark file. URLs without a host count as internal.
func isInternalURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || host == "localhost" {
		return true
	}
	for _, suffix := range internalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	if ip := net.ParseIP(host); ip != nil {
		return isInternalIP(ip)
	}
	return false
}

func isInternalIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast()
}

// guardDial refuses connections to internal addresses after DNS resolution,
// which catches public names that resolve to private IPs.
func guardDial(_, address string, _ syscall.RawConn) error {
	if AllowInternalURLsForTesting {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if ip := net.ParseIP(host); ip == nil || isInternalIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedURL, address)
	}
	return nil
}

// newHTTPClient returns a client whose connections go through guardDial.
func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout, Control: guardDial}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

// resolveURL resolves ref against base. data: and javascript: references and
// unparsable ones resolve to "".
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "javascript:") {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(refURL).String()
}

type fetchResult struct {
	data        []byte
	contentType string
}

// fetchURL downloads urlStr. When maxSize > 0 a body longer than maxSize
// bytes fails with ErrTooLarge instead of being cut short.
// The content type falls back to sniffing when the server sends none.
func fetchURL(ctx context.Context, client *http.Client, urlStr string, maxSize int64) (fetchResult, error) {
	if !AllowInternalURLsForTesting && isInternalURL(urlStr) {
		return fetchResult{}, fmt.Errorf("%w: %s", ErrBlockedURL, urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fetchResult{}, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fetchResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetchResult{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if maxSize > 0 {
		reader = io.LimitReader(resp.Body, maxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return fetchResult{}, err
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return fetchResult{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxSize)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return fetchResult{data: data, contentType: contentType}, nil
}

func dataURI(contentType string, data []byte) string {
	// Parameters such as charset are dropped.
	if idx := strings.Index(contentType, ";"); idx > 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
