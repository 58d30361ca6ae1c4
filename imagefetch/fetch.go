// Package imagefetch downloads product images with a Chrome TLS fingerprint.
// Retail CDNs routinely reject default Go TLS handshakes, so the fetcher
// dials with utls and Chrome-like headers.
package imagefetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	tls2 "github.com/refraction-networking/utls"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxImageBytes caps downloaded image size.
const maxImageBytes = 10 * 1024 * 1024

// Fetcher performs image downloads with a Chrome TLS fingerprint (utls).
type Fetcher struct {
	proxy   string
	timeout time.Duration
}

// New creates an image fetcher. proxy may be empty; timeout bounds each
// download.
func New(proxy string, timeout time.Duration) *Fetcher {
	return &Fetcher{proxy: proxy, timeout: timeout}
}

// Fetch retrieves imageURL and returns the raw bytes plus the detected
// content type. A failure here always degrades to "no image payload" at the
// call site; it is never fatal for the enclosing request.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr, f.proxy)
		},
	}
	if f.proxy != "" {
		proxyURL, err := url.Parse(f.proxy)
		if err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("imagefetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("imagefetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("imagefetch: HTTP %d for %s", resp.StatusCode, imageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("imagefetch: read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	return body, contentType, nil
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via
// utls, optionally through a SOCKS5 proxy.
func dialTLSChrome(ctx context.Context, network, addr, proxy string) (net.Conn, error) {
	var rawConn net.Conn
	var err error

	dialer := &net.Dialer{}

	if proxy != "" {
		proxyURL, parseErr := url.Parse(proxy)
		if parseErr == nil && (proxyURL.Scheme == "socks5" || proxyURL.Scheme == "socks5h") {
			socksConn, socksErr := dialer.DialContext(ctx, "tcp", proxyURL.Host)
			if socksErr != nil {
				return nil, fmt.Errorf("socks5 dial: %w", socksErr)
			}
			rawConn = socksConn
		}
	}

	if rawConn == nil {
		rawConn, err = dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName:         host,
		InsecureSkipVerify: false,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
