// Package session bootstraps the crawl transport: authenticated cookies
// handed to us out of band, and optional outbound proxy rotation.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"

	"github.com/gocolly/colly/v2"
)

// LoadCookies reads a name->value cookie file, the shape the session
// bootstrap exports after logging in.
func LoadCookies(path string) ([]*http.Cookie, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	var pairs map[string]string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("decode cookie file: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(pairs))
	for name, value := range pairs {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies, nil
}

type roundRobinSwitcher struct {
	proxyURLs []*url.URL
	index     uint32
}

func (r *roundRobinSwitcher) GetProxy(pr *http.Request) (*url.URL, error) {
	u := r.proxyURLs[r.index%uint32(len(r.proxyURLs))]
	atomic.AddUint32(&r.index, 1)
	ctx := context.WithValue(pr.Context(), colly.ProxyURLKey, u.String())
	*pr = *pr.WithContext(ctx)
	return u, nil
}

// RoundRobinProxy cycles outbound requests through the given proxies.
func RoundRobinProxy(proxies ...string) (colly.ProxyFunc, error) {
	if len(proxies) == 0 {
		return nil, fmt.Errorf("no proxies given")
	}
	urls := make([]*url.URL, len(proxies))
	for i, p := range proxies {
		parsed, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", p, err)
		}
		urls[i] = parsed
	}
	return (&roundRobinSwitcher{proxyURLs: urls}).GetProxy, nil
}
