package fetcher

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

// robotsCache fetches and caches robots.txt per host.
type robotsCache struct {
	client    *http.Client
	userAgent string
	mu        sync.Mutex
	groups    map[string]*robotstxt.RobotsData
}

func newRobotsCache(client *http.Client, userAgent string) *robotsCache {
	return &robotsCache{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the configured user agent may fetch targetURL.
// A missing or unparsable robots.txt allows everything.
func (r *robotsCache) Allowed(ctx context.Context, targetURL string) (bool, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	data, ok := r.groups[parsed.Host]
	r.mu.Unlock()

	if !ok {
		data, err = r.fetch(ctx, parsed)
		if err != nil {
			return true, err
		}
		r.mu.Lock()
		r.groups[parsed.Host] = data
		r.mu.Unlock()
	}

	if data == nil {
		return true, nil
	}
	return data.TestAgent(parsed.Path, r.userAgent), nil
}

func (r *robotsCache) fetch(ctx context.Context, site *url.URL) (*robotstxt.RobotsData, error) {
	robotsURL := site.Scheme + "://" + site.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt unparsable, allowing all")
		return nil, nil
	}
	return data, nil
}
