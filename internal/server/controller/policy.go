package controller

import (
	"net/http"
	"strings"
)

type Strategy int

const (
	StrategyPassthrough Strategy = iota
	StrategyNetworkOnly
	StrategyNetworkFirst
	StrategyStaleWhileRevalidate
)

func (s Strategy) String() string {
	switch s {
	case StrategyPassthrough:
		return "passthrough"
	case StrategyNetworkOnly:
		return "network-only"
	case StrategyNetworkFirst:
		return "network-first"
	case StrategyStaleWhileRevalidate:
		return "stale-while-revalidate"
	default:
		return "unknown"
	}
}

// Classify picks the strategy for req. req.URL must be absolute.
func (c *Controller) Classify(req *http.Request) Strategy {
	if req.Method != http.MethodGet {
		return StrategyPassthrough
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return StrategyPassthrough
	}
	if c.excluded(req) {
		return StrategyNetworkOnly
	}
	if isNavigation(req) {
		return StrategyNetworkFirst
	}
	return StrategyStaleWhileRevalidate
}

func (c *Controller) excluded(req *http.Request) bool {
	origin := req.URL.Scheme + "://" + req.URL.Host
	for _, ex := range c.opts.ExcludedOrigins {
		if strings.EqualFold(strings.TrimSuffix(ex, "/"), origin) {
			return true
		}
	}
	return false
}

func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	for _, v := range req.Header.Values("Accept") {
		if strings.Contains(v, "text/html") {
			return true
		}
	}
	return false
}
