package services

import (
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// DevOriginSuffix marks origins obtained through the public-IP fallback so
// callers can tell a best-effort substitute from a real client address.
const DevOriginSuffix = " (dev)"

const (
	publicOriginCacheKey = "origin:public-ip"
	lookupTimeout        = 2 * time.Second
)

// DefaultProxyHeaders is the trusted proxy header list in priority order:
// real-IP style first, then forwarded-for style, then CDN-specific variants.
// Reordering or extending the list is a configuration change.
var DefaultProxyHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"CF-Connecting-IP",
	"True-Client-IP",
	"X-Client-IP",
	"X-Cluster-Client-IP",
	"Forwarded-For",
	"X-Forwarded",
}

// DefaultPublicIPServices is the ranked "what is my public IP" chain tried
// when only a loopback address is visible. Each returns a bare address body.
var DefaultPublicIPServices = []string{
	"https://api.ipify.org",
	"https://checkip.amazonaws.com",
	"https://icanhazip.com",
	"https://ifconfig.me/ip",
}

// OriginResolver determines the best-effort network origin of a request from
// proxy headers, falling back to the transport peer address and, for loopback
// origins, to an external public-IP lookup cached for CacheTTL.
type OriginResolver struct {
	Client   *http.Client
	Headers  []string
	Services []string
	CacheTTL time.Duration

	cache *TTLCache
}

func NewOriginResolver(cache *TTLCache) *OriginResolver {
	return &OriginResolver{
		Client:   &http.Client{Timeout: lookupTimeout},
		Headers:  DefaultProxyHeaders,
		Services: DefaultPublicIPServices,
		CacheTTL: time.Hour,
		cache:    cache,
	}
}

// Resolve returns the best available origin-address string for req. It never
// fails: resolution degrades through the fallback chain and bottoms out at
// the literal "unknown".
func (r *OriginResolver) Resolve(req *http.Request) string {
	for _, header := range r.Headers {
		value := req.Header.Get(header)
		if value == "" {
			continue
		}
		// Forwarded-for style headers carry a comma-separated chain; the
		// first token is the original client.
		candidate := strings.TrimSpace(strings.Split(value, ",")[0])
		if candidate == "" || strings.EqualFold(candidate, "unknown") || isLoopback(candidate) {
			continue
		}
		return candidate
	}

	addr := remoteHost(req.RemoteAddr)
	if addr == "" {
		return "unknown"
	}

	if isLoopback(addr) {
		if public := r.publicOrigin(); public != "" {
			return public + DevOriginSuffix
		}
		return addr
	}
	return addr
}

// publicOrigin returns the cached or freshly looked-up public IP, or "" when
// every service in the chain fails.
func (r *OriginResolver) publicOrigin() string {
	if cached, ok := r.cache.Get(publicOriginCacheKey); ok {
		return cached
	}

	for _, service := range r.Services {
		ip, err := r.fetchPublicIP(service)
		if err != nil {
			log.Printf("Public IP lookup via %s failed: %v", service, err)
			continue
		}
		if ip == "" {
			continue
		}
		r.cache.Set(publicOriginCacheKey, ip, r.CacheTTL)
		return ip
	}
	return ""
}

func (r *OriginResolver) fetchPublicIP(service string) (string, error) {
	resp, err := r.Client.Get(service)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}

	candidate := strings.TrimSpace(string(body))
	ip := net.ParseIP(candidate)
	if ip == nil || ip.To4() == nil {
		// Only syntactically valid IPv4 responses are accepted.
		return "", nil
	}
	return candidate, nil
}

// remoteHost strips the port from a connection-level address.
func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.TrimSpace(remoteAddr)
	}
	return host
}

// isLoopback reports whether s is a loopback form: 127.0.0.1, ::1, or the
// IPv4-mapped loopback.
func isLoopback(s string) bool {
	ip := net.ParseIP(strings.TrimSpace(s))
	return ip != nil && ip.IsLoopback()
}

// isLocal reports whether s is local from this vantage point: loopback or a
// private (RFC 1918 / RFC 4193) address forwarded by an internal proxy.
func isLocal(s string) bool {
	ip := net.ParseIP(strings.TrimSpace(s))
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}
