package newsdigest

import (
	"net"
	"net/url"
	"strings"
)

// CheckTarget validates that rawURL may be fetched on behalf of a caller.
// It rejects non-HTTP schemes and hosts that point into local or private
// networks (localhost, loopback, 10/8, 172.16/12, 192.168/16, link-local).
// The check looks only at the URL itself and performs no DNS lookups or
// other network I/O.
func CheckTarget(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Errorf(EINVALID, "invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return Errorf(EINVALID, "URL has no host")
	}

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return Errorf(EFORBIDDEN, "access to %s is not allowed", host)
	}

	if ip := net.ParseIP(host); ip != nil {
		if isInternalIP(ip) {
			return Errorf(EFORBIDDEN, "access to %s is not allowed", host)
		}
		return nil
	}

	// Names starting with a private dotted prefix are refused as well.
	for _, prefix := range []string{"127.", "10.", "192.168.", "172.16."} {
		if strings.HasPrefix(host, prefix) {
			return Errorf(EFORBIDDEN, "access to %s is not allowed", host)
		}
	}

	return nil
}

// isInternalIP reports whether ip is loopback, private, link-local or
// unspecified. Covers IPv4 and IPv6.
func isInternalIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
