package guard

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

// IsAllowed reports whether clientIP matches any entry of the allow-list.
// Entries can be exact addresses ("192.168.1.50"), CIDR blocks
// ("192.168.1.0/24") or wildcard patterns ("192.168.*.*"). An empty list
// allows everyone.
func IsAllowed(clientIP string, allowList []string) bool {
	if len(allowList) == 0 {
		return true
	}
	for _, entry := range allowList {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == clientIP:
			return true
		case strings.Contains(entry, "/"):
			if cidrMatch(clientIP, entry) {
				return true
			}
		case strings.Contains(entry, "*"):
			if wildcardMatch(clientIP, entry) {
				return true
			}
		}
	}
	return false
}

// cidrMatch checks membership via a prefix-masked 32-bit comparison.
func cidrMatch(clientIP, cidr string) bool {
	idx := strings.LastIndex(cidr, "/")
	if idx < 0 {
		return false
	}
	prefix, err := strconv.Atoi(cidr[idx+1:])
	if err != nil || prefix < 0 || prefix > 32 {
		return false
	}
	base, ok := ipv4ToUint32(cidr[:idx])
	if !ok {
		return false
	}
	ip, ok := ipv4ToUint32(clientIP)
	if !ok {
		return false
	}
	var mask uint32
	if prefix > 0 {
		mask = ^uint32(0) << (32 - prefix)
	}
	return ip&mask == base&mask
}

func ipv4ToUint32(s string) (uint32, bool) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, false
	}
	ipv4 := ip.To4()
	if ipv4 == nil {
		return 0, false
	}
	return uint32(ipv4[0])<<24 | uint32(ipv4[1])<<16 | uint32(ipv4[2])<<8 | uint32(ipv4[3]), true
}

// wildcardMatch translates "*" segments to a digit class and matches the
// whole address.
func wildcardMatch(clientIP, pattern string) bool {
	escaped := regexp.QuoteMeta(pattern)
	expr := "^" + strings.ReplaceAll(escaped, `\*`, `\d+`) + "$"
	matched, err := regexp.MatchString(expr, clientIP)
	return err == nil && matched
}
