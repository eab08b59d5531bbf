package guard

import "testing"

func TestIsAllowed(t *testing.T) {
	cases := []struct {
		ip   string
		list []string
		want bool
	}{
		{"10.0.0.1", nil, true}, // empty list allows everyone
		{"192.168.1.50", []string{"192.168.1.50"}, true},
		{"192.168.1.51", []string{"192.168.1.50"}, false},
		{"192.168.1.50", []string{"192.168.1.0/24"}, true},
		{"10.0.0.1", []string{"192.168.1.0/24"}, false},
		{"192.168.5.9", []string{"192.168.*.*"}, true},
		{"10.168.5.9", []string{"192.168.*.*"}, false},
		{"172.16.0.1", []string{"10.0.0.1", "172.16.0.0/12", "192.168.*.*"}, true},
		{"8.8.8.8", []string{"10.0.0.1", "172.16.0.0/12", "192.168.*.*"}, false},
		{"1.2.3.4", []string{"0.0.0.0/0"}, true},
		{"192.168.1.50", []string{" 192.168.1.50 "}, true}, // entries are trimmed
	}
	for _, c := range cases {
		if got := IsAllowed(c.ip, c.list); got != c.want {
			t.Errorf("IsAllowed(%q, %v) = %v, want %v", c.ip, c.list, got, c.want)
		}
	}
}

func TestCidrMatchBadInput(t *testing.T) {
	if cidrMatch("192.168.1.1", "192.168.1.0/33") {
		t.Error("prefix 33 should not match")
	}
	if cidrMatch("not-an-ip", "192.168.1.0/24") {
		t.Error("junk client IP should not match")
	}
	if cidrMatch("192.168.1.1", "junk/24") {
		t.Error("junk base should not match")
	}
}

func TestWildcardDoesNotMatchExtraSegments(t *testing.T) {
	if wildcardMatch("192.168.1.1.1", "192.168.*.*") {
		t.Error("five-segment address matched a four-segment pattern")
	}
	if wildcardMatch("192.168.ab.1", "192.168.*.*") {
		t.Error("non-digit segment matched *")
	}
}
