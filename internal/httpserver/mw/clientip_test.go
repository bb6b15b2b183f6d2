package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/memarch/internal/logger"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "192.0.2.7:5555", want: "192.0.2.7"},
		{name: "ignores proxy headers when untrusted", remote: "192.0.2.7:5555", headers: map[string]string{"X-Forwarded-For": "203.0.113.9"}, want: "192.0.2.7"},
		{name: "cf header first", remote: "127.0.0.1:1", headers: map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "203.0.113.9"}, trustProxy: true, want: "198.51.100.1"},
		{name: "left-most forwarded for", remote: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": " 203.0.113.9, 10.0.0.1"}, trustProxy: true, want: "203.0.113.9"},
		{name: "real ip fallback", remote: "127.0.0.1:1", headers: map[string]string{"X-Real-IP": "203.0.113.10"}, trustProxy: true, want: "203.0.113.10"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.0.2.7 ", "2001:db8::/32", "garbage", ""})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.0.2.7", true},
		{"192.0.2.8", false},
		{"::ffff:10.0.0.1", true},
		{"2001:db8::42", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("empty list should give an empty matcher")
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		allowed []string
		remote  string
		want    int
	}{
		{name: "passthrough when empty", remote: "203.0.113.1:1", want: http.StatusOK},
		{name: "allowed", allowed: []string{"203.0.113.0/24"}, remote: "203.0.113.1:1", want: http.StatusOK},
		{name: "rejected", allowed: []string{"10.0.0.0/8"}, remote: "203.0.113.1:1", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, false, logger.Nop(), nil)(ok)
			r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			r.RemoteAddr = tt.remote
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
