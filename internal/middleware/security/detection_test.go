package security

import (
	"net/http/httptest"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name       string
		target     string
		userAgent  string
		suspicious bool
	}{
		{"normal api call", "/api/leads?page=2", "Mozilla/5.0", false},
		{"curl is fine", "/api/billing/ledger", "curl/8.4.0", false},
		{"path traversal", "/api/../etc/passwd", "Mozilla/5.0", true},
		{"wordpress probe", "/wp-admin/setup.php", "Mozilla/5.0", true},
		{"sqli in query", "/api/leads?q=union+select+1", "Mozilla/5.0", true},
		{"scanner agent", "/api/leads", "sqlmap/1.7", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			r.Header.Set("User-Agent", tt.userAgent)
			if got := d.DetectSuspiciousRequest(r); got != tt.suspicious {
				t.Errorf("DetectSuspiciousRequest() = %v, want %v", got, tt.suspicious)
			}
		})
	}
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()

	// Direct connection from an untrusted peer: forwarded headers are
	// ignored.
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:4444"
	r.Header.Set("X-Forwarded-For", "198.51.100.7")
	if got := d.ExtractClientIP(r); got != "203.0.113.9" {
		t.Errorf("untrusted peer IP = %q, want 203.0.113.9", got)
	}

	// Trusted proxy: the first forwarded hop wins.
	r = httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:4444"
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.5")
	if got := d.ExtractClientIP(r); got != "198.51.100.7" {
		t.Errorf("forwarded IP = %q, want 198.51.100.7", got)
	}

	// X-Real-IP as a fallback behind nginx.
	r = httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:4444"
	r.Header.Set("X-Real-IP", "198.51.100.9")
	if got := d.ExtractClientIP(r); got != "198.51.100.9" {
		t.Errorf("real-ip = %q, want 198.51.100.9", got)
	}
}
