package transport

import "testing"

func TestIsAllowedOrigin(t *testing.T) {
	cases := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://127.0.0.1:8080", true},
		{"https://evil.example.com", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isAllowedOrigin(c.origin); got != c.want {
			t.Errorf("isAllowedOrigin(%q) = %v, want %v", c.origin, got, c.want)
		}
	}
}

func TestConnSendDropsOnFullBuffer(t *testing.T) {
	c := &conn{send: make(chan map[string]any, 1)}

	if err := c.Send(map[string]any{"n": 1}); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := c.Send(map[string]any{"n": 2}); err != errFullBuffer {
		t.Fatalf("second send: got %v, want errFullBuffer", err)
	}
}
