package render

import "testing"

func TestPNGProducesValidHeader(t *testing.T) {
	snap := map[string]any{
		"id":    "game1",
		"state": 1,
		"entities": []map[string]any{
			{
				"id":       "e1",
				"position": map[string]int{"q": 0, "r": 0},
				"hp":       80,
				"max_hp":   100,
				"tint":     0xFF8800,
				"size":     12,
				"name":     "fortress",
			},
		},
		"resources": map[string]float64{"Food": 100},
	}

	data, err := PNG(snap, DefaultConfig())
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if len(data) < 8 {
		t.Fatalf("expected a non-trivial PNG payload, got %d bytes", len(data))
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	for i, b := range pngMagic {
		if data[i] != b {
			t.Fatalf("byte %d: expected PNG magic %x, got %x", i, b, data[i])
		}
	}
}

func TestPNGEmptySnapshot(t *testing.T) {
	snap := map[string]any{"id": "empty", "entities": []map[string]any{}}
	if _, err := PNG(snap, Config{Width: 200, Height: 200, Labels: false}); err != nil {
		t.Fatalf("PNG on empty snapshot: %v", err)
	}
}
