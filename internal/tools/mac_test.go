package tools

import "testing"

func TestNormalizeMac(t *testing.T) {
	tests := map[string]string{
		"E8E07EA60C6F":      "e8:e0:7e:a6:0c:6f",
		"e8-e0-7e-a6-0c-6f": "e8:e0:7e:a6:0c:6f",
		"e8:e0:7e:a6:0c:6f": "e8:e0:7e:a6:0c:6f",
		"e8e0.7ea6.0c6f":    "e8:e0:7e:a6:0c:6f",
		" Not-A-Mac ":       "not-a-mac",
		"e8:e0:7e":          "e8:e0:7e",
		"":                  "",
	}
	for in, want := range tests {
		if got := NormalizeMac(in); got != want {
			t.Errorf("NormalizeMac(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSameMac(t *testing.T) {
	if !SameMac("02:00:00:00:00:0A", "02-00-00-00-00-0a") {
		t.Error("same address in two notations")
	}
	if SameMac("", "") || SameMac("02:00:00:00:00:0a", "02:00:00:00:00:0b") {
		t.Error("different or empty addresses")
	}
}
