package services

import "testing"

func TestPlantInitials(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Moringa oleifera", "MO"},
		{"  aloe   vera  ", "AV"},
		{"Moringa", "M"},
		{"", "?"},
		{"catharanthus roseus (L.) G.Don", "CR"},
	}
	for _, c := range cases {
		if got := plantInitials(c.in); got != c.want {
			t.Fatalf("plantInitials(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPickPlaceholderColor_StablePerFamily(t *testing.T) {
	a := pickPlaceholderColor("Fabaceae")
	b := pickPlaceholderColor("  fabaceae ")
	if a != b {
		t.Fatalf("expected case/space-insensitive color, got %v vs %v", a, b)
	}
}

func TestPickPlaceholderColor_InPalette(t *testing.T) {
	c := pickPlaceholderColor("Zingiberaceae")
	found := false
	for _, p := range placeholderPalette {
		if p == c {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("color %v not from palette", c)
	}
}
