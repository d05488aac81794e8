package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café", "cafe"},
		{"  la France ", "lafrance"},
		{"l'école", "lecole"},
		{"l’ecole", "lecole"},
		{"«Bonjour» !", "bonjour"},
		{"cœur", "cœur"},
		{"coeur", "cœur"},
		{"co eur", "cœur"},
		{"ỹ", "y"},
		{"a–b", "ab"},
		{"1+1=2", "112"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Café au lait", "O E", "o e o e", "İstanbul", "ﬁn", "Œuvre", "l’été – «déjà»",
		"  ", "ß", "Ⅻ", "œ e", "Ça va? Oui!",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Soeur l’aînée"); got != "Sœur l'aînée" {
		t.Errorf("Fold = %q", got)
	}
}

func TestStripPunct(t *testing.T) {
	if got := StripPunct("a, b. c!"); got != "abc" {
		t.Errorf("StripPunct = %q, want %q", got, "abc")
	}
}
