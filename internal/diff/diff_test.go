package diff

import (
	"reflect"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		wantA []Span
		wantB []Span
	}{
		{
			name:  "identical",
			a:     "chat",
			b:     "chat",
			wantA: []Span{{Text: "chat"}},
			wantB: []Span{{Text: "chat"}},
		},
		{
			name:  "no common subsequence",
			a:     "four",
			b:     "4",
			wantA: []Span{{Text: "four", Changed: true}},
			wantB: []Span{{Text: "4", Changed: true}},
		},
		{
			name:  "replace in middle",
			a:     "le chien",
			b:     "le chat",
			wantA: []Span{{Text: "le ch"}, {Text: "ien", Changed: true}},
			wantB: []Span{{Text: "le ch"}, {Text: "at", Changed: true}},
		},
		{
			name:  "punctuation kept but ignored",
			a:     "bonjour",
			b:     "Bonjour !",
			wantA: []Span{{Text: "bonjour"}},
			wantB: []Span{{Text: "Bonjour !"}},
		},
		{
			name:  "insertion",
			a:     "chat",
			b:     "chats",
			wantA: []Span{{Text: "chat"}},
			wantB: []Span{{Text: "chat"}, {Text: "s", Changed: true}},
		},
		{
			name:  "deletion",
			a:     "chats",
			b:     "chat",
			wantA: []Span{{Text: "chat"}, {Text: "s", Changed: true}},
			wantB: []Span{{Text: "chat"}},
		},
		{
			name:  "empty submitted",
			a:     "",
			b:     "abc",
			wantA: nil,
			wantB: []Span{{Text: "abc", Changed: true}},
		},
		{
			name:  "both empty",
			a:     "",
			b:     "",
			wantA: nil,
			wantB: nil,
		},
		{
			name:  "only punctuation",
			a:     "?!",
			b:     "x",
			wantA: []Span{{Text: "?!"}},
			wantB: []Span{{Text: "x", Changed: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compute(tt.a, tt.b)
			if !reflect.DeepEqual(d.A, tt.wantA) {
				t.Errorf("A = %#v, want %#v", d.A, tt.wantA)
			}
			if !reflect.DeepEqual(d.B, tt.wantB) {
				t.Errorf("B = %#v, want %#v", d.B, tt.wantB)
			}
		})
	}
}

func TestComputePreservesText(t *testing.T) {
	pairs := [][2]string{
		{"l'école, c'est fini", "L’ecole est finie."},
		{"Où est-il ?", "ou est il"},
		{"«oui»", "non"},
	}
	for _, p := range pairs {
		d := Compute(p[0], p[1])
		id := func(s string) string { return s }
		if got := Render(d.A, id); got != p[0] {
			t.Errorf("rendered A = %q, want %q", got, p[0])
		}
		if got := Render(d.B, id); got != p[1] {
			t.Errorf("rendered B = %q, want %q", got, p[1])
		}
	}
}

func TestEqual(t *testing.T) {
	if !Compute("Paris!", "paris").Equal() {
		t.Error("Equal() = false for case/punctuation-only difference")
	}
	if Compute("Paris", "Pari").Equal() {
		t.Error("Equal() = true for differing strings")
	}
}

func TestHTML(t *testing.T) {
	a, b := HTML("four", "4")
	wantA := "<u style='background: #ff0000; color: #fff;'>four</u>"
	wantB := "<u style='background: #00b300; color: #fff;'>4</u>"
	if a != wantA {
		t.Errorf("a = %q, want %q", a, wantA)
	}
	if b != wantB {
		t.Errorf("b = %q, want %q", b, wantB)
	}

	a, _ = HTML("<b>", "<b>")
	if a != "&lt;b&gt;" {
		t.Errorf("escaped = %q", a)
	}
}
