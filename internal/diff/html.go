package diff

import (
	"html"
	"strings"
)

const (
	removedStyle = "background: #ff0000; color: #fff;"
	addedStyle   = "background: #00b300; color: #fff;"
)

// HTML returns both sides of Compute(a, b) as escaped HTML, with changed
// runs underlined in red on the submitted side and green on the expected
// side.
func HTML(a, b string) (string, string) {
	d := Compute(a, b)
	return renderHTML(d.A, removedStyle), renderHTML(d.B, addedStyle)
}

func renderHTML(spans []Span, style string) string {
	var b strings.Builder
	for _, s := range spans {
		text := html.EscapeString(s.Text)
		if !s.Changed {
			b.WriteString(text)
			continue
		}
		b.WriteString("<u style='")
		b.WriteString(style)
		b.WriteString("'>")
		b.WriteString(text)
		b.WriteString("</u>")
	}
	return b.String()
}
