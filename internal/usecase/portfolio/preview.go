package portfolio

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// PreviewLength is the rune budget of the analysis excerpt on the summary view
const PreviewLength = 120

var markdown = goldmark.New()

// Preview returns the first paragraph of a markdown narrative as plain text,
// truncated to limit runes with a trailing ellipsis
func Preview(narrative string, limit int) string {
	source := []byte(narrative)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			// Stop after the first block that produced text
			if !entering && strings.TrimSpace(b.String()) != "" {
				return ast.WalkStop, nil
			}
		case ast.KindHeading:
			// Headings are titles, not narrative
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			if entering {
				t := n.(*ast.Text)
				b.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case ast.KindString:
			if entering {
				b.Write(n.(*ast.String).Value)
			}
		}
		return ast.WalkContinue, nil
	})

	excerpt := strings.Join(strings.Fields(b.String()), " ")
	if excerpt == "" {
		excerpt = strings.Join(strings.Fields(narrative), " ")
	}

	return truncate(excerpt, limit)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
