package host

import "strings"

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// MarkupString serializes a subtree to markup text. Text data is escaped,
// Raw nodes are not, anchors serialize to comments.
func MarkupString(n Node) string {
	var b strings.Builder
	writeMarkup(&b, n)
	return b.String()
}

// MarkupAll serializes an ordered node slice.
func MarkupAll(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeMarkup(&b, n)
	}
	return b.String()
}

func writeMarkup(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Element:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			if a.Value != "" {
				b.WriteString(`="`)
				b.WriteString(escapeAttr(a.Value))
				b.WriteByte('"')
			}
		}
		b.WriteByte('>')
		if voidTags[n.Tag] && n.NS == NamespaceHTML {
			return
		}
		for _, c := range n.children {
			writeMarkup(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	case *Text:
		b.WriteString(escapeText(n.Data))
	case *Anchor:
		b.WriteString("<!--")
		b.WriteString(n.Label)
		b.WriteString("-->")
	case *Raw:
		b.WriteString(n.Markup)
	}
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
