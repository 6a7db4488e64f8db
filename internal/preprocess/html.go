package preprocess

import (
	stdhtml "html"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	markupHint = regexp.MustCompile(`(?i)<(?:html|body|div|p|br|table|span|font|td)[\s/>]`)
	anyTag     = regexp.MustCompile(`(?s)<[^>]*>`)
	scriptish  = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
)

// LooksLikeHTML reports whether the body carries markup worth converting
func LooksLikeHTML(body string) bool {
	return markupHint.MatchString(body)
}

// HTMLToText converts markup to plain text. Script and style elements and
// 1x1 tracking images are dropped. Parse failures fall back to tag stripping.
func HTMLToText(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return StripTags(body)
	}
	var b strings.Builder
	walk(&b, doc)
	return b.String()
}

// StripTags removes markup with regular expressions
func StripTags(body string) string {
	text := scriptish.ReplaceAllString(body, " ")
	text = anyTag.ReplaceAllString(text, " ")
	return stdhtml.UnescapeString(text)
}

func walk(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Head:
			return
		case atom.Img:
			if isTrackingPixel(n) {
				return
			}
		case atom.Br:
			b.WriteString("\n")
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}

	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		b.WriteString("\n")
	}
}

func isTrackingPixel(n *html.Node) bool {
	var width, height string
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "width":
			width = strings.TrimSuffix(strings.TrimSpace(a.Val), "px")
		case "height":
			height = strings.TrimSuffix(strings.TrimSpace(a.Val), "px")
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "width:1px") && strings.Contains(style, "height:1px") {
				return true
			}
		}
	}
	return (width == "1" || width == "0") && (height == "1" || height == "0")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Tr, atom.Li, atom.Table, atom.Blockquote,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Hr, atom.Pre:
		return true
	}
	return false
}
