package shell

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var linkPattern = regexp.MustCompile(`(?i)<a\s+href="([^"]+)"\s*>\s*([^<]+?)\s*</a>`)

// Segment is a run of output text. URL is set for links.
type Segment struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// IsLink reports whether the segment is a hyperlink
func (s Segment) IsLink() bool { return s.URL != "" }

// ParseLinks splits text into literal runs and anchors written as
// <a href="URL">TEXT</a>. Anything else is literal, including malformed
// anchors and anchors whose URL is not http, https or mailto.
func ParseLinks(text string) []Segment {
	var segments []Segment
	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		href := text[m[2]:m[3]]
		if !SafeURL(href) {
			continue
		}
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{
			Text: text[m[4]:m[5]],
			URL:  href,
		})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// SafeURL reports whether href may be rendered as a live link: an absolute
// http or https URL with a host, or a mailto address.
func SafeURL(href string) bool {
	if strings.IndexFunc(href, isControl) >= 0 {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto":
		return u.Opaque != ""
	default:
		return false
	}
}

// RenderHTML escapes text and turns anchors into links that open in a new tab
func RenderHTML(text string) string {
	var b strings.Builder
	for _, seg := range ParseLinks(text) {
		if !seg.IsLink() {
			b.WriteString(html.EscapeString(seg.Text))
			continue
		}
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(seg.URL))
		b.WriteString(`" target="_blank" rel="noopener noreferrer">`)
		b.WriteString(html.EscapeString(seg.Text))
		b.WriteString("</a>")
	}
	return b.String()
}

// RenderANSI turns anchors into OSC 8 terminal hyperlinks. Control
// characters other than newline and tab are dropped so output cannot carry
// its own escape sequences.
func RenderANSI(text string) string {
	var b strings.Builder
	for _, seg := range ParseLinks(text) {
		if !seg.IsLink() {
			b.WriteString(stripControl(seg.Text, "\n\t"))
			continue
		}
		b.WriteString("\x1b]8;;" + seg.URL + "\x1b\\")
		b.WriteString(stripControl(seg.Text, ""))
		b.WriteString("\x1b]8;;\x1b\\")
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f)
}

// stripControl removes control characters except those listed in keep
func stripControl(s, keep string) string {
	return strings.Map(func(r rune) rune {
		if isControl(r) && !strings.ContainsRune(keep, r) {
			return -1
		}
		return r
	}, s)
}
