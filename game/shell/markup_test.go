package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{"plain", "just text", []Segment{{Text: "just text"}}},
		{"empty", "", nil},
		{
			"single link",
			`GitHub: <a href="https://github.com/keuhdall">keuhdall</a>!`,
			[]Segment{
				{Text: "GitHub: "},
				{Text: "keuhdall", URL: "https://github.com/keuhdall"},
				{Text: "!"},
			},
		},
		{
			"padding and case",
			`<A HREF="mailto:a@b.c" > a@b.c </A>`,
			[]Segment{{Text: "a@b.c", URL: "mailto:a@b.c"}},
		},
		{
			"two links",
			`<a href="https://one.dev">one</a> and <a href="http://two.dev/x">two</a>`,
			[]Segment{
				{Text: "one", URL: "https://one.dev"},
				{Text: " and "},
				{Text: "two", URL: "http://two.dev/x"},
			},
		},
		{
			"script url stays literal",
			`go <a href="javascript:alert(1)">here</a>`,
			[]Segment{{Text: `go <a href="javascript:alert(1)">here</a>`}},
		},
		{
			"relative url stays literal",
			`<a href="/api/sessions">x</a>`,
			[]Segment{{Text: `<a href="/api/sessions">x</a>`}},
		},
		{"malformed stays literal", `<a href=nope>x</a>`, []Segment{{Text: `<a href=nope>x</a>`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLinks(tt.text))
		})
	}
}

func TestRenderHTML(t *testing.T) {
	got := RenderHTML(`1 < 2 & <a href="https://x.dev/?a=1&b=2">site</a> <b>bold</b>`)

	assert.Equal(t,
		`1 &lt; 2 &amp; <a href="https://x.dev/?a=1&amp;b=2" target="_blank" rel="noopener noreferrer">site</a> &lt;b&gt;bold&lt;/b&gt;`,
		got)
}

func TestRenderHTML_UnsafeSchemes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"javascript",
			`<a href="javascript:alert(document.cookie)">click</a>`,
			`&lt;a href=&#34;javascript:alert(document.cookie)&#34;&gt;click&lt;/a&gt;`,
		},
		{
			"mixed case javascript",
			`<a href="JaVaScRiPt:alert(1)">x</a>`,
			`&lt;a href=&#34;JaVaScRiPt:alert(1)&#34;&gt;x&lt;/a&gt;`,
		},
		{
			"data",
			`<a href="data:text/html,hi">x</a>`,
			`&lt;a href=&#34;data:text/html,hi&#34;&gt;x&lt;/a&gt;`,
		},
		{
			"mailto allowed",
			`<a href="mailto:me@x.dev">mail</a>`,
			`<a href="mailto:me@x.dev" target="_blank" rel="noopener noreferrer">mail</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderHTML(tt.text))
		})
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"https://github.com/keuhdall", true},
		{"HTTP://x.dev", true},
		{"mailto:a@b.c", true},
		{"javascript:alert(1)", false},
		{"vbscript:msgbox", false},
		{"https://", false},
		{"mailto:", false},
		{"//x.dev/path", false},
		{"https://x.dev/\x1b]0;title", false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeURL(tt.href))
		})
	}
}

func TestRenderANSI(t *testing.T) {
	got := RenderANSI(`see <a href="https://x.dev">x.dev</a>`)

	assert.Equal(t, "see \x1b]8;;https://x.dev\x1b\\x.dev\x1b]8;;\x1b\\", got)
}

func TestRenderANSI_StripsControlCharacters(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		got := RenderANSI("a\x1b[2Jb\x07c\nd\te\u009bf")
		assert.Equal(t, "a[2Jbc\nd\tef", got)
	})

	t.Run("link text", func(t *testing.T) {
		got := RenderANSI("<a href=\"https://x.dev\">x\x1b]0;pwn\x07y</a>")
		assert.Equal(t, "\x1b]8;;https://x.dev\x1b\\x]0;pwny\x1b]8;;\x1b\\", got)
	})

	t.Run("url with escape stays literal and stripped", func(t *testing.T) {
		got := RenderANSI("<a href=\"https://x.dev/\x1b]0;t\">x</a>")
		assert.Equal(t, `<a href="https://x.dev/]0;t">x</a>`, got)
	})
}
