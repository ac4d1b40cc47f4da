package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatexToUnicode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Schr\"{o}dinger`, "Schrödinger"},
		{`G\"odel`, "Gödel"},
		{`\'e t\'e`, "é té"},
		{`\c{c}a`, "ça"},
		{`\v c`, "č"},
		{`Stra{\ss}e`, "Straße"},
		{`\ss{}e`, "ße"},
		{`A \& B`, "A & B"},
		{`50\%`, "50%"},
		{`pages 1--7`, "pages 1–7"},
		{`yes---no`, "yes—no"},
		{`\emph{Title}`, "Title"},
		{`a~b`, "a b"},
		{`trailing\`, `trailing\`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(t, Dependencies{}, "LatexToUnicode", "", tt.in))
		})
	}
}

func TestRemoveLatexCommands(t *testing.T) {
	assert.Equal(t, "Bold & more", apply(t, Dependencies{}, "RemoveLatexCommands", "", `\textbf{Bold} \& more`))
	assert.Equal(t, "plain", apply(t, Dependencies{}, "RemoveLatexCommands", "", "plain"))
}

func TestEscapingFormatters(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"HTMLChars", `\textbf{Schr\"{o}dinger} & Co`, "<b>Schr&#246;dinger</b> &amp; Co"},
		{"HTMLChars", `\emph{a \textit{b}} <c>`, "<em>a <i>b</i></em> &lt;c&gt;"},
		{"HTMLChars", `line\\break`, "line<br>break"},
		{"RTFChars", `\textit{Caf\'e}`, `{\i Caf\u233?}`},
		{"RTFChars", `{braces}`, "braces"},
		{"XMLChars", `Tom & "Jerry"`, "Tom &amp; &quot;Jerry&quot;"},
		{"XMLChars", `\"a`, "&#228;"},
		{"ReplaceWithEscapedDoubleQuotes", `say "hi"`, `say ""hi""`},
		{"HTMLParagraphs", "one\n\n  two  \n\n", "<p>\none\n</p>\n<p>\ntwo\n</p>"},
		{"HTMLParagraphs", "  ", ""},
		{"UnicodeToLatex", "Müller – ß", `M{\"u}ller {\textendash} {\ss}`},
		{"UnicodeToLatexFormatter", "Façade Ångström", `Fa{\c c}ade {\AA}ngstr{\"o}m`},
		{"UnicodeToLatex", "plain & ascii", "plain & ascii"},
		{"OOPreFormatter", `\textit{{\"U}ber} \textbf{x} \textsc{y}`, "<i>Über</i> <b>x</b> <smallcaps>y</smallcaps>"},
		{"OOPreFormatter", `\emph{a} \sout{b}\textsubscript{2}`, "<i>a</i> <s>b</s><sub>2</sub>"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(t, Dependencies{}, tt.name, "", tt.in))
		})
	}
}

func TestCaseFormatters(t *testing.T) {
	assert.Equal(t, "HELLO WORLD", apply(t, Dependencies{}, "ToUpperCase", "", "hello world"))
	assert.Equal(t, "hello world", apply(t, Dependencies{}, "ToLowerCase", "", "Hello World"))
	assert.Equal(t, "Hello World", apply(t, Dependencies{}, "TitleCase", "", "hello world"))
	assert.Equal(t, "Über", apply(t, Dependencies{}, "TitleCase", "", "über"))
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "<p><strong>bold</strong></p>", apply(t, Dependencies{}, "Markdown", "", "**bold**"))
	assert.Equal(t, "", apply(t, Dependencies{}, "Markdown", "", "   "))

	out := apply(t, Dependencies{}, "Markdown", "", "hello <script>alert(1)</script>")
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "<script")
}

func TestHtmlToLatex(t *testing.T) {
	assert.Equal(t, "\\textbf{Bold} \\& \\emph{it}\nx",
		apply(t, Dependencies{}, "HtmlToLatex", "", "<b>Bold</b> &amp; <I>it</I><br/>x"))
	assert.Equal(t, `H\textsubscript{2}O 10\%`,
		apply(t, Dependencies{}, "HTMLToLatexFormatter", "", `<span class="f">H<sub>2</sub>O</span> 10%`))
	assert.Equal(t, "first\n\nsecond",
		apply(t, Dependencies{}, "HtmlToLatex", "", "<p>first</p><p>second</p>"))
}

func TestCleanupFormatters(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"RemoveBrackets", "{A}{B}", "AB"},
		{"RemoveBracketsAddComma", "{A}{B}", "A,B,"},
		{"RemoveTilde", `a~b\~c`, `a b\~c`},
		{"RemoveWhitespace", "a b\tc\n", "abc"},
		{"NoSpaceBetweenAbbreviations", "A. B. C. Smith", "A.B.C. Smith"},
		{"NoSpaceBetweenAbbreviations", "Smith, J. R.", "Smith, J.R."},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(t, Dependencies{}, tt.name, "", tt.in))
		})
	}
}
