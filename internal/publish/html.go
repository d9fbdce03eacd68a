package publish

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in item names is escaped: html.WithUnsafe is never set.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 2rem auto; padding: 0 1rem; }
ul { list-style: none; padding-left: 0; }
li { padding: .25rem 0; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: .25rem; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML converts list markdown into a standalone printable page. GFM task items
// become disabled checkboxes.
func RenderHTML(md, title, lang string) (string, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(strings.TrimSpace(md)), &body); err != nil {
		return "", err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Shopping list"
	}
	if lang == "" {
		lang = "en"
	}

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Lang  string
		Title string
		// goldmark output is trusted only because raw HTML is disabled above.
		Body template.HTML
	}{lang, title, template.HTML(body.String())})
	if err != nil {
		return "", err
	}
	return page.String(), nil
}
