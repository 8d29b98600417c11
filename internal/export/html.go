package export

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in item names is escaped: html.WithUnsafe is not set.
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
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTMLPage converts a markdown page into a standalone HTML document.
func RenderHTMLPage(title, md string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &body); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		// goldmark output is trusted because raw HTML passthrough is off.
		Body template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
