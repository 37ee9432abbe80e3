// Package render turns markdown documents into HTML for export and into
// styled text for terminal previews.
package render

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var policy = bluemonday.UGCPolicy()

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
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

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Fragment converts markdown to sanitised HTML without a page around it.
func Fragment(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(normalize(src)), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return string(policy.SanitizeBytes(buf.Bytes())), nil
}

// HTML renders src as a standalone HTML document. An empty title falls back
// to the first heading of src.
func HTML(src, title string) (string, error) {
	body, err := Fragment(src)
	if err != nil {
		return "", err
	}
	if title == "" {
		title = Title(src)
	}
	var out strings.Builder
	err = page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body)})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Title returns the text of the first ATX heading in src, or "".
func Title(src string) string {
	sc := bufio.NewScanner(strings.NewReader(normalize(src)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#") {
			continue
		}
		text := strings.TrimLeft(line, "#")
		if text == "" || text[0] == ' ' {
			return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), "#"))
		}
	}
	return ""
}

// Terminal renders src with glamour using the named style and word wrap
// width.
func Terminal(src, style string, width int) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(normalize(src))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
