package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Instruction text comes from the catalog, so raw HTML is let through
// goldmark and stripped afterwards by the UGC policy.
var (
	stepsMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	stepsPolicy = bluemonday.UGCPolicy()
)

// lineBreaks folds the stray line breaks a single step can contain.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// RenderSteps renders numbered steps ("1. Boil water.") as a sanitized
// ordered list. Inline markdown inside a step is honored.
func RenderSteps(numbered []string) string {
	if len(numbered) == 0 {
		return ""
	}

	var src strings.Builder
	for _, step := range numbered {
		src.WriteString(strings.TrimSpace(lineBreaks.Replace(step)))
		src.WriteByte('\n')
	}

	var out bytes.Buffer
	if err := stepsMarkdown.Convert([]byte(src.String()), &out); err != nil {
		return stepsPolicy.Sanitize(src.String())
	}
	return stepsPolicy.Sanitize(out.String())
}
