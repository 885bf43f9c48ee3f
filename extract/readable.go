package extract

import (
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	readability "github.com/go-shiori/go-readability"

	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

// minReadableLength is the minimum extracted text length for readability
// output to count as the article body; below it the algorithm most likely
// latched onto navigation or a cookie banner.
const minReadableLength = 50

// mdConverter is goroutine-safe and shared across extractions. The base
// plugin strips script/style/head noise, commonmark renders standard
// Markdown, and the table plugin keeps tabular data intact with minimal
// cell padding.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(
			table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
		),
	),
)

// readableContent runs the Readability algorithm over the rendered page
// and converts the recovered article body to Markdown. Returns "" when no
// plausible body exists; the article's metadata fields never depend on it.
func readableContent(s *render.Snapshot) string {
	art, err := readability.FromReader(strings.NewReader(s.HTML()), s.URL())
	if err != nil {
		slog.Debug("readability failed", "url", s.URL().String(), "error", err)
		return ""
	}
	if len(strings.TrimSpace(art.TextContent)) < minReadableLength {
		return ""
	}

	md, err := mdConverter.ConvertString(art.Content, converter.WithDomain(s.URL().Host))
	if err != nil {
		slog.Debug("markdown conversion failed", "url", s.URL().String(), "error", err)
		return ""
	}
	return strings.TrimSpace(md)
}
