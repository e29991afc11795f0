package report

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/sasangkyoo/slap/models"
)

// mdConverter is a reusable, goroutine-safe converter:
//
//   - base plugin: strips script, style, head, meta and other markup that
//     is noise in a text report.
//   - commonmark plugin: standard Markdown rendering.
//   - table plugin: keeps any tabular evidence readable, with minimal cell
//     padding to keep the output compact.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(
			table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
		),
	),
)

// RenderMarkdown renders the result report as Markdown, for terminals and
// LLM pipelines. It converts the HTML rendering rather than maintaining a
// second template.
func RenderMarkdown(resp *models.InspectResponse) (string, error) {
	htmlReport, err := RenderHTML(resp)
	if err != nil {
		return "", err
	}
	return mdConverter.ConvertString(string(htmlReport))
}
