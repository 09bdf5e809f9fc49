// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// htmlTable matches one <table> element. MinerU emits tables as inline
// HTML and never nests them.
var htmlTable = regexp.MustCompile(`(?is)<table\b.*?</table>`)

// RewriteTables replaces every HTML table in md with a Markdown pipe
// table and returns the number of tables rewritten. On error md is
// returned unchanged.
func RewriteTables(md string) (string, int, error) {
	locs := htmlTable.FindAllStringIndex(md, -1)
	if len(locs) == 0 {
		return md, 0, nil
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		out, err := conv.ConvertString(md[loc[0]:loc[1]])
		if err != nil {
			return md, 0, err
		}
		b.WriteString(md[prev:loc[0]])
		b.WriteString(strings.TrimSpace(out))
		prev = loc[1]
	}
	b.WriteString(md[prev:])
	return b.String(), len(locs), nil
}
