package style

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsYellowWhiteOnBlack,
	}
	style.Color.Row = text.Colors{text.FgHiYellow, text.BgHiBlack}
	style.Color.RowAlternate = text.Colors{text.FgYellow, text.BgBlack}
	return &style
}

// NewPlainTableStyle is used when the output is not a terminal
func NewPlainTableStyle() *table.Style {
	style := table.StyleRounded
	style.Color = table.ColorOptions{}
	return &style
}

// NewTableWriter returns a table writer rendering to out with the given header.
func NewTableWriter(out io.Writer, colored bool, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	if colored {
		t.SetStyle(*NewDefaultTableStyle())
	} else {
		t.SetStyle(*NewPlainTableStyle())
	}

	t.AppendHeader(header)
	return t
}
