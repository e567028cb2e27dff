package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	tableHeaderColorConstant   = "205"
	tableBorderColorConstant   = "240"
	tableCellVerticalPadding   = 0
	tableCellHorizontalPadding = 1
)

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(tableHeaderColorConstant)).
				Padding(tableCellVerticalPadding, tableCellHorizontalPadding)
	tableCellStyle = lipgloss.NewStyle().
			Padding(tableCellVerticalPadding, tableCellHorizontalPadding)
	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(tableBorderColorConstant))
)

// RenderTable draws a bordered table with a styled header row.
func RenderTable(headers []string, rows [][]string) string {
	renderedTable := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(rowIndex, columnIndex int) lipgloss.Style {
			if rowIndex == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return renderedTable.Render()
}
