package format

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"content-cli/internal/model"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// maxNameWidth caps the NAME column in display cells.
const maxNameWidth = 40

// ItemList renders items as a table, one row per item.
type ItemList []model.Item

func (l ItemList) Text() string {
	if len(l) == 0 {
		return "No items."
	}
	rows := make([][]string, 0, len(l))
	for _, it := range l {
		rows = append(rows, []string{it.ID, ansi.Truncate(it.Name, maxNameWidth, "…"), string(it.Type), stageCell(it), detailCell(it), it.LastUpdated.Format("2006-01-02 15:04")})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "TYPE", "STAGE", "DETAIL", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func stageCell(it model.Item) string {
	if it.IsFolder() {
		return "-"
	}
	return string(it.Stage)
}

func detailCell(it model.Item) string {
	switch it.Type {
	case model.ItemTypeWorkflow:
		s := strconv.Itoa(it.ScreenCount) + " screens"
		if it.HasFlow {
			s += ", flow"
		}
		return s
	case model.ItemTypeSimulation:
		return strconv.Itoa(it.WorkflowCount) + " workflows"
	default:
		return ""
	}
}

// Breadcrumbs renders a path as "Content / Docs / API".
type Breadcrumbs []model.Crumb

func (b Breadcrumbs) Text() string {
	names := make([]string, 0, len(b))
	for _, c := range b {
		names = append(names, c.Name)
	}
	return strings.Join(names, " / ")
}
