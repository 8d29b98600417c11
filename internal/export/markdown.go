package export

import (
	"bytes"
	"fmt"
	"strings"

	"content-cli/internal/model"
	"content-cli/internal/store"
)

// RenderIndexMarkdown renders the tree under rootID (nil = everything) as a
// nested list linking to the item pages.
func RenderIndexMarkdown(db *store.DB, rootID *string) (string, error) {
	return renderIndex(db, rootID, ".md")
}

func renderIndex(db *store.DB, rootID *string, ext string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	title := model.RootCrumbName
	if rootID != nil {
		it, ok := db.FindItem(*rootID)
		if !ok {
			return "", store.NotFoundError{Kind: "item", ID: *rootID}
		}
		title = it.Name
	}

	var buf bytes.Buffer
	buf.WriteString("# " + title + "\n\n")
	nodes := db.Tree(rootID)
	if len(nodes) == 0 {
		buf.WriteString("_No items._\n")
	}
	for _, n := range nodes {
		renderIndexLine(&buf, n, 0, ext)
	}
	return buf.String(), nil
}

func renderIndexLine(buf *bytes.Buffer, n model.TreeNode, depth int, ext string) {
	prefix := strings.Repeat("  ", depth)
	meta := string(n.Type)
	if n.Type != model.ItemTypeFolder {
		meta += ", " + string(n.Stage)
	}
	fmt.Fprintf(buf, "%s- [%s](items/%s%s) (%s)\n", prefix, n.Name, n.ID, ext, meta)
	for _, ch := range n.Children {
		renderIndexLine(buf, ch, depth+1, ext)
	}
}

// RenderItemMarkdown renders one item page: breadcrumbs, fields, effective
// settings and children.
func RenderItemMarkdown(db *store.DB, itemID string) (string, error) {
	return renderItem(db, itemID, ".md")
}

func renderItem(db *store.DB, itemID string, ext string) (string, error) {
	it, ok := db.FindItem(strings.TrimSpace(itemID))
	if !ok {
		return "", store.NotFoundError{Kind: "item", ID: itemID}
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + it.Name)
	writeLn("")
	crumbs := db.AncestorPath(it.ID)
	names := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		names = append(names, c.Name)
	}
	writeLn("_" + strings.Join(names, " / ") + "_")
	writeLn("")

	writeLn("- Type: " + string(it.Type))
	if !it.IsFolder() {
		writeLn("- Stage: " + string(it.Stage))
	}
	writeLn("- Last updated: " + it.LastUpdated.UTC().Format("2006-01-02 15:04") + " by " + it.LastUpdatedBy)
	switch it.Type {
	case model.ItemTypeWorkflow:
		writeLn(fmt.Sprintf("- Screens: %d", it.ScreenCount))
		if it.HasFlow {
			writeLn("- Has flow")
		}
	case model.ItemTypeSimulation:
		writeLn(fmt.Sprintf("- Workflows: %d", it.WorkflowCount))
	}
	writeLn("")

	writeLn("## Settings")
	writeLn("")
	writeLn(settingLine(db, it.ID, "Playground mode", db.ResolvePlaygroundMode(&it.ID)))
	writeLn(settingLine(db, it.ID, "Assessment", db.ResolveHasAssessment(&it.ID)))

	if it.Type == model.ItemTypeSimulation && len(it.SelectedWorkflows) > 0 {
		writeLn("")
		writeLn("## Selected workflows")
		writeLn("")
		for _, id := range it.SelectedWorkflows {
			if wf, ok := db.FindItem(id); ok {
				writeLn(fmt.Sprintf("- [%s](%s%s)", wf.Name, wf.ID, ext))
			} else {
				writeLn("- " + id + " (missing)")
			}
		}
	}

	if kids := db.Children(it.ID); len(kids) > 0 {
		writeLn("")
		writeLn("## Contents")
		writeLn("")
		for _, ch := range kids {
			writeLn(fmt.Sprintf("- [%s](%s%s) (%s)", ch.Name, ch.ID, ext, ch.Type))
		}
	}
	return buf.String(), nil
}

func settingLine(db *store.DB, itemID, label string, eff store.Resolution) string {
	v := "off"
	if eff.Value {
		v = "on"
	}
	if eff.SourceID == "" || eff.SourceID == itemID {
		return "- " + label + ": " + v
	}
	from := eff.SourceID
	if src, ok := db.FindItem(eff.SourceID); ok {
		from = src.Name
	}
	return "- " + label + ": " + v + " (inherited from " + from + ")"
}
