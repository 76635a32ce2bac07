package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aman-CERP/filetree/internal/output"
	"github.com/Aman-CERP/filetree/internal/tree"
)

// Structure output formats.
const (
	FormatTree = "tree"
	FormatJSON = "json"
)

// FormatStructure renders entries under a heading for pathType.
func FormatStructure(pathType string, entries []*tree.Entry) string {
	files, folders := tree.Count(entries)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Structure of %q\n\n", pathType))
	if len(entries) == 0 {
		sb.WriteString("No entries.\n")
		return sb.String()
	}
	sb.WriteString("```\n")
	sb.WriteString(output.RenderTree(entries, output.NoColorStyles()))
	sb.WriteString("```\n\n")
	sb.WriteString(output.Summary(files, folders))
	sb.WriteString("\n")
	return sb.String()
}

// formatStructureJSON encodes entries as the HTTP API does.
func formatStructureJSON(entries []*tree.Entry) (string, error) {
	if entries == nil {
		entries = []*tree.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
