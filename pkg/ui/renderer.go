package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/rgpatch/pkg/types"
)

var (
	styleSucceeded = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleFailed    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleSkipped   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleTitle     = lipgloss.NewStyle().Bold(true)
)

// RenderBatch formats a batch result for the operator in the requested
// format.
func RenderBatch(batch *types.BatchResult, format Format) string {
	switch format {
	case FormatJSON:
		return renderBatchJSON(batch)
	case FormatTerminal:
		return renderBatchText(batch, true)
	default:
		return renderBatchText(batch, false)
	}
}

func renderBatchText(batch *types.BatchResult, styled bool) string {
	var b strings.Builder
	for _, pr := range batch.Patches {
		marker := statusMarker(pr.Status)
		title := pr.Patch.Title
		if title == "" {
			title = "(untitled)"
		}
		if styled {
			marker = statusStyle(pr.Status).Render(marker)
			title = styleTitle.Render(title)
		}
		fmt.Fprintf(&b, "%s %s\n", marker, title)

		// Failed and skipped patches carry their reason in the message;
		// without it the operator sees only a bare marker.
		if pr.Status != types.PatchSucceeded && pr.Message != "" {
			line := "  " + pr.Message
			if styled {
				line = statusStyle(pr.Status).Render(line)
			}
			b.WriteString(line + "\n")
		}

		for _, sr := range pr.Steps {
			line := fmt.Sprintf("  %-10s %s", sr.Status, sr.Label)
			if sr.Message != "" {
				line += " (" + sr.Message + ")"
			}
			if styled {
				line = stepStyle(sr.Status).Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func renderBatchJSON(batch *types.BatchResult) string {
	type stepOut struct {
		Kind    string `json:"kind"`
		Label   string `json:"label"`
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	}
	type patchOut struct {
		Title   string    `json:"title"`
		ID      string    `json:"id,omitempty"`
		Status  string    `json:"status"`
		Message string    `json:"message"`
		Steps   []stepOut `json:"steps,omitempty"`
	}
	out := struct {
		OK      bool       `json:"ok"`
		Patches []patchOut `json:"patches"`
	}{OK: batch.OK}

	for _, pr := range batch.Patches {
		po := patchOut{
			Title:   pr.Patch.Title,
			ID:      pr.Patch.ID,
			Status:  string(pr.Status),
			Message: pr.Message,
		}
		for _, sr := range pr.Steps {
			po.Steps = append(po.Steps, stepOut{
				Kind:    string(sr.Kind),
				Label:   sr.Label,
				Status:  string(sr.Status),
				Message: sr.Message,
			})
		}
		out.Patches = append(out.Patches, po)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"ok":%v}`, batch.OK)
	}
	return string(data) + "\n"
}

func statusMarker(status types.PatchStatus) string {
	switch status {
	case types.PatchSucceeded:
		return "✓"
	case types.PatchFailed:
		return "✗"
	default:
		return "-"
	}
}

func statusStyle(status types.PatchStatus) lipgloss.Style {
	switch status {
	case types.PatchSucceeded:
		return styleSucceeded
	case types.PatchFailed:
		return styleFailed
	default:
		return styleSkipped
	}
}

func stepStyle(status types.StepStatus) lipgloss.Style {
	switch status {
	case types.StepFailed:
		return styleFailed
	case types.StepSkipped:
		return styleSkipped
	default:
		return lipgloss.NewStyle()
	}
}
