package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arthur-debert/hangar/pkg/types"
)

// modRecord is the JSON shape of one listed mod. The manifest struct keeps
// its engine-populated fields out of serialization, so the listing builds
// its own records.
type modRecord struct {
	FolderName  string `json:"folder_name"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Creator     string `json:"creator"`
	Version     string `json:"version"`
	Enabled     bool   `json:"enabled"`
	TimeMod     string `json:"time_mod"`
}

// RenderModList renders the mod listing in the given format. FormatAuto
// must be resolved by the caller first.
func RenderModList(mods []types.Mod, format Format) (string, error) {
	if format == FormatJSON {
		records := make([]modRecord, 0, len(mods))
		for _, m := range mods {
			records = append(records, modRecord{
				FolderName:  m.FolderName,
				Title:       m.Title,
				ContentType: m.ContentType,
				Creator:     m.Creator,
				Version:     m.Version,
				Enabled:     m.Enabled,
				TimeMod:     m.TimeMod,
			})
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if len(mods) == 0 {
		return "no mods installed", nil
	}

	var b strings.Builder
	for _, m := range mods {
		b.WriteString(renderModLine(m, format))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func renderModLine(m types.Mod, format Format) string {
	title := m.Title
	if title == "" {
		title = m.FolderName
	}

	if format != FormatTerminal {
		state := "disabled"
		if m.Enabled {
			state = "enabled"
		}
		return fmt.Sprintf("%-8s  %-40s  %-12s  %s", state, title, m.Version, m.FolderName)
	}

	indicator := DisabledIndicator
	styledTitle := MutedStyle.Render(title)
	if m.Enabled {
		indicator = EnabledIndicator
		styledTitle = TitleStyle.Render(title)
	}

	line := fmt.Sprintf("%s %s", indicator, styledTitle)
	if m.Version != "" {
		line += " " + VersionStyle.Render(m.Version)
	}
	if m.FolderName != title {
		line += " " + MutedStyle.Render("("+m.FolderName+")")
	}
	return line
}

// RenderStatus renders one operation outcome line.
func RenderStatus(status Status, message string, format Format) string {
	if format != FormatTerminal {
		return message
	}
	return StatusStyle(status).Sprint(prefixFor(status)) + " " + message
}

func prefixFor(status Status) string {
	switch status {
	case StatusSuccess:
		return "✓"
	case StatusError:
		return "✗"
	case StatusWarning:
		return "!"
	default:
		return "•"
	}
}

// RenderErrors renders collected per-mod failures as one block, or an empty
// string when there are none.
func RenderErrors(errs []error, format Format) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, err := range errs {
		b.WriteString(RenderStatus(StatusError, err.Error(), format))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
