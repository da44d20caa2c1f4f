// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/playground-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown with YAML frontmatter.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

type frontmatter struct {
	Title     string `yaml:"title"`
	Model     string `yaml:"model,omitempty"`
	AgentType string `yaml:"agent_type,omitempty"`
	User      string `yaml:"user,omitempty"`
	Date      string `yaml:"date"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a document to Markdown.
func (e *MarkdownExporter) Export(doc Document) ([]byte, error) {
	if doc.Transcript == nil || doc.Transcript.Len() == 0 {
		return nil, ErrEmpty
	}
	msgs := doc.Transcript.Messages()
	title := doc.Title()

	var sb strings.Builder

	if e.options.IncludeMetadata {
		fm, err := yaml.Marshal(frontmatter{
			Title:     title,
			Model:     doc.Model,
			AgentType: doc.AgentType,
			User:      doc.Username,
			Date:      doc.Transcript.CreatedAt.Format(time.RFC3339),
			Messages:  len(msgs),
			Exported:  e.options.now().Format(time.RFC3339),
			Generator: "playground-tui",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(fm)
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title)))

	if e.options.IncludeMetadata {
		if doc.Model != "" {
			sb.WriteString(fmt.Sprintf("- **Model**: %s\n", doc.Model))
		}
		if doc.AgentType != "" {
			sb.WriteString(fmt.Sprintf("- **Agent**: %s\n", doc.AgentType))
		}
		sb.WriteString(fmt.Sprintf("- **Started**: %s\n", formatTimestamp(doc.Transcript.CreatedAt)))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n\n---\n\n", len(msgs)))
	}

	for i, msg := range msgs {
		label := roleLabel(msg.Role)
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		// Content is already markdown.
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if i < len(msgs)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n---\n\n*Exported from playground on %s*\n",
		e.options.now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func roleLabel(r model.Role) string {
	switch r {
	case model.RoleUser:
		return "User"
	case model.RoleAssistant:
		return "Assistant"
	case model.RoleSystem:
		return "System"
	default:
		return "Unknown"
	}
}

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("#", "\\#", "*", "\\*", "_", "\\_", "[", "\\[", "]", "\\]")
	return r.Replace(s)
}
