// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/playground-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts as JSON. The message list uses the same
// role/content shape the chat endpoint takes as history.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonDocument struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Model     string          `json:"model,omitempty"`
	AgentType string          `json:"agent_type,omitempty"`
	User      string          `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Exported  time.Time       `json:"exported_at"`
	Messages  []model.Message `json:"messages"`
}

// Export converts a document to indented JSON.
func (e *JSONExporter) Export(doc Document) ([]byte, error) {
	if doc.Transcript == nil || doc.Transcript.Len() == 0 {
		return nil, ErrEmpty
	}
	return json.MarshalIndent(jsonDocument{
		ID:        doc.Transcript.ID,
		Title:     doc.Title(),
		Model:     doc.Model,
		AgentType: doc.AgentType,
		User:      doc.Username,
		CreatedAt: doc.Transcript.CreatedAt,
		Exported:  e.options.now(),
		Messages:  doc.Transcript.Messages(),
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
