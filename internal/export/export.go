// Package export serializes the full dashboard state into a transferable
// JSON document. The document mirrors the live data model field for field;
// nothing is dropped or renamed on the way out.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mkarlin/agenttop/internal/event"
	"github.com/mkarlin/agenttop/internal/metrics"
	"github.com/mkarlin/agenttop/internal/store"
)

// Document is the export payload: a timestamp, the full unfiltered event
// sequences (newest-first, as stored), and the last-computed stats.
type Document struct {
	ExportedAt time.Time        `json:"exported_at"`
	Messages   []event.Message  `json:"messages"`
	ToolCalls  []event.ToolCall `json:"tool_calls"`
	Stats      metrics.Stats    `json:"stats"`
}

// Build assembles a Document from a store snapshot and a stats value.
func Build(snap *store.Snapshot, stats metrics.Stats, now time.Time) Document {
	return Document{
		ExportedAt: now,
		Messages:   snap.Messages,
		ToolCalls:  snap.ToolCalls,
		Stats:      stats,
	}
}

// Write serializes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteFile writes doc to path, creating or truncating it. A failed write
// must not disturb the in-memory store; this function only touches the file.
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Filename returns the default export file name for the given time.
func Filename(now time.Time) string {
	return "agenttop-export-" + now.Format("20060102-150405") + ".json"
}
