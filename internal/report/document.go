// SPDX-License-Identifier: MPL-2.0

package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/codesubmit/codesubmit/internal/runtime"
)

type (
	// Batch is one engine run: the results of every discovered file under a
	// shared identifier.
	Batch struct {
		ID        uuid.UUID
		StartedAt time.Time
		Results   []runtime.FileResult
	}

	// Summary counts outcomes across a batch. Skipped files have no result.
	Summary struct {
		Total    int `json:"total" yaml:"total" toml:"total"`
		Executed int `json:"executed" yaml:"executed" toml:"executed"`
		Passed   int `json:"passed" yaml:"passed" toml:"passed"`
		Failed   int `json:"failed" yaml:"failed" toml:"failed"`
		TimedOut int `json:"timed_out" yaml:"timed_out" toml:"timed_out"`
		Skipped  int `json:"skipped" yaml:"skipped" toml:"skipped"`
	}

	// Document is the serializable form of a Batch.
	Document struct {
		BatchID   string      `json:"batch_id" yaml:"batch_id" toml:"batch_id"`
		StartedAt time.Time   `json:"started_at" yaml:"started_at" toml:"started_at"`
		Summary   Summary     `json:"summary" yaml:"summary" toml:"summary"`
		Files     []FileEntry `json:"files" yaml:"files" toml:"files"`
	}

	// FileEntry is one file of a Document. Result is nil when the file was
	// not executed.
	FileEntry struct {
		Path     string                `json:"path" yaml:"path" toml:"path"`
		Language string                `json:"language" yaml:"language" toml:"language"`
		Result   *runtime.ResultRecord `json:"result" yaml:"result" toml:"result,omitempty"`
	}
)

// NewBatch creates a Batch with a fresh random identifier.
func NewBatch(startedAt time.Time, results []runtime.FileResult) Batch {
	return Batch{ID: uuid.New(), StartedAt: startedAt, Results: results}
}

// Summary counts the batch outcomes. A timed-out file counts as both failed
// and timed out.
func (b Batch) Summary() Summary {
	s := Summary{Total: len(b.Results)}
	for _, fr := range b.Results {
		switch {
		case fr.Result == nil:
			s.Skipped++
			continue
		case fr.Result.Succeeded():
			s.Passed++
		default:
			s.Failed++
		}
		s.Executed++
		if fr.Result.TimedOut() {
			s.TimedOut++
		}
	}
	return s
}

// Failed reports whether any executed file did not exit with status 0.
func (b Batch) Failed() bool {
	for _, fr := range b.Results {
		if fr.Failed() {
			return true
		}
	}
	return false
}

// Document returns the serializable form of the batch.
func (b Batch) Document() Document {
	doc := Document{
		BatchID:   b.ID.String(),
		StartedAt: b.StartedAt.UTC(),
		Summary:   b.Summary(),
		Files:     make([]FileEntry, 0, len(b.Results)),
	}
	for _, fr := range b.Results {
		entry := FileEntry{Path: fr.File.RelPath, Language: fr.File.Language.String()}
		if fr.Result != nil {
			rec := fr.Result.Record()
			entry.Result = &rec
		}
		doc.Files = append(doc.Files, entry)
	}
	return doc
}
