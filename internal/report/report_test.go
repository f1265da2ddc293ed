// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/codesubmit/codesubmit/internal/discovery"
	"github.com/codesubmit/codesubmit/internal/runtime"
	"github.com/codesubmit/codesubmit/pkg/types"
)

var testBatchID = uuid.MustParse("0b4f8d6e-6c1e-4b7a-9a53-6a4c2f1e9d10")

func file(rel string, lang types.Language) discovery.SourceFile {
	return discovery.SourceFile{Path: "/work/" + rel, RelPath: rel, Language: lang}
}

func testBatch() Batch {
	ctx := runtime.ExecutionContext{WorkDir: "/work", User: "ada", Platform: "linux/amd64"}
	return Batch{
		ID:        testBatchID,
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Results: []runtime.FileResult{
			{
				File: file("hello.py", types.LanguagePython),
				Result: runtime.NewExecutionResult(runtime.ResultFields{
					Stdout: "hello\n", ExitCode: 0, Duration: 120 * time.Millisecond,
					Command: "python3 -u /work/hello.py", Context: ctx,
				}),
			},
			{
				File: file("src/Main.java", types.LanguageJava),
				Result: runtime.NewExecutionResult(runtime.ResultFields{
					Stderr: "Exception in thread \"main\"\n", ExitCode: 1, Duration: 500 * time.Millisecond,
					Command: "java /work/src/Main.java", Context: ctx,
				}),
			},
			{
				File: file("slow.rb", types.LanguageRuby),
				Result: runtime.NewExecutionResult(runtime.ResultFields{
					Stderr: runtime.TimeoutMessage, ExitCode: types.ExitCodeAbnormal, Duration: 10 * time.Second,
					Command: "ruby /work/slow.rb", Context: ctx, TimedOut: true,
				}),
			},
			{File: file("prog.c", types.LanguageC)},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "toml", want: FormatTOML},
		{in: "md", want: FormatMarkdown},
		{in: "markdown", want: FormatMarkdown},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownReportFormat) {
					t.Fatalf("ParseFormat(%q) error = %v, want ErrUnknownReportFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBatch_Summary(t *testing.T) {
	t.Parallel()

	b := testBatch()
	want := Summary{Total: 4, Executed: 3, Passed: 1, Failed: 2, TimedOut: 1, Skipped: 1}
	if got := b.Summary(); got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
	if !b.Failed() {
		t.Error("Failed() = false, want true")
	}

	passing := Batch{Results: b.Results[:1]}
	if passing.Failed() {
		t.Error("Failed() = true for a passing batch")
	}
	if (Batch{Results: b.Results[3:]}).Failed() {
		t.Error("Failed() = true for a batch with only skipped files")
	}
}

func TestNewBatch_UniqueIDs(t *testing.T) {
	t.Parallel()

	a := NewBatch(time.Now(), nil)
	b := NewBatch(time.Now(), nil)
	if a.ID == b.ID {
		t.Errorf("NewBatch() returned duplicate id %s", a.ID)
	}
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, testBatch(), Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var raw struct {
		BatchID string                       `json:"batch_id"`
		Files   []map[string]json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("json.Unmarshal() error = %v\n%s", err, buf.String())
	}
	if raw.BatchID != testBatchID.String() {
		t.Errorf("batch_id = %q, want %q", raw.BatchID, testBatchID)
	}
	if len(raw.Files) != 4 {
		t.Fatalf("len(files) = %d, want 4", len(raw.Files))
	}
	if got := string(raw.Files[3]["result"]); got != "null" {
		t.Errorf("skipped file result = %s, want null", got)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("json.Unmarshal(Document) error = %v", err)
	}
	got := doc.Files[2].Result
	if got == nil || !got.TimedOut || got.ExitCode != -1 || got.Duration != 10 {
		t.Errorf("timed out entry = %+v", got)
	}
	if doc.Files[1].Path != "src/Main.java" || doc.Files[1].Language != "Java" {
		t.Errorf("files[1] = %+v", doc.Files[1])
	}
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, testBatch(), Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	for _, key := range []string{"batch_id:", "exit_code:", "timed_out:", "cwd: /work"} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("YAML report missing %q:\n%s", key, buf.String())
		}
	}

	var doc Document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if doc.Summary.Failed != 2 || doc.Files[0].Result.Stdout != "hello\n" {
		t.Errorf("decoded YAML document = %+v", doc)
	}
}

func TestWrite_TOML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatTOML, testBatch(), Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var doc Document
	if err := toml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("toml.Unmarshal() error = %v\n%s", err, buf.String())
	}
	if len(doc.Files) != 4 {
		t.Fatalf("len(files) = %d, want 4", len(doc.Files))
	}
	if doc.Files[3].Result != nil {
		t.Errorf("skipped file decoded with result %+v", doc.Files[3].Result)
	}
	if doc.Files[1].Result == nil || doc.Files[1].Result.ExitCode != 1 {
		t.Errorf("files[1].result = %+v", doc.Files[1].Result)
	}
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatText, testBatch(), Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "\x1b[") {
		t.Errorf("text report to a non-terminal contains ANSI escapes:\n%q", out)
	}
	for _, want := range []string{
		testBatchID.String(),
		"✓ hello.py",
		"✗ src/Main.java",
		"⏱ slow.rb",
		"– prog.c",
		"not executed",
		"hello",
		"Timeout Expired",
		"4 files · 1 passed · 2 failed · 1 timed out · 1 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "$ python3") {
		t.Error("non-verbose text report shows command lines")
	}

	buf.Reset()
	if err := Write(&buf, FormatText, testBatch(), Options{Verbose: true}); err != nil {
		t.Fatalf("Write(verbose) error = %v", err)
	}
	for _, want := range []string{"$ python3 -u /work/hello.py", "user=ada"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("verbose text report missing %q:\n%s", want, buf.String())
		}
	}
}

func TestWrite_Markdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatMarkdown, testBatch(), Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# codesubmit report",
		"| `hello.py` | Python | ✅ passed | 0 | 0.12s |",
		"| `prog.c` | C | skipped | | |",
		"## src/Main.java",
		"**stderr**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Write(&buf, FormatMarkdown, testBatch(), Options{GlamourStyle: "notty"}); err != nil {
		t.Fatalf("Write(glamour) error = %v", err)
	}
	if !strings.Contains(buf.String(), "hello.py") {
		t.Errorf("rendered markdown missing file name:\n%s", buf.String())
	}
}

func TestWriteFence_NestedBackticks(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	writeFence(&sb, "stdout", "before\n```\ninside\n```\n")
	if !strings.Contains(sb.String(), "````\nbefore") {
		t.Errorf("fence not lengthened:\n%s", sb.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, Format("xml"), testBatch(), Options{})
	if !errors.Is(err, ErrUnknownReportFormat) {
		t.Errorf("Write(xml) error = %v, want ErrUnknownReportFormat", err)
	}
}
