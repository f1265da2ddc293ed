// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"strings"

	"github.com/codesubmit/codesubmit/pkg/types"
)

// extensionLanguages maps lower-cased file extensions to language names.
var extensionLanguages = map[string]types.Language{
	".py":   types.LanguagePython,
	".java": types.LanguageJava,
	".js":   types.LanguageJavaScript,
	".mjs":  types.LanguageJavaScript,
	".rb":   types.LanguageRuby,
	".go":   types.LanguageGo,
	".sh":   types.LanguageShell,
	".c":    types.LanguageC,
	".cpp":  types.LanguageCPP,
	".cc":   types.LanguageCPP,
}

// SourceFile is one discovered file. It is immutable once produced.
type SourceFile struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path" toml:"path"`
	// RelPath is the path relative to the scan root, slash-separated.
	RelPath string `json:"rel_path" yaml:"rel_path" toml:"rel_path"`
	// Language is the detected language name.
	Language types.Language `json:"language" yaml:"language" toml:"language"`
}

// DetectLanguage returns the language for a file name based on its extension.
// The second return value is false when the extension is not recognized.
func DetectLanguage(name string) (types.Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(name))]
	return lang, ok
}

// NewSourceFile builds a SourceFile for path relative to root, detecting its language.
// Unknown extensions yield ok == false.
func NewSourceFile(root, path string) (SourceFile, bool) {
	lang, ok := DetectLanguage(path)
	if !ok {
		return SourceFile{}, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." {
		rel = filepath.Base(abs)
	}
	return SourceFile{Path: abs, RelPath: filepath.ToSlash(rel), Language: lang}, true
}
