// Package fs gathers local files referenced by glob patterns for inclusion
// in query prompts.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// maxFileSize caps individual context files. Larger files almost always
// mean a pattern matched a build artifact, not something the user wants
// inlined into a prompt.
const maxFileSize = 1 << 20

// File is one collected context file.
type File struct {
	Path    string
	Content string
}

// Collect resolves a glob pattern (doublestar syntax, ** supported) against
// root and returns the matching regular files with their contents, sorted
// by path. Matching a file larger than maxFileSize is an error.
func Collect(root, pattern string) ([]File, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("fs: invalid glob pattern: %s", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("fs: glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var files []File
	for _, match := range matches {
		full := filepath.Join(root, match)
		info, err := os.Stat(full)
		if err != nil {
			return nil, fmt.Errorf("fs: stat %s: %w", match, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if info.Size() > maxFileSize {
			return nil, fmt.Errorf("fs: %s is too large for prompt context (%d bytes)", match, info.Size())
		}
		content, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("fs: read %s: %w", match, err)
		}
		files = append(files, File{Path: match, Content: string(content)})
	}
	return files, nil
}

// Prompt prepends the collected files to the user's prompt, each in a
// fenced block labelled with its path. With no files it returns the prompt
// unchanged.
func Prompt(prompt string, files []File) string {
	if len(files) == 0 {
		return prompt
	}
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "<file path=%q>\n", f.Path)
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("</file>\n\n")
	}
	b.WriteString(prompt)
	return b.String()
}
