package export

import (
	"fmt"
	"path"
	"strings"
)

// languageByExtension maps extensions to fence language identifiers.
var languageByExtension = map[string]string{
	".go":    "go",
	".js":    "javascript",
	".jsx":   "jsx",
	".ts":    "typescript",
	".tsx":   "tsx",
	".py":    "python",
	".rb":    "ruby",
	".rs":    "rust",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".sh":    "bash",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
	".xml":   "xml",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".sql":   "sql",
	".md":    "markdown",
	".toml":  "toml",
}

func renderMarkdown(rootName string, files []File, opts Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rootName)

	if opts.TreeView != "" {
		b.WriteString("## File Structure\n\n")
		b.WriteString("```\n")
		b.WriteString(strings.TrimRight(opts.TreeView, "\n"))
		b.WriteString("\n```\n\n")
	}

	for _, file := range files {
		if opts.ShowTokenCount {
			fmt.Fprintf(&b, "## %s (%d tokens)\n\n", file.Path, file.Tokens)
		} else {
			fmt.Fprintf(&b, "## %s\n\n", file.Path)
		}

		fence := fenceFor(file.Content)
		b.WriteString(fence)
		if lang := languageByExtension[strings.ToLower(path.Ext(file.Path))]; lang != "" {
			b.WriteString(lang)
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(file.Content, "\n"))
		b.WriteString("\n")
		b.WriteString(fence)
		b.WriteString("\n\n")
	}

	return b.String()
}

// fenceFor picks a backtick fence longer than any backtick run in the
// content so embedded fences cannot terminate the block early.
func fenceFor(content string) string {
	longest := 0
	run := 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	size := longest + 1
	if size < 3 {
		size = 3
	}
	return strings.Repeat("`", size)
}
