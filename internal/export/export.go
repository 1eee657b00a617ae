// Package export assembles the final concatenated document (Markdown or
// XML) from the analyzed, token-counted file set.
package export

// FileRecord summarizes one analyzed file.
type FileRecord struct {
	Path     string `json:"path" yaml:"path"`
	Tokens   int    `json:"tokens" yaml:"tokens"`
	IsBinary bool   `json:"is_binary" yaml:"is_binary"`
}

// File is one input to the formatter: the record plus the content to
// embed. Binary or skipped files carry no content and are counted but
// not serialized.
type File struct {
	FileRecord
	Content string
	Skipped bool
}

// Options control the shape of the serialized document.
type Options struct {
	Format         string // config.FormatMarkdown or config.FormatXML
	ShowTokenCount bool   // annotate per-file token counts
	TreeView       string // rendered tree text prepended when non-empty
}

// Document is the terminal artifact; immutable once produced.
type Document struct {
	Content        string
	ProcessedFiles int
	TotalTokens    int
	SkippedFiles   int
	FilesInfo      []FileRecord
}

// Formatter serializes an analyzed file set.
type Formatter struct{}

// NewFormatter creates a formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format produces the export document for the given files. Invalid or
// unknown formats fall back to Markdown.
func (f *Formatter) Format(rootName string, files []File, opts Options) *Document {
	doc := &Document{}

	var included []File
	for _, file := range files {
		doc.FilesInfo = append(doc.FilesInfo, file.FileRecord)
		if file.IsBinary || file.Skipped {
			doc.SkippedFiles++
			continue
		}
		doc.ProcessedFiles++
		doc.TotalTokens += file.Tokens
		included = append(included, file)
	}

	if opts.Format == "xml" {
		doc.Content = renderXML(rootName, included, opts)
	} else {
		doc.Content = renderMarkdown(rootName, included, opts)
	}
	return doc
}
