package export

import (
	"encoding/xml"
	"strings"
	"testing"
)

func textFile(path string, tokens int, content string) File {
	return File{
		FileRecord: FileRecord{Path: path, Tokens: tokens},
		Content:    content,
	}
}

type xmlRepository struct {
	Name  string `xml:"name,attr"`
	Tree  string `xml:"file_structure"`
	Files []struct {
		Path    string `xml:"path,attr"`
		Tokens  int    `xml:"tokens,attr"`
		Content string `xml:",chardata"`
	} `xml:"files>file"`
}

func parseXML(t *testing.T, content string) *xmlRepository {
	t.Helper()
	var repo xmlRepository
	if err := xml.Unmarshal([]byte(content), &repo); err != nil {
		t.Fatalf("Export is not well-formed XML: %v\n%s", err, content)
	}
	return &repo
}

func TestFormat_Counters(t *testing.T) {
	files := []File{
		textFile("a.js", 100, "let a = 1\n"),
		textFile("b.js", 50, "let b = 2\n"),
		{FileRecord: FileRecord{Path: "blob.png", IsBinary: true}},
		{FileRecord: FileRecord{Path: "gone.js"}, Skipped: true},
	}

	doc := NewFormatter().Format("proj", files, Options{Format: "markdown"})

	if doc.ProcessedFiles != 2 {
		t.Errorf("Expected 2 processed files, got %d", doc.ProcessedFiles)
	}
	if doc.TotalTokens != 150 {
		t.Errorf("Expected 150 total tokens, got %d", doc.TotalTokens)
	}
	if doc.SkippedFiles != 2 {
		t.Errorf("Expected 2 skipped files, got %d", doc.SkippedFiles)
	}
	if len(doc.FilesInfo) != 4 {
		t.Errorf("Expected all records in FilesInfo, got %d", len(doc.FilesInfo))
	}
}

func TestMarkdown_TokenAnnotationAndTreeView(t *testing.T) {
	files := []File{textFile("src/app.js", 42, "console.log('hi')\n")}

	doc := NewFormatter().Format("proj", files, Options{
		Format:         "markdown",
		ShowTokenCount: true,
		TreeView:       "proj/\n└── src/\n    └── app.js\n",
	})

	if !strings.Contains(doc.Content, "## src/app.js (42 tokens)") {
		t.Errorf("Expected token annotation in header:\n%s", doc.Content)
	}
	if !strings.Contains(doc.Content, "## File Structure") {
		t.Error("Expected tree view section")
	}
	if !strings.Contains(doc.Content, "```javascript\nconsole.log('hi')\n```") {
		t.Errorf("Expected fenced content with language:\n%s", doc.Content)
	}
}

func TestMarkdown_NoAnnotationWhenDisabled(t *testing.T) {
	files := []File{textFile("a.js", 42, "x\n")}

	doc := NewFormatter().Format("proj", files, Options{Format: "markdown"})

	if strings.Contains(doc.Content, "(42 tokens)") {
		t.Error("Token annotation must be absent when disabled")
	}
	if strings.Contains(doc.Content, "File Structure") {
		t.Error("Tree view must be absent when no text is supplied")
	}
}

func TestMarkdown_FenceLongerThanContentRuns(t *testing.T) {
	files := []File{textFile("doc.md", 10, "look:\n````\ncode\n````\n")}

	doc := NewFormatter().Format("proj", files, Options{Format: "markdown"})

	if !strings.Contains(doc.Content, "`````\n") {
		t.Errorf("Expected fence longer than embedded backtick runs:\n%s", doc.Content)
	}
}

func TestXML_CDATARoundTrip(t *testing.T) {
	content := "prefix ]]> middle ]]>]]> suffix"
	files := []File{textFile("tricky.txt", 5, content)}

	doc := NewFormatter().Format("proj", files, Options{Format: "xml", ShowTokenCount: true})
	repo := parseXML(t, doc.Content)

	if len(repo.Files) != 1 {
		t.Fatalf("Expected one file element, got %d", len(repo.Files))
	}
	if repo.Files[0].Content != content {
		t.Errorf("CDATA splitting lost content:\ngot  %q\nwant %q", repo.Files[0].Content, content)
	}
	if repo.Files[0].Tokens != 5 {
		t.Errorf("Expected tokens attribute 5, got %d", repo.Files[0].Tokens)
	}
}

func TestXML_AttributeEscaping(t *testing.T) {
	files := []File{textFile(`dir/a&b<c>"d".js`, 1, "x")}

	doc := NewFormatter().Format("proj", files, Options{Format: "xml"})
	repo := parseXML(t, doc.Content)

	if repo.Files[0].Path != `dir/a&b<c>"d".js` {
		t.Errorf("Attribute escaping round-trip failed: %q", repo.Files[0].Path)
	}
}

func TestXML_StripsInvalidCharacters(t *testing.T) {
	files := []File{textFile("weird.txt", 1, "ok\x00\x01\x0btext\tkept\n")}

	doc := NewFormatter().Format("proj", files, Options{Format: "xml"})
	repo := parseXML(t, doc.Content)

	want := "oktext\tkept\n"
	if repo.Files[0].Content != want {
		t.Errorf("Invalid characters not stripped: %q, want %q", repo.Files[0].Content, want)
	}
}

func TestXML_TreeViewElement(t *testing.T) {
	files := []File{textFile("a.js", 1, "x")}

	doc := NewFormatter().Format("proj", files, Options{
		Format:   "xml",
		TreeView: "proj/\n└── a.js\n",
	})
	repo := parseXML(t, doc.Content)

	if !strings.Contains(repo.Tree, "└── a.js") {
		t.Errorf("Expected tree view element, got %q", repo.Tree)
	}
	if repo.Name != "proj" {
		t.Errorf("Expected repository name attribute, got %q", repo.Name)
	}
}

func TestFormat_UnknownFormatFallsBackToMarkdown(t *testing.T) {
	files := []File{textFile("a.js", 1, "x")}

	doc := NewFormatter().Format("proj", files, Options{Format: "pdf"})

	if !strings.HasPrefix(doc.Content, "# proj") {
		t.Errorf("Expected markdown fallback:\n%s", doc.Content)
	}
}
