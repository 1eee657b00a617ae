package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/export"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/walker"
)

const scenarioConfig = `
use_custom_excludes: true
exclude_patterns:
  - "**/node_modules/**"
  - "**/.git/**"
use_custom_includes: true
include_extensions:
  - ".js"
`

func scenarioRoot(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	files := map[string][]byte{
		"src/app.js":        []byte(strings.Repeat("const x = 1\n", 42))[:500],
		"node_modules/x.js": []byte("module.exports = {}\n"),
		".git/HEAD":         []byte("ref: refs/heads/main\n"),
		"image.png":         {0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00},
	}
	for rel, content := range files {
		fullPath := filepath.Join(tmpDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, content, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
	return tmpDir
}

func flattenFiles(nodes []*walker.TreeNode) []string {
	var paths []string
	for _, node := range nodes {
		if node.Type == walker.NodeFile {
			paths = append(paths, node.Path)
		}
		paths = append(paths, flattenFiles(node.Children)...)
	}
	return paths
}

func TestService_EndToEndScenario(t *testing.T) {
	root := scenarioRoot(t)
	s := NewService(nil, nil)

	nodes, err := s.GetDirectoryTree(root, scenarioConfig)
	if err != nil {
		t.Fatalf("GetDirectoryTree failed: %v", err)
	}

	files := flattenFiles(nodes)
	if len(files) != 1 || files[0] != "src/app.js" {
		t.Fatalf("Expected exactly src/app.js in the tree, got %v", files)
	}

	result, err := s.AnalyzeRepository(context.Background(), root, scenarioConfig, files)
	if err != nil {
		t.Fatalf("AnalyzeRepository failed: %v", err)
	}

	if len(result.FilesInfo) != 1 {
		t.Fatalf("Expected one record, got %d", len(result.FilesInfo))
	}
	record := result.FilesInfo[0]
	if record.Path != "src/app.js" || record.Tokens <= 0 || record.IsBinary {
		t.Errorf("Unexpected record: %+v", record)
	}
	if result.SkippedBinaryFiles != 0 {
		t.Errorf("Expected no skipped binaries, got %d", result.SkippedBinaryFiles)
	}
	if result.TotalTokens != record.Tokens {
		t.Errorf("Total tokens %d != record tokens %d", result.TotalTokens, record.Tokens)
	}
}

func TestService_ForcedBinarySelection(t *testing.T) {
	root := scenarioRoot(t)
	s := NewService(nil, nil)

	result, err := s.AnalyzeRepository(context.Background(), root, scenarioConfig, []string{"image.png"})
	if err != nil {
		t.Fatalf("AnalyzeRepository failed: %v", err)
	}

	if len(result.FilesInfo) != 1 {
		t.Fatalf("Expected one record, got %d", len(result.FilesInfo))
	}
	record := result.FilesInfo[0]
	if !record.IsBinary || record.Tokens != 0 {
		t.Errorf("Expected binary record with zero tokens, got %+v", record)
	}
	if result.SkippedBinaryFiles != 1 {
		t.Errorf("Expected skippedBinaryFiles = 1, got %d", result.SkippedBinaryFiles)
	}
}

func TestService_RecordsSortedByDescendingTokens(t *testing.T) {
	tmpDir := t.TempDir()
	small := filepath.Join(tmpDir, "small.js")
	big := filepath.Join(tmpDir, "big.js")
	if err := os.WriteFile(small, []byte("x = 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(big, []byte(strings.Repeat("var longer = 12345\n", 50)), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewService(nil, nil)
	result, err := s.AnalyzeRepository(context.Background(), tmpDir, "", []string{"small.js", "big.js"})
	if err != nil {
		t.Fatalf("AnalyzeRepository failed: %v", err)
	}

	if result.FilesInfo[0].Path != "big.js" {
		t.Errorf("Expected heaviest file first, got %v", result.FilesInfo)
	}
}

func TestService_RejectsEscapingSelection(t *testing.T) {
	root := scenarioRoot(t)
	outside := filepath.Join(filepath.Dir(root), "outside.js")
	if err := os.WriteFile(outside, []byte("leak\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(outside) })

	s := NewService(nil, nil)
	result, err := s.AnalyzeRepository(context.Background(), root, "",
		[]string{"../outside.js", "src/app.js"})
	if err != nil {
		t.Fatalf("AnalyzeRepository failed: %v", err)
	}

	for _, record := range result.FilesInfo {
		if strings.Contains(record.Path, "outside") {
			t.Errorf("Path outside the root leaked into the result: %v", record)
		}
	}
}

func TestService_UserVisibleErrors(t *testing.T) {
	s := NewService(nil, nil)
	ctx := context.Background()

	if _, err := s.GetDirectoryTree("", ""); err == nil {
		t.Error("Expected error for missing root")
	}
	if _, err := s.AnalyzeRepository(ctx, "", "", []string{"a.js"}); err == nil {
		t.Error("Expected error for missing root")
	}
	if _, err := s.AnalyzeRepository(ctx, t.TempDir(), "", nil); err == nil {
		t.Error("Expected error for empty selection")
	}
	if _, err := s.ProcessRepository(t.TempDir(), nil, "", export.Options{}); err == nil {
		t.Error("Expected error for empty record set")
	}
}

func TestService_ProcessRepositoryMarkdown(t *testing.T) {
	root := scenarioRoot(t)
	s := NewService(nil, nil)

	records := []export.FileRecord{
		{Path: "src/app.js", Tokens: 99},
		{Path: "image.png", IsBinary: true},
	}

	doc, err := s.ProcessRepository(root, records, "tree-text\n", export.Options{
		Format:         "markdown",
		ShowTokenCount: true,
	})
	if err != nil {
		t.Fatalf("ProcessRepository failed: %v", err)
	}

	if !strings.Contains(doc.Content, "## src/app.js (99 tokens)") {
		t.Errorf("Expected annotated file header:\n%s", doc.Content)
	}
	if !strings.Contains(doc.Content, "const x = 1") {
		t.Error("Expected file content in the document")
	}
	if strings.Contains(doc.Content, "image.png") {
		t.Error("Binary file content must not be serialized")
	}
	if doc.ProcessedFiles != 1 || doc.SkippedFiles != 1 {
		t.Errorf("Unexpected counters: processed=%d skipped=%d", doc.ProcessedFiles, doc.SkippedFiles)
	}
}

func TestService_GitignoreCacheReset(t *testing.T) {
	tmpDir := t.TempDir()
	appJS := filepath.Join(tmpDir, "app.js")
	if err := os.WriteFile(appJS, []byte("x\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	configText := "use_gitignore: true\nuse_custom_excludes: false\n"
	s := NewService(nil, nil)

	nodes, err := s.GetDirectoryTree(tmpDir, configText)
	if err != nil {
		t.Fatalf("GetDirectoryTree failed: %v", err)
	}
	if len(flattenFiles(nodes)) != 1 {
		t.Fatal("Expected app.js before .gitignore exists")
	}

	// A .gitignore written later is invisible until the cache is reset.
	if err := os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("*.js\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	nodes, _ = s.GetDirectoryTree(tmpDir, configText)
	files := flattenFiles(nodes)
	if len(files) != 2 {
		t.Errorf("Expected stale cached patterns before reset, got %v", files)
	}

	// The fresh parse excludes app.js; the .gitignore file itself is not
	// matched by its own *.js rule and stays in the tree.
	s.ResetGitignoreCache()
	nodes, _ = s.GetDirectoryTree(tmpDir, configText)
	files = flattenFiles(nodes)
	if len(files) != 1 || files[0] != ".gitignore" {
		t.Errorf("Expected only .gitignore after reset, got %v", files)
	}
}

func TestService_SuspiciousFilesDropped(t *testing.T) {
	tmpDir := t.TempDir()
	for name, content := range map[string]string{
		"app.js": "const x = 1\n",
		".env":   "DB_PASSWORD=hunter2-hunter2\n",
	} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	configText := "enable_secret_scanning: true\nexclude_suspicious_files: true\nuse_custom_excludes: false\n"
	s := NewService(nil, nil)

	result, err := s.AnalyzeRepository(context.Background(), tmpDir, configText,
		[]string{"app.js", ".env"})
	if err != nil {
		t.Fatalf("AnalyzeRepository failed: %v", err)
	}

	if result.SkippedSuspiciousFiles != 1 {
		t.Errorf("Expected one suspicious skip, got %d", result.SkippedSuspiciousFiles)
	}
	for _, record := range result.FilesInfo {
		if record.Path == ".env" {
			t.Error("Suspicious file must not appear in the result")
		}
	}
}

func TestService_CountFilesTokens(t *testing.T) {
	root := scenarioRoot(t)
	s := NewService(nil, nil)

	report, err := s.CountFilesTokens(context.Background(), root, []string{"src/app.js"})
	if err != nil {
		t.Fatalf("CountFilesTokens failed: %v", err)
	}

	if report.Results["src/app.js"] <= 0 {
		t.Error("Expected positive token count")
	}
	stat := report.Stats["src/app.js"]
	if stat.Size != 500 || stat.ModTime.IsZero() {
		t.Errorf("Expected stats for 500-byte file, got %+v", stat)
	}
}
