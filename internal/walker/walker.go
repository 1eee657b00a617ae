// Package walker lists a root directory as a filtered tree. The walk is
// synchronous and recursive with symlink, cycle and root-boundary guards.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/filter"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/logging"
)

// NodeType discriminates tree nodes.
type NodeType string

const (
	NodeFile      NodeType = "file"
	NodeDirectory NodeType = "directory"
)

// TreeNode is one entry of the filtered directory tree. Nodes form a
// strict tree owned by the caller; paths are root-relative with forward
// slashes.
type TreeNode struct {
	Type         NodeType
	Name         string
	Path         string
	Size         int64
	LastModified time.Time

	// File only.
	Extension string

	// Directory only. ItemCount is the number of files beneath the
	// directory after filtering.
	Children  []*TreeNode
	ItemCount int
}

// Walker builds filtered directory trees.
type Walker struct {
	logger *logging.Logger
}

// New creates a walker.
func New(logger *logging.Logger) *Walker {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Walker{logger: logger}
}

// walkState is scoped to a single Walk invocation.
type walkState struct {
	canonicalRoot string
	visited       map[string]struct{}
	collator      *collate.Collator
	fc            *filter.FilterConfig
}

// Walk lists rootPath applying the filter config. Directories left with no
// surviving children are pruned. I/O errors during traversal are logged
// and skipped, an unreadable root included; only a root path that cannot
// be resolved at all is returned as an error.
func (w *Walker) Walk(rootPath string, fc *filter.FilterConfig) ([]*TreeNode, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}
	canonicalRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	st := &walkState{
		canonicalRoot: canonicalRoot,
		visited:       map[string]struct{}{canonicalRoot: {}},
		collator:      collate.New(language.Und, collate.IgnoreCase),
		fc:            fc,
	}

	return w.walkDir(absRoot, "", st), nil
}

func (w *Walker) walkDir(dir, relDir string, st *walkState) []*TreeNode {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("Failed to read directory",
			logging.String("path", dir),
			logging.Error(err))
		return nil
	}

	sortEntries(entries, st.collator)

	var nodes []*TreeNode
	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		relPath := joinRel(relDir, entry.Name())

		if entry.Type()&fs.ModeSymlink != 0 {
			w.skipSymlink(fullPath, st)
			continue
		}

		if entry.IsDir() {
			if node := w.walkSubdir(fullPath, relPath, entry, st); node != nil {
				nodes = append(nodes, node)
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		if !st.fc.ShouldProcess(relPath) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.logger.Warn("Failed to stat file",
				logging.String("path", fullPath),
				logging.Error(err))
			continue
		}

		nodes = append(nodes, &TreeNode{
			Type:         NodeFile,
			Name:         entry.Name(),
			Path:         relPath,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			Extension:    strings.ToLower(filepath.Ext(entry.Name())),
		})
	}

	return nodes
}

func (w *Walker) walkSubdir(fullPath, relPath string, entry fs.DirEntry, st *walkState) *TreeNode {
	if st.fc.ShouldExclude(relPath) {
		return nil
	}

	canonical, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		w.logger.Warn("Failed to resolve directory",
			logging.String("path", fullPath),
			logging.Error(err))
		return nil
	}
	if !within(st.canonicalRoot, canonical) {
		w.logger.Warn("Directory resolves outside the root, skipping",
			logging.String("path", fullPath),
			logging.String("resolved", canonical))
		return nil
	}
	if _, seen := st.visited[canonical]; seen {
		w.logger.Warn("Directory already visited, skipping cycle",
			logging.String("path", fullPath),
			logging.String("resolved", canonical))
		return nil
	}
	st.visited[canonical] = struct{}{}

	children := w.walkDir(fullPath, relPath, st)
	if len(children) == 0 {
		// Nothing survived filtering; the directory is not emitted.
		return nil
	}

	info, err := entry.Info()
	if err != nil {
		w.logger.Warn("Failed to stat directory",
			logging.String("path", fullPath),
			logging.Error(err))
		return nil
	}

	var size int64
	itemCount := 0
	for _, child := range children {
		size += child.Size
		if child.Type == NodeFile {
			itemCount++
		} else {
			itemCount += child.ItemCount
		}
	}

	return &TreeNode{
		Type:         NodeDirectory,
		Name:         entry.Name(),
		Path:         relPath,
		Size:         size,
		LastModified: info.ModTime(),
		Children:     children,
		ItemCount:    itemCount,
	}
}

// skipSymlink drops a symlink entry, warning when its target escapes the
// root. Symlinks are never followed and never emitted.
func (w *Walker) skipSymlink(fullPath string, st *walkState) {
	resolved, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		w.logger.Debug("Skipping unresolvable symlink",
			logging.String("path", fullPath),
			logging.Error(err))
		return
	}
	if !within(st.canonicalRoot, resolved) {
		w.logger.Warn("Symlink target outside the root",
			logging.String("path", fullPath),
			logging.String("target", resolved))
		return
	}
	w.logger.Debug("Skipping symlink", logging.String("path", fullPath))
}

// sortEntries orders directories first, then names with a locale-aware
// comparison.
func sortEntries(entries []fs.DirEntry, collator *collate.Collator) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return collator.CompareString(entries[i].Name(), entries[j].Name()) < 0
	})
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}
