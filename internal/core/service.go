// Package core exposes the content-selection and export pipeline to the
// caller (CLI or any other surface) through a narrow request/response
// boundary: directory tree listing, selection analysis, token counting
// and document export.
package core

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/classify"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/config"
	apperrors "github.com/codingworkflow/ai-code-fusion-sub000/internal/errors"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/export"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/filter"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/gitignore"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/logging"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/tokenizer"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/walker"
)

// AnalysisResult is the response of AnalyzeRepository.
type AnalysisResult struct {
	FilesInfo              []export.FileRecord
	TotalTokens            int
	SkippedBinaryFiles     int
	SkippedSuspiciousFiles int
}

// Service owns the pipeline's shared state: the gitignore cache and the
// token-count cache. One Service serves one analysis session; both caches
// have explicit invalidation hooks.
type Service struct {
	logger    *logging.Logger
	resolver  *gitignore.Resolver
	walker    *walker.Walker
	counter   *tokenizer.BatchCounter
	formatter *export.Formatter
}

// NewService wires the pipeline. A nil counter uses the heuristic token
// estimator.
func NewService(logger *logging.Logger, counter tokenizer.Counter) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		logger:    logger,
		resolver:  gitignore.NewResolver(logger),
		walker:    walker.New(logger),
		counter:   tokenizer.NewBatchCounter(counter, 0, logger),
		formatter: export.NewFormatter(),
	}
}

// GetDirectoryTree walks rootPath under the filters described by the raw
// configText document and returns the filtered tree.
func (s *Service) GetDirectoryTree(rootPath, configText string) ([]*walker.TreeNode, error) {
	if rootPath == "" {
		return nil, apperrors.NewNoRootError()
	}

	_, fc := s.buildFilter(rootPath, configText)
	return s.walker.Walk(rootPath, fc)
}

// AnalyzeRepository classifies and token-counts an explicit selection of
// root-relative paths. Selection overrides name-based filtering: a file
// the tree would have hidden is still analyzed when selected directly.
// Records are ordered by descending token count.
func (s *Service) AnalyzeRepository(ctx context.Context, rootPath, configText string, selectedPaths []string) (*AnalysisResult, error) {
	if rootPath == "" {
		return nil, apperrors.NewNoRootError()
	}
	if len(selectedPaths) == 0 {
		return nil, apperrors.NewNoFilesError()
	}

	cfg, _ := s.buildFilter(rootPath, configText)

	canonicalRoot, err := canonicalDir(rootPath)
	if err != nil {
		return nil, apperrors.WrapError(err, "cannot resolve root directory", apperrors.ExitIOError)
	}

	result := &AnalysisResult{}
	var textPaths []string

	for _, relPath := range selectedPaths {
		relPath = filepath.ToSlash(filepath.Clean(relPath))
		fullPath, ok := s.resolveWithinRoot(rootPath, canonicalRoot, relPath)
		if !ok {
			continue
		}

		if classify.IsBinary(fullPath) {
			result.FilesInfo = append(result.FilesInfo, export.FileRecord{
				Path:     relPath,
				Tokens:   0,
				IsBinary: true,
			})
			result.SkippedBinaryFiles++
			continue
		}

		if cfg.EnableSecretScanning && cfg.ExcludeSuspiciousFiles && s.isSuspicious(fullPath) {
			s.logger.Warn("Dropping suspicious file from selection",
				logging.String("path", relPath))
			result.SkippedSuspiciousFiles++
			continue
		}

		textPaths = append(textPaths, relPath)
	}

	if len(textPaths) > 0 {
		report, err := s.counter.CountFiles(ctx, rootPath, textPaths)
		if err != nil {
			return nil, err
		}
		for _, relPath := range textPaths {
			tokens := report.Results[relPath]
			result.FilesInfo = append(result.FilesInfo, export.FileRecord{
				Path:   relPath,
				Tokens: tokens,
			})
			result.TotalTokens += tokens
		}
	}

	// Heaviest files first; ties resolve by path for determinism.
	sort.SliceStable(result.FilesInfo, func(i, j int) bool {
		a, b := result.FilesInfo[i], result.FilesInfo[j]
		if a.Tokens != b.Tokens {
			return a.Tokens > b.Tokens
		}
		return a.Path < b.Path
	})

	return result, nil
}

// ProcessRepository serializes the analyzed records into the final export
// document. treeViewText, when non-empty, is prepended per the options.
func (s *Service) ProcessRepository(rootPath string, records []export.FileRecord, treeViewText string, opts export.Options) (*export.Document, error) {
	if rootPath == "" {
		return nil, apperrors.NewNoRootError()
	}
	if len(records) == 0 {
		return nil, apperrors.NewNoFilesError()
	}

	canonicalRoot, err := canonicalDir(rootPath)
	if err != nil {
		return nil, apperrors.WrapError(err, "cannot resolve root directory", apperrors.ExitIOError)
	}

	files := make([]export.File, 0, len(records))
	for _, record := range records {
		file := export.File{FileRecord: record}

		if record.IsBinary {
			files = append(files, file)
			continue
		}

		fullPath, ok := s.resolveWithinRoot(rootPath, canonicalRoot, record.Path)
		if !ok {
			file.Skipped = true
			files = append(files, file)
			continue
		}

		content, err := os.ReadFile(fullPath)
		if err != nil {
			s.logger.Warn("Failed to read file for export",
				logging.String("path", record.Path),
				logging.Error(err))
			file.Skipped = true
			files = append(files, file)
			continue
		}

		file.Content = string(content)
		files = append(files, file)
	}

	opts.TreeView = treeViewText
	rootName := filepath.Base(canonicalRoot)
	return s.formatter.Format(rootName, files, opts), nil
}

// CountFilesTokens counts tokens for the given root-relative paths and
// reports the file stats observed while doing so.
func (s *Service) CountFilesTokens(ctx context.Context, rootPath string, filePaths []string) (*tokenizer.Report, error) {
	if rootPath == "" {
		return nil, apperrors.NewNoRootError()
	}
	return s.counter.CountFiles(ctx, rootPath, filePaths)
}

// ResetGitignoreCache drops all cached gitignore parses. Exposed to the
// caller for explicit invalidation on root or config change.
func (s *Service) ResetGitignoreCache() {
	s.resolver.Clear()
}

// ResetTokenCache drops all cached token counts.
func (s *Service) ResetTokenCache() {
	s.counter.Clear()
}

// buildFilter resolves the raw config text and merges in the gitignore
// pattern sets when enabled.
func (s *Service) buildFilter(rootPath, configText string) (*config.Config, *filter.FilterConfig) {
	cfg := config.ParseText(configText, s.logger)

	var gi *gitignore.PatternSet
	if cfg.UseGitignore {
		gi = s.resolver.Parse(rootPath)
	}
	return cfg, filter.Build(cfg, gi)
}

// resolveWithinRoot joins a relative path onto the root and rejects
// anything that escapes it, either lexically or through symlinks.
func (s *Service) resolveWithinRoot(rootPath, canonicalRoot, relPath string) (string, bool) {
	if relPath == "" || relPath == "." || strings.HasPrefix(relPath, "../") ||
		relPath == ".." || filepath.IsAbs(relPath) {
		s.logger.Warn("Rejecting path outside the root",
			logging.String("path", relPath))
		return "", false
	}

	fullPath := filepath.Join(rootPath, filepath.FromSlash(relPath))

	canonical, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		s.logger.Warn("Failed to resolve selected path",
			logging.String("path", relPath),
			logging.Error(err))
		return "", false
	}
	if canonical != canonicalRoot &&
		!strings.HasPrefix(canonical, canonicalRoot+string(os.PathSeparator)) {
		s.logger.Warn("Selected path resolves outside the root",
			logging.String("path", relPath),
			logging.String("resolved", canonical))
		return "", false
	}
	return fullPath, true
}

// isSuspicious samples the file for the secret heuristics.
func (s *Service) isSuspicious(fullPath string) bool {
	if classify.IsSuspiciousName(fullPath) {
		return true
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return false
	}
	return classify.IsSuspiciousContent(content)
}

func canonicalDir(rootPath string) (string, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(absRoot)
}
