package tokenizer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/classify"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/logging"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/workerpool"
)

// BatchSize is the number of files counted per batch. Cancellation is
// observed between batches so a stale selection never burns a full pass.
const BatchSize = 20

// FileStat records the metadata used to decide whether a cached count is
// still current.
type FileStat struct {
	ModTime time.Time
	Size    int64
}

// Report holds per-path token counts and the file stats observed while
// producing them.
type Report struct {
	Results map[string]int
	Stats   map[string]FileStat
}

// BatchCounter counts tokens for file selections in fixed-size batches,
// reusing cached counts for files whose mtime and size are unchanged.
type BatchCounter struct {
	counter Counter
	pool    *workerpool.Pool
	logger  *logging.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	stat   FileStat
	tokens int
}

// NewBatchCounter creates a batch counter. A nil counter falls back to the
// heuristic estimator.
func NewBatchCounter(counter Counter, maxWorkers int, logger *logging.Logger) *BatchCounter {
	if counter == nil {
		counter = NewHeuristicCounter()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &BatchCounter{
		counter: counter,
		pool:    workerpool.New(maxWorkers),
		logger:  logger,
		cache:   make(map[string]cacheEntry),
	}
}

// Clear drops all cached counts.
func (bc *BatchCounter) Clear() {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.cache = make(map[string]cacheEntry)
}

// CountFiles counts tokens for the given root-relative paths. Binary files
// report zero tokens. Per-file read failures are logged and reported as
// zero; they never abort the pass. A cancelled context aborts between
// batches and returns ctx.Err() with no partial report.
func (bc *BatchCounter) CountFiles(ctx context.Context, rootPath string, paths []string) (*Report, error) {
	report := &Report{
		Results: make(map[string]int, len(paths)),
		Stats:   make(map[string]FileStat, len(paths)),
	}

	for start := 0; start < len(paths); start += BatchSize {
		if err := ctx.Err(); err != nil {
			bc.logger.Debug("Token counting cancelled",
				logging.Int("counted", start),
				logging.Int("total", len(paths)))
			return nil, err
		}

		end := start + BatchSize
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[start:end]

		tasks := make([]workerpool.Task, len(batch))
		for i, relPath := range batch {
			relPath := relPath
			tasks[i] = func(ctx context.Context) (interface{}, error) {
				return bc.countOne(rootPath, relPath), nil
			}
		}

		for i, res := range bc.pool.Run(ctx, tasks) {
			if res.Error != nil {
				return nil, res.Error
			}
			outcome := res.Value.(fileCount)
			report.Results[batch[i]] = outcome.tokens
			report.Stats[batch[i]] = outcome.stat
		}
	}

	return report, nil
}

type fileCount struct {
	tokens int
	stat   FileStat
}

func (bc *BatchCounter) countOne(rootPath, relPath string) fileCount {
	fullPath := filepath.Join(rootPath, relPath)

	info, err := os.Stat(fullPath)
	if err != nil {
		bc.logger.Warn("Failed to stat file for token count",
			logging.String("path", relPath),
			logging.Error(err))
		return fileCount{}
	}
	stat := FileStat{ModTime: info.ModTime(), Size: info.Size()}

	bc.mu.Lock()
	cached, hit := bc.cache[fullPath]
	bc.mu.Unlock()
	if hit && cached.stat == stat {
		return fileCount{tokens: cached.tokens, stat: stat}
	}

	tokens := 0
	if !classify.IsBinary(fullPath) {
		content, err := os.ReadFile(fullPath)
		if err != nil {
			bc.logger.Warn("Failed to read file for token count",
				logging.String("path", relPath),
				logging.Error(err))
			return fileCount{stat: stat}
		}
		tokens = bc.counter.Count(string(content))
	}

	bc.mu.Lock()
	bc.cache[fullPath] = cacheEntry{stat: stat, tokens: tokens}
	bc.mu.Unlock()

	return fileCount{tokens: tokens, stat: stat}
}
