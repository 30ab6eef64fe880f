package processor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/byRen2002/decomment/internal/common/cache"
	"github.com/byRen2002/decomment/internal/common/logger"
	"github.com/byRen2002/decomment/internal/common/monitor"
	"github.com/byRen2002/decomment/internal/language"
	"github.com/byRen2002/decomment/internal/scanner"
	"github.com/byRen2002/decomment/internal/stripper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnsupportedFile is returned when no language claims a file
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrInvalidPattern is returned for malformed include/exclude globs
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// DefaultBackupSuffix is appended to a file's path to name its backup
const DefaultBackupSuffix = ".bak"

// ConfirmFunc is asked once per comment in interactive mode and reports
// whether the comment should be removed.
type ConfirmFunc func(path, comment string) (bool, error)

// Options contains options for the processor
type Options struct {
	Policy         stripper.Policy
	StandaloneOnly bool

	// Language forces every file to be treated as this language
	// identifier instead of resolving it by extension.
	Language string

	Backup       bool
	BackupSuffix string
	DryRun       bool

	// Include and Exclude are doublestar globs matched against paths
	// relative to the walked directory. A walked file must belong to a
	// known language unless Language is set, and must match an Include
	// pattern when any are given. Directories matching an Exclude
	// pattern are not descended into.
	Include []string
	Exclude []string

	MaxWorkers     int
	CacheSize      int
	ReportInterval time.Duration

	// Confirm enables interactive removal. Files are then processed one
	// at a time.
	Confirm ConfirmFunc
}

// Result describes one processed file
type Result struct {
	Path         string
	Language     string
	Found        int
	Removed      int
	Unterminated int
	Changed      bool
	Size         int64
	BackupPath   string
	Output       string
}

// Preserved returns the number of comments left in place
func (r *Result) Preserved() int {
	return r.Found - r.Removed
}

type stripped struct {
	output       string
	found        int
	removed      int
	unterminated int
}

// Processor strips comments from files on disk
type Processor struct {
	registry    *language.Registry
	override    language.ID
	hasOverride bool
	opts        Options
	cache       *cache.Cache[string, stripped]
	monitor     *monitor.Monitor
}

// New creates a new Processor
func New(registry *language.Registry, opts Options) (*Processor, error) {
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = DefaultBackupSuffix
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.NumCPU()
	}
	if opts.Confirm != nil {
		opts.MaxWorkers = 1
	}

	for _, pattern := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}

	p := &Processor{
		registry: registry,
		opts:     opts,
		monitor:  monitor.New(opts.ReportInterval),
	}

	if opts.Language != "" {
		id, err := registry.ID(opts.Language)
		if err != nil {
			return nil, err
		}
		p.override = id
		p.hasOverride = true
	}

	c, err := cache.New[string, stripped](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	p.cache = c

	return p, nil
}

// Stats returns the statistics accumulated so far
func (p *Processor) Stats() monitor.Stats {
	return p.monitor.GetStats()
}

// Monitor returns the monitor collecting this processor's statistics
func (p *Processor) Monitor() *monitor.Monitor {
	return p.monitor
}

// Resolve picks the language for path, honoring the Language option.
func (p *Processor) Resolve(path string) (*language.Spec, error) {
	if p.hasOverride {
		return p.registry.Spec(p.override), nil
	}
	return ResolvePath(p.registry, path)
}

// ResolvePath picks the language for path by its extension. When several
// languages claim the extension the first in registry order is used and a
// warning is logged.
func ResolvePath(registry *language.Registry, path string) (*language.Spec, error) {
	specs := registry.ResolvePath(path)
	switch len(specs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	case 1:
		return specs[0], nil
	}

	candidates := make([]string, 0, len(specs))
	for _, s := range specs {
		candidates = append(candidates, s.Identifier)
	}
	logger.Warn("Ambiguous file extension, using first language",
		zap.String("path", path),
		zap.Strings("candidates", candidates),
		zap.String("language", specs[0].Identifier))

	return specs[0], nil
}

// ProcessFile strips comments from a single file
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	result, err := p.processFile(ctx, path)
	if err != nil {
		p.monitor.RecordError()
		return nil, err
	}

	p.monitor.Record(monitor.FileStats{
		Bytes:        int(result.Size),
		Found:        result.Found,
		Removed:      result.Removed,
		Unterminated: result.Unterminated,
		Changed:      result.Changed,
	})
	return result, nil
}

func (p *Processor) processFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec, err := p.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	src := string(data)

	var s stripped
	if p.opts.Confirm != nil {
		s, err = p.stripInteractive(path, src, spec)
		if err != nil {
			return nil, err
		}
	} else {
		s = p.strip(src, spec)
	}

	result := &Result{
		Path:         path,
		Language:     spec.Identifier,
		Found:        s.found,
		Removed:      s.removed,
		Unterminated: s.unterminated,
		Changed:      s.output != src,
		Size:         info.Size(),
		Output:       s.output,
	}

	logger.Debug("Processed file",
		zap.String("path", path),
		zap.String("language", spec.Identifier),
		zap.Int("found", result.Found),
		zap.Int("removed", result.Removed))

	if !result.Changed || p.opts.DryRun {
		return result, nil
	}

	mode := info.Mode().Perm()
	if p.opts.Backup {
		backup := path + p.opts.BackupSuffix
		if err := os.WriteFile(backup, data, mode); err != nil {
			return nil, fmt.Errorf("failed to create backup file: %w", err)
		}
		result.BackupPath = backup
	}

	if err := os.WriteFile(path, []byte(s.output), mode); err != nil {
		return nil, fmt.Errorf("failed to write modified file: %w", err)
	}

	return result, nil
}

func (p *Processor) strip(src string, spec *language.Spec) stripped {
	key := p.cacheKey(src, spec)
	if s, ok := p.cache.Get(key); ok {
		return s
	}

	spans := scanner.All(src, spec)
	s := stripped{
		output:       stripper.StripSpec(src, spec, p.stripOptions()),
		found:        len(spans),
		unterminated: countUnterminated(spans),
	}
	s.removed = s.found - len(scanner.All(s.output, spec))
	if s.removed < 0 {
		s.removed = 0
	}

	p.cache.Set(key, s)
	return s
}

func (p *Processor) stripInteractive(path, src string, spec *language.Spec) (stripped, error) {
	spans := scanner.All(src, spec)

	var chosen []scanner.Span
	for _, span := range stripper.Select(src, spans, p.stripOptions()) {
		ok, err := p.opts.Confirm(path, span.Text(src))
		if err != nil {
			return stripped{}, fmt.Errorf("confirmation failed: %w", err)
		}
		if ok {
			chosen = append(chosen, span)
		}
	}

	return stripped{
		output:       stripper.Apply(src, chosen, p.opts.Policy),
		found:        len(spans),
		removed:      len(chosen),
		unterminated: countUnterminated(spans),
	}, nil
}

func (p *Processor) stripOptions() stripper.Options {
	return stripper.Options{
		Policy:         p.opts.Policy,
		StandaloneOnly: p.opts.StandaloneOnly,
	}
}

func (p *Processor) cacheKey(src string, spec *language.Spec) string {
	sum := sha256.Sum256([]byte(src))
	return fmt.Sprintf("%s:%s:%s:%t", hex.EncodeToString(sum[:]), spec.Identifier, p.opts.Policy, p.opts.StandaloneOnly)
}

func countUnterminated(spans []scanner.Span) int {
	n := 0
	for _, span := range spans {
		if span.Unterminated {
			n++
		}
	}
	return n
}

// ProcessDirectory strips comments from every eligible file under root
func (p *Processor) ProcessDirectory(ctx context.Context, root string) ([]*Result, error) {
	p.monitor.Start()
	defer p.monitor.Stop()

	return p.processDirectory(ctx, root)
}

func (p *Processor) processDirectory(ctx context.Context, root string) ([]*Result, error) {
	var (
		results    []*Result
		resultsMux sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxWorkers)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && p.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !p.eligible(path, rel) {
			return nil
		}

		// Check if context is cancelled
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		g.Go(func() error {
			result, err := p.ProcessFile(ctx, path)
			if err != nil {
				logger.Error("Failed to process file",
					zap.String("path", path),
					zap.Error(err))
				return err
			}

			resultsMux.Lock()
			results = append(results, result)
			resultsMux.Unlock()
			return nil
		})

		return nil
	})

	if waitErr := g.Wait(); waitErr != nil {
		return nil, fmt.Errorf("error while processing files: %w", waitErr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// Process handles a mix of files and directories. Explicit files must
// belong to a known language; directories are walked with ProcessDirectory.
func (p *Processor) Process(ctx context.Context, paths []string) ([]*Result, error) {
	p.monitor.Start()
	defer p.monitor.Stop()

	var results []*Result
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return results, err
		}

		if info.IsDir() {
			dirResults, err := p.processDirectory(ctx, path)
			if err != nil {
				return results, err
			}
			results = append(results, dirResults...)
			continue
		}

		result, err := p.ProcessFile(ctx, path)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (p *Processor) excluded(rel string) bool {
	for _, pattern := range p.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (p *Processor) eligible(path, rel string) bool {
	if strings.HasSuffix(path, p.opts.BackupSuffix) || p.excluded(rel) {
		return false
	}

	if !p.hasOverride && len(p.registry.ResolvePath(path)) == 0 {
		return false
	}

	if len(p.opts.Include) == 0 {
		return true
	}
	for _, pattern := range p.opts.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
