package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"es-diff/core/diff"
	"es-diff/core/elastic"
	"es-diff/core/report"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ErrDifferencesFound is returned by Run when the --fail-on-diff flag is
// set and the report is non-empty. The command layer maps it to a
// dedicated exit status for CI use.
var ErrDifferencesFound = errors.New("differences found between indices")

// Options controls a comparison run.
type Options struct {
	// IndexA is the first index to compare.
	IndexA string
	// IndexB is the second index to compare.
	IndexB string
	// ScrollSize is the number of documents per scroll page.
	ScrollSize int
	// ScrollTime is the server-side scroll context lifetime.
	ScrollTime time.Duration
	// Progress enables terminal progress bars on stderr.
	Progress bool
	// FailOnDiff makes Run return ErrDifferencesFound when any
	// discrepancy was reported.
	FailOnDiff bool
}

// Summary provides aggregate statistics for a comparison run.
type Summary struct {
	// DocsIndexA is the document count of index A at the start of the run.
	DocsIndexA int64 `json:"docs_index_a"`
	// DocsIndexB is the document count of index B at the start of the run.
	DocsIndexB int64 `json:"docs_index_b"`
	// OnlyInA counts documents present in A but missing in B.
	OnlyInA int `json:"only_in_a"`
	// OnlyInB counts documents present in B but missing in A.
	OnlyInB int `json:"only_in_b"`
	// Changed counts documents present in both with field differences.
	Changed int `json:"changed"`
	// Identical counts documents present in both with no differences.
	Identical int `json:"identical"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Differences returns the total number of reported discrepancies.
func (s *Summary) Differences() int {
	return s.OnlyInA + s.OnlyInB + s.Changed
}

// Service orchestrates a full comparison of two indices.
type Service struct {
	es     elastic.Client
	differ *diff.Differ
	sink   report.Sink
	log    *zap.Logger
}

// NewService wires the comparison pipeline together.
func NewService(es elastic.Client, differ *diff.Differ, sink report.Sink, log *zap.Logger) *Service {
	return &Service{
		es:     es,
		differ: differ,
		sink:   sink,
		log:    log,
	}
}

// Run drains both indices and writes one report row per discrepancy.
//
// Pass 1 scans index A page by page, fetches the page's ids from index B
// in one multi-get, and diffs each pair. Pass 2 scans index B and reports
// the ids pass 1 never saw. Only one page per index plus the set of seen
// ids is resident at any time.
func (s *Service) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()

	if err := s.preflight(ctx, opts); err != nil {
		return nil, err
	}

	totalA, err := s.es.Count(ctx, opts.IndexA)
	if err != nil {
		return nil, err
	}
	totalB, err := s.es.Count(ctx, opts.IndexB)
	if err != nil {
		return nil, err
	}

	s.log.Info("comparison started",
		zap.String("index_a", opts.IndexA),
		zap.String("index_b", opts.IndexB),
		zap.Int64("docs_index_a", totalA),
		zap.Int64("docs_index_b", totalB),
	)

	summary := &Summary{DocsIndexA: totalA, DocsIndexB: totalB}
	seen := make(map[string]struct{}, totalA)

	if err := s.scanPrimary(ctx, opts, totalA, seen, summary); err != nil {
		return nil, err
	}
	if err := s.scanSecondary(ctx, opts, totalB, seen, summary); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)

	if opts.FailOnDiff && summary.Differences() > 0 {
		return summary, ErrDifferencesFound
	}
	return summary, nil
}

// preflight verifies the service is reachable and both indices exist.
func (s *Service) preflight(ctx context.Context, opts Options) error {
	if err := s.es.Ping(ctx); err != nil {
		return err
	}
	for _, index := range []string{opts.IndexA, opts.IndexB} {
		exists, err := s.es.IndexExists(ctx, index)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("index %q does not exist", index)
		}
	}
	return nil
}

// scanPrimary drains index A, pairing each page against index B via
// multi-get and diffing matched documents.
func (s *Service) scanPrimary(ctx context.Context, opts Options, total int64, seen map[string]struct{}, summary *Summary) error {
	sc := elastic.NewScroller(s.es, opts.IndexA, opts.ScrollSize, opts.ScrollTime)
	defer s.closeScroller(ctx, sc)

	bar := newBar(total, "Scanning "+opts.IndexA, opts.Progress)
	defer bar.Finish()

	for {
		hits, err := sc.Next(ctx)
		if err != nil {
			return err
		}
		if hits == nil {
			return nil
		}
		batchStart := time.Now()

		ids := make([]string, 0, len(hits))
		for _, hit := range hits {
			ids = append(ids, hit.ID)
		}
		docsB, err := s.es.MultiGet(ctx, opts.IndexB, ids)
		if err != nil {
			return err
		}

		for _, hit := range hits {
			seen[hit.ID] = struct{}{}

			sourceB, found := docsB[hit.ID]
			if !found {
				summary.OnlyInA++
				if err := s.sink.Append(report.MissingRow(hit.ID, opts.IndexA)); err != nil {
					return err
				}
				continue
			}

			delta, err := s.differ.Compare(hit.Source, sourceB)
			if err != nil {
				return fmt.Errorf("failed to compare document %q: %w", hit.ID, err)
			}
			if delta.Empty() {
				summary.Identical++
				continue
			}

			summary.Changed++
			details, err := delta.Details()
			if err != nil {
				return fmt.Errorf("failed to serialize delta for %q: %w", hit.ID, err)
			}
			row := report.Row{
				DocID:          hit.ID,
				DifferenceType: report.TypeFieldDifference,
				DiffDetails:    details,
			}
			if err := s.sink.Append(row); err != nil {
				return err
			}
		}

		_ = bar.Add(len(hits))
		s.log.Debug("batch processed",
			zap.String("index", opts.IndexA),
			zap.Int("hits", len(hits)),
			zap.Duration("took", time.Since(batchStart)),
		)
	}
}

// scanSecondary drains index B and reports every id pass 1 never saw.
func (s *Service) scanSecondary(ctx context.Context, opts Options, total int64, seen map[string]struct{}, summary *Summary) error {
	sc := elastic.NewScroller(s.es, opts.IndexB, opts.ScrollSize, opts.ScrollTime)
	defer s.closeScroller(ctx, sc)

	bar := newBar(total, "Scanning "+opts.IndexB, opts.Progress)
	defer bar.Finish()

	for {
		hits, err := sc.Next(ctx)
		if err != nil {
			return err
		}
		if hits == nil {
			return nil
		}
		batchStart := time.Now()

		for _, hit := range hits {
			if _, ok := seen[hit.ID]; ok {
				continue
			}
			summary.OnlyInB++
			if err := s.sink.Append(report.MissingRow(hit.ID, opts.IndexB)); err != nil {
				return err
			}
		}

		_ = bar.Add(len(hits))
		s.log.Debug("batch processed",
			zap.String("index", opts.IndexB),
			zap.Int("hits", len(hits)),
			zap.Duration("took", time.Since(batchStart)),
		)
	}
}

// closeScroller releases the scroll context even when the run context is
// already canceled.
func (s *Service) closeScroller(ctx context.Context, sc *elastic.Scroller) {
	if err := sc.Close(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("failed to clear scroll", zap.String("index", sc.Index()), zap.Error(err))
	}
}

func newBar(total int64, description string, enabled bool) *progressbar.ProgressBar {
	if !enabled {
		return progressbar.DefaultSilent(total)
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
