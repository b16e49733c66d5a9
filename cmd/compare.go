package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"es-diff/core/config"
	"es-diff/core/diff"
	"es-diff/core/elastic"
	"es-diff/core/logger"
	"es-diff/core/report"
	"es-diff/core/storage"
	"es-diff/feature/compare"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the compare command
	compareHost     string
	compareIndexA   string
	compareIndexB   string
	compareOutput   string
	compareSize     int
	compareTime     string
	comparePaths    []string
	compareUpload   bool
	compareFailDiff bool
	compareNoBar    bool
)

// compareCmd runs a full comparison of two indices.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two indices and write differences to a CSV report",
	Long: `Compare two Elasticsearch indices document by document.

Both indices are drained through the scroll protocol, documents are paired
by _id and diffed field by field. Every discrepancy becomes one CSV row:
documents missing on either side and documents whose fields differ.

Examples:
  # Basic comparison
  es-diff compare --host http://localhost:9200 --index-a products-v1 --index-b products-v2

  # Ignore generated fields
  es-diff compare --host http://localhost:9200 --index-a a --index-b b \
    --exclude-path updated_at --exclude-path "root['meta']['revision']"

  # Fail with exit status 2 when the indices differ (CI gate)
  es-diff compare --host http://localhost:9200 --index-a a --index-b b --fail-on-diff

  # Upload the finished report to object storage
  es-diff compare --host http://localhost:9200 --index-a a --index-b b --upload`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareHost, "host", "", "Elasticsearch host (e.g. http://localhost:9200); defaults to ELASTIC_HOST")
	compareCmd.Flags().StringVar(&compareIndexA, "index-a", "", "First index to compare")
	compareCmd.Flags().StringVar(&compareIndexB, "index-b", "", "Second index to compare")
	compareCmd.Flags().StringVar(&compareOutput, "output-csv", "", "Output CSV file name (default: <timestamp>-<index-a>-by-<index-b>.csv)")
	compareCmd.Flags().IntVar(&compareSize, "scroll-size", 0, "Documents per scroll page; defaults to ELASTIC_SCROLL_SIZE")
	compareCmd.Flags().StringVar(&compareTime, "scroll-time", "", "Scroll context lifetime (e.g. 2m, 30s); defaults to ELASTIC_SCROLL_TIME")
	compareCmd.Flags().StringArrayVar(&comparePaths, "exclude-path", nil, "Field path to ignore during comparison (repeatable)")
	compareCmd.Flags().BoolVar(&compareUpload, "upload", false, "Upload the finished report to object storage")
	compareCmd.Flags().BoolVar(&compareFailDiff, "fail-on-diff", false, "Exit with status 2 when any difference is found")
	compareCmd.Flags().BoolVar(&compareNoBar, "no-progress", false, "Disable progress bars")

	_ = compareCmd.MarkFlagRequired("index-a")
	_ = compareCmd.MarkFlagRequired("index-b")

	RootCmd.AddCommand(compareCmd)
}

// compareParams is the validated, merged (flags over config) input of a run.
type compareParams struct {
	Host       string
	IndexA     string
	IndexB     string
	Output     string
	ScrollSize int
	ScrollTime time.Duration
	Excludes   diff.Excludes
}

// resolveCompareParams merges flags with config defaults and validates
// everything the run depends on.
func resolveCompareParams(cfg *elastic.Config, now time.Time) (*compareParams, error) {
	p := &compareParams{
		Host:       compareHost,
		IndexA:     compareIndexA,
		IndexB:     compareIndexB,
		Output:     compareOutput,
		ScrollSize: compareSize,
	}

	if p.Host == "" {
		p.Host = cfg.Host
	}
	if !strings.HasPrefix(p.Host, "http://") && !strings.HasPrefix(p.Host, "https://") {
		return nil, fmt.Errorf("host %q must start with http:// or https://", p.Host)
	}

	if p.IndexA == "" || p.IndexB == "" {
		return nil, errors.New("both --index-a and --index-b are required")
	}
	if p.IndexA == p.IndexB {
		return nil, errors.New("--index-a and --index-b must be different")
	}

	if p.ScrollSize == 0 {
		p.ScrollSize = cfg.ScrollSize
	}
	if p.ScrollSize <= 0 {
		return nil, fmt.Errorf("scroll size must be a positive integer, got %d", p.ScrollSize)
	}

	rawTime := compareTime
	if rawTime == "" {
		rawTime = cfg.ScrollTime
	}
	scrollTime, err := time.ParseDuration(rawTime)
	if err != nil {
		return nil, fmt.Errorf("invalid scroll time %q: %w", rawTime, err)
	}
	if scrollTime <= 0 {
		return nil, fmt.Errorf("scroll time must be positive, got %s", scrollTime)
	}
	p.ScrollTime = scrollTime

	excludes, err := diff.ParseExcludes(comparePaths)
	if err != nil {
		return nil, err
	}
	p.Excludes = excludes

	if p.Output == "" {
		p.Output = report.Filename(p.IndexA, p.IndexB, now)
	}
	return p, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	params, err := resolveCompareParams(&cfg.Elastic, time.Now())
	if err != nil {
		return err
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	runID := uuid.NewString()
	l = logger.WithRunID(l, runID)

	l.Info("comparing indices",
		zap.String("host", params.Host),
		zap.String("index_a", params.IndexA),
		zap.String("index_b", params.IndexB),
		zap.String("output", params.Output),
	)

	// Connect to Elasticsearch
	esCfg := cfg.Elastic
	esCfg.Host = params.Host
	es, err := elastic.NewClient(esCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to elasticsearch: %w", err)
	}

	// Open the report
	writer, err := report.NewWriter(params.Output)
	if err != nil {
		return err
	}

	svc := compare.NewService(es, diff.NewDiffer(params.Excludes), writer, l)

	summary, runErr := svc.Run(ctx, compare.Options{
		IndexA:     params.IndexA,
		IndexB:     params.IndexB,
		ScrollSize: params.ScrollSize,
		ScrollTime: params.ScrollTime,
		Progress:   !compareNoBar,
		FailOnDiff: compareFailDiff,
	})

	// Close before any upload so the file is fully flushed. A partial
	// report is left on disk when the run aborts midway.
	if closeErr := writer.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil && !errors.Is(runErr, compare.ErrDifferencesFound) {
		return runErr
	}

	l.Info("comparison complete",
		zap.String("output", params.Output),
		zap.Int64("docs_index_a", summary.DocsIndexA),
		zap.Int64("docs_index_b", summary.DocsIndexB),
		zap.Int("only_in_a", summary.OnlyInA),
		zap.Int("only_in_b", summary.OnlyInB),
		zap.Int("changed", summary.Changed),
		zap.Int("identical", summary.Identical),
		zap.Duration("duration", summary.Duration),
	)

	if compareUpload {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		objectName, err := compare.UploadReport(ctx, client, cfg.Storage.Bucket, runID, params.Output)
		if err != nil {
			return err
		}
		l.Info("report uploaded",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("object", objectName),
		)
	}

	return runErr
}
