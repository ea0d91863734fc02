package common

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"careernav/internal/analysis"
	"careernav/internal/errors"
	"careernav/internal/types"
	"careernav/internal/utils"
)

// DocumentAnalyzer scores one resume document
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, source string, data []byte, filename, contentType string) (types.AnalysisReport, error)
}

// RunAnalyzeCommand expands the CLI arguments, scores every file and writes
// the output. A single input produces one report; several inputs produce a
// batch where per-file failures are reported inline. The command fails when
// every file fails.
func RunAnalyzeCommand(
	ctx context.Context,
	logger *errors.Logger,
	analyzer DocumentAnalyzer,
	cmdConfig CommandConfig,
	args []string,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	files, err := utils.ExpandInputs(args)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "Invalid input arguments", err)
	}

	if len(files) == 1 {
		report, err := analyzeFile(ctx, fileProcessor, analyzer, files[0])
		if err != nil {
			return err
		}
		logger.Info("Resume analyzed", "file", files[0], "score", report.Score, "grade", report.Grade)
		return outputHandler.HandleOutput(report, cmdConfig)
	}

	reports, failed, err := analyzeBatch(ctx, logger, fileProcessor, analyzer, files, cmdConfig.Concurrency)
	if err != nil {
		return err
	}
	if failed == len(files) {
		return errors.NewAnalysisError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("All %d files failed to analyze", len(files)), nil)
	}

	logger.Info("Batch analysis completed", "files", len(files), "failed", failed)
	return outputHandler.HandleOutput(reports, cmdConfig)
}

func analyzeFile(ctx context.Context, fp *FileProcessor, analyzer DocumentAnalyzer, path string) (types.AnalysisReport, error) {
	data, err := fp.ValidateAndReadFile(path)
	if err != nil {
		return types.AnalysisReport{}, err
	}
	return analyzer.AnalyzeDocument(ctx, analysis.SourceCLI, data, path, "")
}

// analyzeBatch scores files with at most concurrency in flight. Results keep
// the input order.
func analyzeBatch(
	ctx context.Context,
	logger *errors.Logger,
	fp *FileProcessor,
	analyzer DocumentAnalyzer,
	files []string,
	concurrency int,
) ([]types.FileReport, int, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	reports := make([]types.FileReport, len(files))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			reports[i] = types.FileReport{File: path}
			report, err := analyzeFile(gctx, fp, analyzer, path)
			if err != nil {
				failed.Add(1)
				logger.LogError(err, "Failed to analyze file", "file", path)
				reports[i].Error = err.Error()
				return nil
			}
			reports[i].Report = &report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return reports, int(failed.Load()), nil
}
