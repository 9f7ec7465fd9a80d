// Package pricing runs the used-car price pipeline end to end: load the
// listings, encode them, split, scale, train a random forest, evaluate it on
// the held-out rows and price one example car.
package pricing

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/config"
	"github.com/ezoic/carprice/dataset"
	"github.com/ezoic/carprice/metrics"
	"github.com/ezoic/carprice/pkg/errors"
	"github.com/ezoic/carprice/pkg/log"
	"github.com/ezoic/carprice/preprocessing"
	"github.com/ezoic/carprice/sklearn/ensemble"
	"github.com/ezoic/carprice/sklearn/model_selection"
	"github.com/ezoic/carprice/sklearn/pipeline"
	"github.com/ezoic/carprice/viz"
)

// Figure file names inside the figures directory.
const (
	OverviewFigure    = "selling_price_overview.png"
	PredictionsFigure = "actual_vs_predicted.png"
)

// Result is what a run produced.
type Result struct {
	RunID   string
	Metrics metrics.Report

	YTest []float64
	YPred []float64

	// Example is the predicted selling price of the configured example row.
	Example float64

	FeatureNames       []string
	FeatureImportances []float64
	Encoders           dataset.Encoders

	// Figure paths; empty when plots are disabled.
	OverviewPath    string
	PredictionsPath string
}

// Run executes every stage in order and writes the report to out. The first
// failing stage aborts the run.
func Run(ctx context.Context, cfg config.Config, out io.Writer) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString()}
	logger := log.GetLoggerWithName("pricing").With(log.RunIDKey, res.RunID)
	start := time.Now()
	logger.Info("Run started", log.PathKey, cfg.DataPath, "n_estimators", cfg.NEstimators)

	// Load
	tbl, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, errors.Wrap(err, "load stage")
	}
	if _, err := fmt.Fprintln(out, tbl.Head(cfg.HeadRows)); err != nil {
		return nil, errors.Wrap(err, "write head")
	}

	// Preprocess
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listings, err := tbl.DropMissing().Listings()
	if err != nil {
		return nil, errors.Wrap(err, "preprocess stage")
	}
	enc, err := dataset.Encode(listings)
	if err != nil {
		return nil, errors.Wrap(err, "preprocess stage")
	}
	res.FeatureNames = enc.FeatureNames
	res.Encoders = enc.Encoders
	logger.Info("Preprocessing completed",
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, len(listings),
		log.FeaturesKey, len(enc.FeatureNames),
	)

	if cfg.Plots {
		names, cols := enc.NumericColumns(tbl.Names())
		res.OverviewPath = filepath.Join(cfg.FiguresDir, OverviewFigure)
		if err := viz.SaveExploration(res.OverviewPath, mat.Col(nil, 0, enc.Y), names, cols); err != nil {
			return nil, errors.Wrap(err, "overview figure")
		}
	}

	// Split and train
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	split, err := model_selection.TrainTestSplit(enc.X, enc.Y, cfg.TestSize, cfg.RandomState)
	if err != nil {
		return nil, errors.Wrap(err, "split stage")
	}

	forest := ensemble.NewRandomForestRegressor(
		ensemble.WithNEstimators(cfg.NEstimators),
		ensemble.WithRandomState(cfg.RandomState),
		ensemble.WithNJobs(cfg.NJobs),
	)
	model := pipeline.New(
		pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
		pipeline.Step{Name: "forest", Estimator: forest},
	)
	if err := model.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, errors.Wrap(err, "train stage")
	}
	res.FeatureImportances = forest.FeatureImportances()

	// Evaluate
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pred, err := model.Predict(split.XTest)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate stage")
	}
	yPred := mat.NewVecDense(split.YTest.Len(), mat.Col(nil, 0, pred))
	report, err := metrics.Evaluate(split.YTest, yPred)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate stage")
	}
	res.Metrics = report
	res.YTest = mat.Col(nil, 0, split.YTest)
	res.YPred = mat.Col(nil, 0, yPred)

	logger.Info("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseEvaluation,
		log.SamplesKey, report.N,
		"mae", report.MAE,
		"mse", report.MSE,
		"r2", report.R2,
	)
	if _, err := report.WriteTo(out); err != nil {
		return nil, errors.Wrap(err, "write metrics")
	}

	if cfg.Plots {
		res.PredictionsPath = filepath.Join(cfg.FiguresDir, PredictionsFigure)
		if err := viz.SavePredictions(res.PredictionsPath, res.YTest, res.YPred); err != nil {
			return nil, errors.Wrap(err, "predictions figure")
		}
	}

	// Example row, scaled with the training statistics.
	example, err := model.PredictRow(cfg.Example)
	if err != nil {
		return nil, errors.Wrap(err, "example prediction")
	}
	res.Example = example
	if _, err := fmt.Fprintf(out, "Predicted Selling Price: %v\n", example); err != nil {
		return nil, errors.Wrap(err, "write prediction")
	}

	logger.Info("Run completed", log.DurationMsKey, time.Since(start).Milliseconds())
	return res, nil
}
