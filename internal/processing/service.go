package processing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/RMahshie/rssifit/internal/locate"
	"github.com/RMahshie/rssifit/internal/pathloss"
	"github.com/RMahshie/rssifit/internal/repository"
	"github.com/RMahshie/rssifit/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Fitter estimates path-loss parameters from paired rssi/distance columns
type Fitter interface {
	Fit(ctx context.Context, rssi, distance []float64) (*models.FitResult, error)
}

// FitterFunc adapts a function to the Fitter interface
type FitterFunc func(ctx context.Context, rssi, distance []float64) (*models.FitResult, error)

func (f FitterFunc) Fit(ctx context.Context, rssi, distance []float64) (*models.FitResult, error) {
	return f(ctx, rssi, distance)
}

// NewLMFitter returns the Levenberg–Marquardt fitter with the given options
func NewLMFitter(opts pathloss.Options) Fitter {
	return FitterFunc(func(ctx context.Context, rssi, distance []float64) (*models.FitResult, error) {
		return pathloss.Fit(ctx, rssi, distance, &opts)
	})
}

type FitService interface {
	Run(ctx context.Context) (*models.FitResult, error)
}

type fitService struct {
	repository repository.MeasurementRepository
	fitter     Fitter
}

func NewFitService(repo repository.MeasurementRepository, fitter Fitter) FitService {
	return &fitService{
		repository: repo,
		fitter:     fitter,
	}
}

func (s *fitService) Run(ctx context.Context) (*models.FitResult, error) {
	runID := uuid.New()
	logger := log.With().Str("run_id", runID.String()).Logger()
	ctx = logger.WithContext(ctx)
	start := time.Now()

	// Step 1: Load labeled measurements
	logger.Debug().Msg("Loading measurements")
	data, err := s.repository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load measurements: %w", err)
	}
	logger.Info().
		Int("samples", data.Len()).
		Int("labels", len(data.ByDistance())).
		Int("distinct_rssi", data.DistinctRSSI()).
		Msg("Measurements loaded")

	if data.Len() == 0 {
		logger.Warn().Msg("No RSSI readings found in any labeled file")
	}

	// Step 2: Fit
	result, err := s.fitter.Fit(ctx, data.RSSIs(), data.Distances())
	if err != nil {
		return nil, fmt.Errorf("fit path-loss model: %w", err)
	}

	event := logger.Info().
		Float64("c", result.C).
		Float64("n", result.N).
		Float64("ssr", result.Residual).
		Int("iterations", result.Iterations).
		Int("evaluations", result.Evaluations).
		Dur("elapsed", time.Since(start))
	if sc, sn, ok := result.StdErr(); ok {
		event = event.Float64("c_stderr", sc).Float64("n_stderr", sn)
	}
	event.Msg("Model fitted")

	// Step 3: Per-label breakdown for diagnostics
	for _, summary := range Summarize(data, pathloss.Model{C: result.C, N: result.N}) {
		logger.Debug().
			Float64("distance", summary.Distance).
			Int("samples", summary.Samples).
			Float64("mean_rssi", summary.MeanRSSI).
			Float64("mean_predicted", locate.RoundDistance(summary.MeanPredicted)).
			Float64("rmse", locate.RoundDistance(summary.RMSE)).
			Msg("Label fit")
	}

	return result, nil
}

// Summarize compares model predictions against each distance label, sorted
// by distance
func Summarize(data models.Dataset, model pathloss.Model) []models.LabelSummary {
	groups := data.ByDistance()
	out := make([]models.LabelSummary, 0, len(groups))

	for distance, group := range groups {
		observed := group.RSSIs()
		predicted := make([]float64, len(observed))
		for i, rssi := range observed {
			predicted[i] = model.Distance(rssi)
		}
		labels := make([]float64, len(observed))
		floats.AddConst(distance, labels)

		n := float64(len(group))
		out = append(out, models.LabelSummary{
			Distance:      distance,
			Samples:       len(group),
			MeanRSSI:      stat.Mean(observed, nil),
			MeanPredicted: stat.Mean(predicted, nil),
			RMSE:          floats.Distance(predicted, labels, 2) / math.Sqrt(n),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
