package pathloss

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/RMahshie/rssifit/pkg/models"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const numParams = 2

var (
	ErrLengthMismatch   = errors.New("rssi and distance lengths differ")
	ErrInsufficientData = errors.New("not enough samples to fit two parameters")
	ErrDegenerate       = errors.New("degenerate dataset")
	ErrNotConverged     = errors.New("fit did not converge")
)

// Options tunes the Levenberg–Marquardt solver. The zero value is usable.
type Options struct {
	// Initial guess, DefaultInitial when zero
	Initial Model
	// Budget of model evaluations, 200·(params+1) when zero
	MaxEvaluations int
	// Relative reduction of the sum of squares that counts as converged
	FTol float64
	// Relative step size that counts as converged
	XTol float64
	// Max-norm of the gradient that counts as converged
	GTol float64
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Initial == (Model{}) {
		out.Initial = DefaultInitial
	}
	if out.MaxEvaluations <= 0 {
		out.MaxEvaluations = 200 * (numParams + 1)
	}
	if out.FTol <= 0 {
		out.FTol = 1.49012e-8
	}
	if out.XTol <= 0 {
		out.XTol = 1.49012e-8
	}
	return out
}

const (
	lambdaInit = 1e-3
	lambdaMin  = 1e-15
	lambdaMax  = 1e20
)

// Fit estimates C and N by nonlinear least squares, minimising
// Σ(distance[i] - Model.Distance(rssi[i]))². The result is deterministic for
// a given input and options. Accepted steps are traced to the logger carried
// by ctx, if any.
func Fit(ctx context.Context, rssi, distance []float64, opts *Options) (*models.FitResult, error) {
	o := opts.withDefaults()
	logger := zerolog.Ctx(ctx)

	m := len(rssi)
	if m != len(distance) {
		return nil, fmt.Errorf("%w: %d rssi, %d distance", ErrLengthMismatch, m, len(distance))
	}
	if m < numParams {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientData, m)
	}
	for i := range rssi {
		if !isFinite(rssi[i]) || !isFinite(distance[i]) {
			return nil, fmt.Errorf("%w: non-finite sample at index %d", ErrDegenerate, i)
		}
	}
	if distinct(rssi) < numParams {
		return nil, fmt.Errorf("%w: need at least %d distinct rssi values", ErrDegenerate, numParams)
	}

	p := o.Initial.params()
	res := make([]float64, m)
	resNew := make([]float64, m)
	pNew := make([]float64, numParams)
	jac := mat.NewDense(m, numParams, nil)

	evals := 1
	cost := residuals(p, rssi, distance, res)
	if !isFinite(cost) {
		return nil, fmt.Errorf("%w: non-finite residual at initial guess (C=%g, n=%g)", ErrNotConverged, p[0], p[1])
	}

	lambda := lambdaInit
	iter := 0
	converged := cost == 0

	for !converged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		jacobian(p, rssi, jac)
		var jtj mat.SymDense
		jtj.SymOuterK(1, jac.T())
		var g mat.VecDense
		g.MulVec(jac.T(), mat.NewVecDense(m, res))

		if floats.Norm(g.RawVector().Data, math.Inf(1)) <= o.GTol {
			break
		}

		// Shrink the trust region until a step lowers the sum of squares.
		for {
			if evals >= o.MaxEvaluations {
				return nil, fmt.Errorf("%w: %d evaluations exhausted (C=%g, n=%g)", ErrNotConverged, evals, p[0], p[1])
			}

			step, ok := dampedStep(&jtj, &g, lambda)
			if !ok {
				lambda *= 10
				if lambda > lambdaMax {
					return nil, fmt.Errorf("%w: damping overflow", ErrNotConverged)
				}
				continue
			}

			floats.AddTo(pNew, p, step)
			costNew := residuals(pNew, rssi, distance, resNew)
			evals++

			stepNorm := floats.Norm(step, 2)
			small := stepNorm <= o.XTol*(o.XTol+floats.Norm(p, 2))

			if isFinite(costNew) && costNew < cost {
				reduction := cost - costNew
				prev := cost
				copy(p, pNew)
				res, resNew = resNew, res
				cost = costNew
				lambda = math.Max(lambda/10, lambdaMin)
				iter++

				logger.Trace().Int("iteration", iter).Float64("c", p[0]).Float64("n", p[1]).
					Float64("ssr", cost).Float64("lambda", lambda).Msg("LM step accepted")

				converged = cost == 0 || reduction <= o.FTol*prev || small
				break
			}

			if small {
				converged = true
				break
			}
			lambda *= 10
			if lambda > lambdaMax {
				return nil, fmt.Errorf("%w: damping overflow (C=%g, n=%g)", ErrNotConverged, p[0], p[1])
			}
		}
	}

	if !isFinite(p[0]) || !isFinite(p[1]) {
		return nil, fmt.Errorf("%w: non-finite parameters", ErrNotConverged)
	}

	return &models.FitResult{
		C:           p[0],
		N:           p[1],
		Covariance:  covariance(p, rssi, cost),
		Residual:    cost,
		Iterations:  iter,
		Evaluations: evals,
		Samples:     m,
	}, nil
}

// dampedStep solves (JᵀJ + λ·diag(JᵀJ))·δ = Jᵀr
func dampedStep(jtj *mat.SymDense, g *mat.VecDense, lambda float64) ([]float64, bool) {
	n := jtj.SymmetricDim()
	damped := mat.NewSymDense(n, nil)
	damped.CopySym(jtj)
	for i := 0; i < n; i++ {
		d := jtj.At(i, i)
		if d == 0 {
			d = 1
		}
		damped.SetSym(i, i, jtj.At(i, i)+lambda*d)
	}

	var chol mat.Cholesky
	if !chol.Factorize(damped) {
		return nil, false
	}
	var step mat.VecDense
	if err := chol.SolveVecTo(&step, g); err != nil {
		return nil, false
	}
	out := step.RawVector().Data
	for _, v := range out {
		if !isFinite(v) {
			return nil, false
		}
	}
	return out, true
}

// covariance follows the usual curve-fitting convention inv(JᵀJ)·SSR/(m-p).
// It is nil for an exactly determined fit or a singular JᵀJ.
func covariance(p, rssi []float64, ssr float64) *mat.SymDense {
	m := len(rssi)
	if m <= numParams {
		return nil
	}
	jac := mat.NewDense(m, numParams, nil)
	jacobian(p, rssi, jac)

	var jtj mat.SymDense
	jtj.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if !chol.Factorize(&jtj) {
		return nil
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil
	}
	cov.ScaleSym(ssr/float64(m-numParams), &cov)
	return &cov
}

// residuals fills out with distance - model(rssi) and returns the sum of squares
func residuals(p, rssi, distance, out []float64) float64 {
	model := modelFrom(p)
	for i, r := range rssi {
		out[i] = distance[i] - model.Distance(r)
	}
	return floats.Dot(out, out)
}

func jacobian(p, rssi []float64, dst *mat.Dense) {
	model := modelFrom(p)
	for i, r := range rssi {
		dC, dN := model.Jacobian(r)
		dst.Set(i, 0, dC)
		dst.Set(i, 1, dN)
	}
}

func distinct(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
