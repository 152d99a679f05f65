package simulation

import (
	"fmt"
	"math"

	"regsim/domain/core"
	"regsim/domain/regression"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FitOLS fits Y = intercept + slope*X by ordinary least squares.
// slope = Cov(X,Y)/Var(X) and intercept = mean(Y) - slope*mean(X).
func FitOLS(ds *regression.Dataset) (regression.FitResult, error) {
	if ds == nil {
		return regression.FitResult{}, core.NewDegenerateInputError("dataset is nil")
	}
	if len(ds.X) != len(ds.Y) {
		return regression.FitResult{}, core.NewDegenerateInputError(
			fmt.Sprintf("X has %d values but Y has %d", len(ds.X), len(ds.Y)))
	}
	if len(ds.X) < 2 {
		return regression.FitResult{}, core.NewDegenerateInputError(
			fmt.Sprintf("need at least 2 observations, got %d", len(ds.X)))
	}
	// identical X values give zero variance and an undefined slope
	if floats.Min(ds.X) == floats.Max(ds.X) {
		return regression.FitResult{}, core.NewDegenerateInputError("all X values are identical")
	}

	intercept, slope := stat.LinearRegression(ds.X, ds.Y, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return regression.FitResult{}, core.NewDegenerateInputError("fit produced non-finite coefficients")
	}

	return regression.FitResult{Slope: slope, Intercept: intercept}, nil
}
