// Package ingest turns raw user input into validated model parameters.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"regsim/domain/core"
	"regsim/domain/regression"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Limits caps request sizes so a single generation stays bounded in N*S
type Limits struct {
	MaxObservations int
	MaxSimulations  int
}

// DefaultLimits are used when the caller passes the zero value
var DefaultLimits = Limits{MaxObservations: 1_000_000, MaxSimulations: 1_000_000}

// ParameterInput mirrors the generation form fields
type ParameterInput struct {
	N      int     `yaml:"N" validate:"gte=1"`
	Mu     float64 `yaml:"mu"`
	Sigma2 float64 `yaml:"sigma2" validate:"gte=0"`
	Beta0  float64 `yaml:"beta0"`
	Beta1  float64 `yaml:"beta1"`
	S      int     `yaml:"S" validate:"gte=1"`
}

// Scenario is a named parameter set loaded from YAML
type Scenario struct {
	Name       string         `yaml:"name"`
	Seed       int64          `yaml:"seed"`
	Parameters ParameterInput `yaml:"parameters"`
}

var validate = validator.New()

// FromForm parses form-style string values keyed N, mu, sigma2, beta0, beta1 and S
func FromForm(values map[string]string, limits Limits) (regression.ModelParameters, error) {
	var in ParameterInput
	var err error

	if in.N, err = parseInt(values, "N"); err != nil {
		return regression.ModelParameters{}, err
	}
	if in.S, err = parseInt(values, "S"); err != nil {
		return regression.ModelParameters{}, err
	}
	for key, dst := range map[string]*float64{"mu": &in.Mu, "sigma2": &in.Sigma2, "beta0": &in.Beta0, "beta1": &in.Beta1} {
		if *dst, err = parseFloat(values, key); err != nil {
			return regression.ModelParameters{}, err
		}
	}
	return in.toParams(limits)
}

// LoadScenarioFile reads a YAML scenario from disk
func LoadScenarioFile(path string, limits Limits) (*Scenario, regression.ModelParameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, regression.ModelParameters{}, fmt.Errorf("open scenario %s: %w", path, err)
	}
	defer f.Close()
	return ParseScenario(f, limits)
}

// ParseScenario decodes and validates a YAML scenario
func ParseScenario(r io.Reader, limits Limits) (*Scenario, regression.ModelParameters, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, regression.ModelParameters{}, core.NewInvalidParameterError("scenario", err.Error())
	}
	params, err := sc.Parameters.toParams(limits)
	if err != nil {
		return nil, regression.ModelParameters{}, err
	}
	return &sc, params, nil
}

func (in ParameterInput) toParams(limits Limits) (regression.ModelParameters, error) {
	if err := validate.Struct(in); err != nil {
		return regression.ModelParameters{}, translate(err)
	}
	if limits == (Limits{}) {
		limits = DefaultLimits
	}
	if limits.MaxObservations > 0 && in.N > limits.MaxObservations {
		return regression.ModelParameters{}, core.NewInvalidParameterError("N", fmt.Sprintf("must be <= %d", limits.MaxObservations))
	}
	if limits.MaxSimulations > 0 && in.S > limits.MaxSimulations {
		return regression.ModelParameters{}, core.NewInvalidParameterError("S", fmt.Sprintf("must be <= %d", limits.MaxSimulations))
	}

	params := regression.ModelParameters{
		N:      in.N,
		Mu:     in.Mu,
		Beta0:  in.Beta0,
		Beta1:  in.Beta1,
		Sigma2: in.Sigma2,
		S:      in.S,
	}
	if err := params.Validate(); err != nil {
		return regression.ModelParameters{}, err
	}
	return params, nil
}

// translate turns the first validator failure into a domain error
func translate(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return core.NewInvalidParameterError(fe.Field(), fmt.Sprintf("failed %s=%s (got %v)", fe.Tag(), fe.Param(), fe.Value()))
	}
	return core.NewInvalidParameterError("parameters", err.Error())
}

func lookup(values map[string]string, key string) (string, error) {
	raw, ok := values[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return "", core.NewInvalidParameterError(key, "is required")
	}
	return strings.TrimSpace(raw), nil
}

func parseInt(values map[string]string, key string) (int, error) {
	raw, err := lookup(values, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewInvalidParameterError(key, fmt.Sprintf("%q is not an integer", raw))
	}
	return v, nil
}

func parseFloat(values map[string]string, key string) (float64, error) {
	raw, err := lookup(values, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, core.NewInvalidParameterError(key, fmt.Sprintf("%q is not a number", raw))
	}
	return v, nil
}
