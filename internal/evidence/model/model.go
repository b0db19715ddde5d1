// Package model loads exported scoring artifacts.
//
// Artifacts are JSON documents produced by the offline training job. They
// are parsed once at startup into immutable handles that are safe for
// concurrent use; nothing here reloads or mutates a loaded model.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
)

// ErrModelUnavailable is returned when an artifact is missing or malformed.
// Callers recover by selecting rule-based scoring.
var ErrModelUnavailable = errors.New("model unavailable")

// Artifact kinds.
const (
	KindLogistic = "logistic"
	KindLinear   = "linear"
	KindForest   = "forest"
)

const defaultThreshold = 0.5

type artifact struct {
	Kind      string    `json:"kind"`
	Features  []string  `json:"features"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	Threshold *float64  `json:"threshold"`
	Trees     []tree    `json:"trees"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

// node mirrors sklearn's flattened tree arrays: left == -1 marks a leaf.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Classifier is a binary logistic-regression classifier.
type Classifier struct {
	features  []string
	weights   []float64
	intercept float64
	threshold float64
}

// Regressor predicts a continuous score with a linear model or a tree ensemble.
type Regressor struct {
	kind      string
	features  []string
	weights   []float64
	intercept float64
	trees     []tree
}

// LoadClassifier reads a logistic artifact whose inputs are features, in order.
func LoadClassifier(path string, features []string) (*Classifier, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	return ParseClassifier(data, features)
}

// ParseClassifier decodes a logistic artifact. An artifact that names its
// features must name exactly features, in the same order.
func ParseClassifier(data []byte, features []string) (*Classifier, error) {
	a, err := decode(data)
	if err != nil {
		return nil, err
	}
	if a.Kind != KindLogistic {
		return nil, fmt.Errorf("%w: classifier kind %q", ErrModelUnavailable, a.Kind)
	}
	if err := checkFeatures(a.Features, features); err != nil {
		return nil, err
	}
	if len(a.Weights) != len(features) {
		return nil, fmt.Errorf("%w: classifier has %d weights, want %d", ErrModelUnavailable, len(a.Weights), len(features))
	}
	if !allFinite(a.Weights) || !allFinite([]float64{a.Intercept}) {
		return nil, fmt.Errorf("%w: classifier has non-finite coefficients", ErrModelUnavailable)
	}
	threshold := defaultThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if !(threshold > 0 && threshold < 1) {
		return nil, fmt.Errorf("%w: threshold %v outside (0,1)", ErrModelUnavailable, threshold)
	}
	return &Classifier{
		features:  slices.Clone(features),
		weights:   a.Weights,
		intercept: a.Intercept,
		threshold: threshold,
	}, nil
}

// Probability returns P(positive | x).
func (c *Classifier) Probability(x []float64) float64 {
	return sigmoid(dot(c.weights, x) + c.intercept)
}

// Predict reports whether x is classified positive.
func (c *Classifier) Predict(x []float64) bool {
	return c.Probability(x) >= c.threshold
}

// Features lists the input names in order.
func (c *Classifier) Features() []string {
	return c.features
}

// LoadRegressor reads a linear or forest artifact whose inputs are
// features, in order.
func LoadRegressor(path string, features []string) (*Regressor, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	return ParseRegressor(data, features)
}

// ParseRegressor decodes a linear or forest artifact. Feature names are
// checked as in ParseClassifier, and every parameter must be finite.
func ParseRegressor(data []byte, features []string) (*Regressor, error) {
	a, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := checkFeatures(a.Features, features); err != nil {
		return nil, err
	}
	r := &Regressor{kind: a.Kind, features: slices.Clone(features), intercept: a.Intercept}
	switch a.Kind {
	case KindLinear:
		if len(a.Weights) != len(features) {
			return nil, fmt.Errorf("%w: regressor has %d weights, want %d", ErrModelUnavailable, len(a.Weights), len(features))
		}
		if !allFinite(a.Weights) || !allFinite([]float64{a.Intercept}) {
			return nil, fmt.Errorf("%w: regressor has non-finite coefficients", ErrModelUnavailable)
		}
		r.weights = a.Weights
	case KindForest:
		if len(a.Trees) == 0 {
			return nil, fmt.Errorf("%w: forest has no trees", ErrModelUnavailable)
		}
		for i, t := range a.Trees {
			if err := t.validate(len(features)); err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", ErrModelUnavailable, i, err)
			}
		}
		r.trees = a.Trees
	default:
		return nil, fmt.Errorf("%w: regressor kind %q", ErrModelUnavailable, a.Kind)
	}
	if baseline := r.Predict(make([]float64, len(features))); math.IsNaN(baseline) || math.IsInf(baseline, 0) {
		return nil, fmt.Errorf("%w: baseline prediction is %v", ErrModelUnavailable, baseline)
	}
	return r, nil
}

// Predict returns the raw, unclamped score for x.
func (r *Regressor) Predict(x []float64) float64 {
	if r.kind == KindLinear {
		return dot(r.weights, x) + r.intercept
	}
	var sum float64
	for _, t := range r.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(r.trees))
}

// Kind returns KindLinear or KindForest.
func (r *Regressor) Kind() string {
	return r.kind
}

// Features lists the input names in order.
func (r *Regressor) Features() []string {
	return r.features
}

func (t tree) validate(nFeatures int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Left == -1 {
			if !allFinite([]float64{n.Value}) {
				return fmt.Errorf("leaf %d has value %v", i, n.Value)
			}
			continue
		}
		if !allFinite([]float64{n.Threshold}) {
			return fmt.Errorf("node %d has threshold %v", i, n.Threshold)
		}
		// children always follow their parent, which rules out cycles
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d", i, n.Feature)
		}
	}
	return nil
}

func (t tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left == -1 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func readArtifact(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no artifact path configured", ErrModelUnavailable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return data, nil
}

func decode(data []byte) (*artifact, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode artifact: %v", ErrModelUnavailable, err)
	}
	return &a, nil
}

func checkFeatures(named, want []string) error {
	if len(named) == 0 || slices.Equal(named, want) {
		return nil
	}
	return fmt.Errorf("%w: artifact features %v, want %v", ErrModelUnavailable, named, want)
}

func allFinite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func dot(w, x []float64) float64 {
	var sum float64
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
