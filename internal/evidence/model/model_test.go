package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"expenseai/internal/evidence/profile"
)

var (
	eligibilityNames = profile.EligibilityFeatureNames
	trustNames       = profile.TrustFeatureNames
)

type ModelSuite struct {
	suite.Suite
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func (s *ModelSuite) TestClassifier() {
	clf, err := LoadClassifier(testdata("eligibility_logistic.json"), eligibilityNames)
	s.Require().NoError(err)
	s.Equal([]string{"income", "family_size", "utility_bills_paid"}, clf.Features())

	s.Run("low income household with paid bills is positive", func() {
		s.True(clf.Predict([]float64{30000, 4, 1}))
		s.InDelta(0.9955, clf.Probability([]float64{30000, 4, 1}), 0.001)
	})

	s.Run("high income household with unpaid bills is negative", func() {
		s.False(clf.Predict([]float64{120000, 2, 0}))
	})

	s.Run("unpaid bills flip a borderline household", func() {
		s.True(clf.Predict([]float64{45000, 3, 1}))
		s.False(clf.Predict([]float64{45000, 3, 0}))
	})
}

func (s *ModelSuite) TestRegressor() {
	s.Run("linear artifact", func() {
		reg, err := LoadRegressor(testdata("trust_linear.json"), trustNames)
		s.Require().NoError(err)
		s.Equal(KindLinear, reg.Kind())
		s.InDelta(89.5, reg.Predict([]float64{45000, 4, 1, 0, 7, 0}), 1e-9)
		s.InDelta(6.0, reg.Predict([]float64{30000, 2, 0, 1, 0, 2}), 1e-9)
	})

	s.Run("forest artifact averages its trees", func() {
		reg, err := LoadRegressor(testdata("trust_forest.json"), trustNames)
		s.Require().NoError(err)
		s.Equal(KindForest, reg.Kind())
		s.InDelta(75.0, reg.Predict([]float64{60000, 5, 1, 0, 3, 0}), 1e-9)
		s.InDelta(25.0, reg.Predict([]float64{60000, 5, 1, 1, 3, 2}), 1e-9)
	})
}

func (s *ModelSuite) TestLoadFailuresAreModelUnavailable() {
	cases := []struct {
		name string
		load func() error
	}{
		{"empty path", func() error { _, err := LoadClassifier("", eligibilityNames); return err }},
		{"missing file", func() error { _, err := LoadRegressor(testdata("nope.json"), trustNames); return err }},
		{"truncated json", func() error { _, err := LoadClassifier(testdata("truncated.json"), eligibilityNames); return err }},
		{"weight count mismatch", func() error {
			_, err := ParseClassifier([]byte(`{"kind":"logistic","weights":[1,2]}`), eligibilityNames)
			return err
		}},
		{"wrong kind for classifier", func() error { _, err := LoadClassifier(testdata("trust_linear.json"), trustNames); return err }},
		{"wrong kind for regressor", func() error { _, err := LoadRegressor(testdata("eligibility_logistic.json"), eligibilityNames); return err }},
		{"cyclic tree", func() error { _, err := LoadRegressor(testdata("cyclic_forest.json"), []string{"income"}); return err }},
		{"forest feature out of range", func() error {
			_, err := ParseRegressor([]byte(`{"kind":"forest","trees":[{"nodes":[
				{"feature":4,"threshold":0.5,"left":1,"right":2},
				{"left":-1,"right":-1,"value":10},
				{"left":-1,"right":-1,"value":20}]}]}`), eligibilityNames)
			return err
		}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.ErrorIs(tc.load(), ErrModelUnavailable)
		})
	}
}

func (s *ModelSuite) TestThresholdBounds() {
	_, err := ParseClassifier([]byte(`{"kind":"logistic","weights":[1],"threshold":1.5}`), []string{"income"})
	s.ErrorIs(err, ErrModelUnavailable)

	clf, err := ParseClassifier([]byte(`{"kind":"logistic","weights":[1],"intercept":-2,"threshold":0.9}`), []string{"income"})
	s.Require().NoError(err)
	s.False(clf.Predict([]float64{3}))
	s.True(clf.Predict([]float64{5}))
}

func (s *ModelSuite) TestFeatureNamesMustMatchInputOrder() {
	s.Run("reordered classifier columns", func() {
		_, err := ParseClassifier([]byte(`{"kind":"logistic",
			"features":["family_size","income","utility_bills_paid"],
			"weights":[0.35,-0.0002,4.0],"intercept":6.0}`), eligibilityNames)
		s.ErrorIs(err, ErrModelUnavailable)
	})

	s.Run("unknown classifier columns", func() {
		_, err := ParseClassifier([]byte(`{"kind":"logistic",
			"features":["foo","bar","baz"],
			"weights":[1,1,1]}`), eligibilityNames)
		s.ErrorIs(err, ErrModelUnavailable)
	})

	s.Run("regressor trained on fewer columns", func() {
		_, err := ParseRegressor([]byte(`{"kind":"linear",
			"features":["income","family_size","utility_bills_paid"],
			"weights":[0,0,0,0,0,0]}`), trustNames)
		s.ErrorIs(err, ErrModelUnavailable)
	})

	s.Run("unnamed artifact is trusted to follow input order", func() {
		clf, err := ParseClassifier([]byte(`{"kind":"logistic","weights":[-0.0002,0.35,4.0],"intercept":6.0}`), eligibilityNames)
		s.Require().NoError(err)
		s.Equal(eligibilityNames, clf.Features())
	})
}

func (s *ModelSuite) TestRejectsArtifactsWithoutFiniteBaseline() {
	cases := map[string]string{
		"overflowing weight": `{"kind":"linear","weights":[1e400,0,0,0,0,0]}`,
		"leaf sum overflows": `{"kind":"forest","trees":[{"nodes":[{"left":-1,"right":-1,"value":1.7e308}]},{"nodes":[{"left":-1,"right":-1,"value":1.7e308}]}]}`,
	}
	for name, doc := range cases {
		s.Run(name, func() {
			_, err := ParseRegressor([]byte(doc), trustNames)
			s.ErrorIs(err, ErrModelUnavailable)
		})
	}
}
