package common

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetLastStatusCode() int
	GetLastResponseBody() []byte
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers health and generic assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the service is healthy$`, steps.serviceIsHealthy)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should be (true|false)$`, steps.fieldShouldBeBool)
	ctx.Step(`^the response field "([^"]*)" should match "([^"]*)"$`, steps.fieldShouldMatch)
	ctx.Step(`^the response should contain (\d+) items?$`, steps.responseShouldContainItems)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsHealthy(ctx context.Context) error {
	if err := s.tc.GET("/health", nil); err != nil {
		return err
	}
	if s.tc.GetLastStatusCode() != 200 {
		return fmt.Errorf("health returned %d: %s", s.tc.GetLastStatusCode(), s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.GetLastStatusCode(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s=%q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeBool(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("field %s is %T, not bool", field, v)
	}
	if fmt.Sprint(b) != want {
		return fmt.Errorf("expected %s=%s, got %t", field, want, b)
	}
	return nil
}

func (s *commonSteps) fieldShouldMatch(ctx context.Context, field, pattern string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); !re.MatchString(got) {
		return fmt.Errorf("%s=%q does not match %s", field, got, pattern)
	}
	return nil
}

func (s *commonSteps) responseShouldContainItems(ctx context.Context, want int) error {
	for i := 0; i < want; i++ {
		if _, err := s.tc.GetResponseField(fmt.Sprint(i)); err != nil {
			return fmt.Errorf("expected %d items: %w", want, err)
		}
	}
	if _, err := s.tc.GetResponseField(fmt.Sprint(want)); err == nil {
		return fmt.Errorf("expected exactly %d items, found more", want)
	}
	return nil
}
