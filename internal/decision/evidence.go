package decision

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// gatherEvidence looks up the scheme and scores trust in parallel with
// shared cancellation.
func (s *Service) gatherEvidence(ctx context.Context, req VerifyRequest) (*GatheredEvidence, error) {
	ctx, cancel := context.WithTimeout(ctx, evidenceTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	evidence := &GatheredEvidence{
		FetchedAt: time.Now(),
	}

	g.Go(func() error {
		start := time.Now()
		scheme, err := s.schemes.Get(ctx, req.SchemeID)
		evidence.Latencies.Scheme = time.Since(start)
		s.metrics.ObserveEvidenceLatency("scheme", evidence.Latencies.Scheme)

		if err != nil {
			return err
		}
		evidence.Scheme = scheme
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		evidence.Trust = s.scorer.Evaluate(req.IdentityKey, req.ContactChannel)
		evidence.Latencies.Trust = time.Since(start)
		s.metrics.ObserveEvidenceLatency("trust", evidence.Latencies.Trust)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return evidence, nil
}
