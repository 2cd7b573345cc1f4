// Package features is the optional numeric-feature extractor
// collaborator named in spec.md §1 ("cold-start content features
// beyond a documented numeric-feature extractor ... not the hard
// part"). It augments a product's dynamic attribute map with
// externally-computed numeric features; failures are non-fatal and
// never block a batch.
package features

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/models"
)

// Extractor fetches a supplementary numeric feature vector for a
// product from an external service, guarded by a circuit breaker so a
// degraded extractor cannot stall the batch pipeline.
type Extractor struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
}

// New builds an Extractor from cfg. Callers should check cfg.Enabled
// before using it; a disabled Extractor is still safe to construct.
func New(cfg config.FeaturesConfig) *Extractor {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "feature_extractor",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Extractor{client: client, breaker: breaker, baseURL: cfg.BaseURL}
}

type featureResponse struct {
	Attributes map[string]models.AttributeValue `json:"attributes"`
}

// Extract fetches pid's externally-computed attribute map. On any
// failure (network, breaker-open, decode) it returns a nil map and a
// non-nil error; callers must treat this as non-fatal per spec.md §7
// and fall back to the product's own stored attributes.
func (e *Extractor) Extract(ctx context.Context, pid string) (map[string]models.AttributeValue, error) {
	result, err := e.breaker.Execute(func() (any, error) {
		var body featureResponse
		resp, err := e.client.R().
			SetContext(ctx).
			SetResult(&body).
			Get(fmt.Sprintf("%s/features/%s", e.baseURL, pid))
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("feature extractor returned %s", resp.Status())
		}
		return body.Attributes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]models.AttributeValue), nil
}
