package enhance

import "context"

// DefaultReview is returned by GenerateReview whenever the model is unavailable.
const DefaultReview = "Great product!"

// Enhancer rewrites product copy. Implementations never fail: on any error
// they return the fallback text.
type Enhancer interface {
	EnhanceDescription(ctx context.Context, productName, currentDescription string) string
	GenerateReview(ctx context.Context, productName string) string
}

// Noop returns the fallback text unchanged. Used when no API key is configured.
type Noop struct{}

func (Noop) EnhanceDescription(_ context.Context, _, currentDescription string) string {
	return currentDescription
}

func (Noop) GenerateReview(context.Context, string) string {
	return DefaultReview
}
