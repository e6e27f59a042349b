package eval

import (
	"context"
	"fmt"

	"github.com/apple/pkl-go/pkl"
)

// Evaluator handles PKL evaluation of settings modules.
type Evaluator struct {
	properties map[string]string
}

// NewEvaluator returns an evaluator that passes properties to pkl as external properties.
func NewEvaluator(properties map[string]string) *Evaluator {
	return &Evaluator{
		properties: properties,
	}
}

// LoadSettings evaluates a PKL settings module.
func (e *Evaluator) LoadSettings(ctx context.Context, settingsFile string) (*Settings, error) {
	opts := []func(*pkl.EvaluatorOptions){pkl.PreconfiguredOptions}
	if len(e.properties) > 0 {
		opts = append(opts, func(o *pkl.EvaluatorOptions) {
			if o.Properties == nil {
				o.Properties = make(map[string]string)
			}
			for k, v := range e.properties {
				o.Properties[k] = v
			}
		})
	}

	evaluator, err := pkl.NewEvaluator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create PKL evaluator: %w", err)
	}
	defer evaluator.Close()

	var s Settings
	if err := evaluator.EvaluateModule(ctx, pkl.FileSource(settingsFile), &s); err != nil {
		return nil, fmt.Errorf("failed to evaluate settings: %w", err)
	}

	return &s, nil
}
