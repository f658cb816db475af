package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/formbind/pkg/model"
)

// LogHooks returns hooks writing one debug line per validation, submit and reset,
// with timings. Faulted validations log at error.
func LogHooks(logger *slog.Logger) model.Hooks {
	return model.Hooks{
		OnValidate: func(ctx context.Context, e *model.ValidationEvent) {
			attrs := []any{
				"field", e.FieldID,
				"path", e.Path.String(),
				"trigger", e.Trigger,
				"duration", e.Duration,
				"result", validationResult(e),
			}
			switch {
			case e.Fault != nil:
				logger.ErrorContext(ctx, "validation", append(attrs, "err", e.Fault)...)
			case e.Err != nil:
				logger.DebugContext(ctx, "validation", append(attrs, "failure", e.Err.Error())...)
			default:
				logger.DebugContext(ctx, "validation", attrs...)
			}
		},
		OnSubmit: func(ctx context.Context, e *model.SubmitEvent) {
			logger.DebugContext(ctx, "submit",
				"model", e.ModelID,
				"result", submitResult(e),
				"duration", e.Duration,
			)
		},
		OnReset: func(modelID string) {
			logger.Debug("reset", "model", modelID)
		},
	}
}
