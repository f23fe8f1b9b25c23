package render

import (
	"context"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// Renderer converts a form definition into a byte representation (HTML for
// the vanilla renderer, prompt flows for the TUI renderer).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, def model.FormDefinition, options RenderOptions) ([]byte, error)
}
