package render

// ChromeClasses override the semantic CSS classes applied to form chrome.
// Empty entries fall back to the renderer defaults.
type ChromeClasses struct {
	Form    string
	Section string
	Field   string
	Errors  string
	Actions string
}

// RenderOptions describe per-request data renderers can use to customise
// their output without mutating the definition pipeline.
type RenderOptions struct {
	// Values pre-populates rendered controls using dotted field paths (e.g.
	// "agentInfo.email").
	Values map[string]any
	// Errors surfaces validation feedback keyed by dotted field path. The
	// vanilla renderer maps these into inline messages under each control.
	Errors map[string][]string
	// Hidden fields are emitted alongside the visible controls.
	Hidden map[string]string
	// Chrome overrides the default chrome classes.
	Chrome ChromeClasses
	// SubmitLabel overrides the submit button text.
	SubmitLabel string
}
