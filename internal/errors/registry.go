package errors

// Registered error codes.
const (
	CodeInvalidLazyNode = "E100"
	CodeUnknownNodeKind = "E101"
	CodeTargetMismatch  = "E120"
	CodeRenderFailed    = "E121"
	CodeWidgetFailed    = "E122"
	CodeBadSnapshot     = "E140"
	CodeBadConfig       = "E160"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Diff Errors (E100-E119)
	// ============================================

	CodeInvalidLazyNode: {
		Category: CategoryDiff,
		Message:  "Lazy node resolved to an invalid node",
		Detail:   "A lazy node must resolve to an element, a text node or a widget. Returning nil or another lazy node is a bug in the render function.",
	},
	CodeUnknownNodeKind: {
		Category: CategoryDiff,
		Message:  "Unknown node kind",
		Detail:   "The tree contains a node whose kind is not element, text, widget or lazy.",
	},

	// ============================================
	// Patch Errors (E120-E139)
	// ============================================

	CodeTargetMismatch: {
		Category: CategoryPatch,
		Message:  "Patch target does not match the expected host node",
		Detail:   "The host node found at this index cannot accept the patch. The host tree has drifted from the tree the patches were computed against.",
	},
	CodeRenderFailed: {
		Category: CategoryPatch,
		Message:  "Renderer failed to build a host node",
		Detail:   "The renderer returned an error while building a host node for an insert or replace.",
	},
	CodeWidgetFailed: {
		Category: CategoryPatch,
		Message:  "Widget lifecycle call failed",
		Detail:   "A widget returned an error from Init or Update.",
	},

	// ============================================
	// Snapshot Errors (E140-E159)
	// ============================================

	CodeBadSnapshot: {
		Category: CategorySnapshot,
		Message:  "Invalid tree snapshot",
		Detail:   "The snapshot document could not be decoded into a tree. Each node needs exactly one of tag or text.",
	},

	// ============================================
	// Config Errors (E160-E179)
	// ============================================

	CodeBadConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "vpatch.json could not be parsed or contains invalid values.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
