package parser

import (
	"errors"

	"rpgtrans/internal/command"
	"rpgtrans/internal/pluginconf"
	"rpgtrans/internal/transpath"
)

// ErrInvalidStructure reports a document that does not match the minimal
// engine-JSON shape.
var ErrInvalidStructure = errors.New("document does not match expected structure")

// ErrUnsupportedCode reports an unclassified command code in strict mode.
// Default mode treats unknown codes as passthrough instead.
var ErrUnsupportedCode = errors.New("unsupported command code")

// Handler extracts and injects text for the command codes it claims.
//
// Extract receives the full command list, the current index, the path prefix
// of the list, and the walk context; it reports the units it produced and how
// many consecutive commands it accounted for (always at least one).
//
// Inject mirrors Extract over the same list shape: it recomputes the same
// deterministic unit ids from the path, substitutes translations that exist
// in the mapping, and returns the possibly-respliced command list. A missing
// translation is a strict no-op on the command range.
type Handler interface {
	Codes() []command.Code
	Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult
	Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, opts InjectOptions) ([]command.Command, InjectResult)
}

// Registry maps command codes to their handlers. It is built once at startup
// and read-only afterwards.
type Registry struct {
	handlers map[command.Code]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[command.Code]Handler)}
}

// Register claims every code the handler declares. A later registration for
// the same code wins, which is how callers override built-ins.
func (r *Registry) Register(h Handler) {
	for _, code := range h.Codes() {
		r.handlers[code] = h
	}
}

// Lookup returns the handler claiming a code.
func (r *Registry) Lookup(code command.Code) (Handler, bool) {
	h, ok := r.handlers[code]
	return h, ok
}

// DefaultRegistry builds the built-in handler set. The plugin handler reads
// pattern sets from the given store, which must stay read-only for as long as
// walks using this registry are in flight.
func DefaultRegistry(plugins *pluginconf.Store) *Registry {
	r := NewRegistry()
	r.Register(ShowTextHandler{})
	r.Register(DialogueHandler{})
	r.Register(ChoicesHandler{})
	r.Register(ChoiceBranchHandler{})
	r.Register(CommentHandler{})
	r.Register(ScriptTextHandler{})
	r.Register(NameFieldHandler{})
	r.Register(PluginHandler{Store: plugins})
	return r
}

// unitID derives the deterministic id for a unit starting at list index.
func unitID(prefix transpath.Path, index int, suffix string) string {
	return prefix.AppendIndex(index).UnitID(suffix)
}
