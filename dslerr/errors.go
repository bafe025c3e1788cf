// Package dslerr defines the typed error model for the blueprint DSL
// compiler: numeric-coded format and logic exceptions, the way the
// original parser raises DSLParsingFormatException/DSLParsingLogicException,
// adapted to Go's explicit-error-return idiom.
package dslerr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind classifies an Error as either a format problem (the document
// could not be parsed at all) or a logic problem (the document parsed
// but violates a semantic invariant).
type Kind int

const (
	// KindFormat marks errors raised while loading or schema-validating
	// raw YAML, before any semantic processing begins.
	KindFormat Kind = iota
	// KindLogic marks errors raised while resolving imports, inheritance,
	// autowiring, or node/relationship semantics.
	KindLogic
)

func (k Kind) String() string {
	if k == KindFormat {
		return "format"
	}
	return "logic"
}

// Stable numeric codes, part of the public contract (spec.md §7).
const (
	CodeIllegalYAML             = -1
	CodeEmptyYAML                = 0
	CodeSchemaValidation         = 1
	CodeImportsSchemaValidation  = 2
	CodeNonMergeableField        = 3
	CodeImportMergeConflict      = 4
	CodeNoPluginsSection         = 5
	CodeExplicitPluginMismatch   = 6
	CodeUnknownNodeType          = 7
	CodeMissingInterfaceDef      = 9
	CodeMissingExplicitPlugin    = 10
	CodeNoMatchingPlugin         = 11
	CodeAmbiguousPlugin          = 12
	CodeFailedImport             = 13
	CodeMissingAncestor          = 14
	CodeUndefinedPolicy          = 16
	CodeUndefinedRule            = 17
	CodeIllegalPluginDerivedFrom = 18
	CodeUndefinedRelPlugin       = 19
	CodeIllegalBindAt            = 20
	CodeIllegalRunOnNode         = 21
	CodeDuplicateInterface       = 22
	CodeSelfTarget               = 23
	CodeAgentPluginWithoutHost   = 24
	CodeUndefinedTarget          = 25
	CodeUndefinedRelType         = 26
	CodeDSLLocation              = 30
	CodeRefResolution            = 31
	CodeCircularDependency       = 100
	CodeDuplicateNodeName        = 101
	CodeDuplicateNodeInterface   = 102
	CodeAmbiguousAutowire        = 103
)

// Error is the single error type raised by every component of the
// compiler. Context fields are populated only for the codes that carry
// them (spec.md §6 "Error surface").
type Error struct {
	Code    int
	Kind    Kind
	Message string
	TraceID uuid.UUID

	FailedImport          string
	CircularDependency    []string
	DuplicateNodeName     string
	DuplicateInterfaceName string
	NodeName              string
	Descendants           []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s %d] %s", e.Kind, e.Code, e.Message)
}

// Option attaches optional context to a newly constructed Error.
type Option func(*Error)

// WithFailedImport records the URL that could not be fetched or resolved
// (codes 13 and 30).
func WithFailedImport(url string) Option {
	return func(e *Error) { e.FailedImport = url }
}

// WithCircularDependency records a copy of the trail of names that form a
// cycle, as given (code 100). Callers re-append the offending name before
// passing the trail so the loop is visible.
func WithCircularDependency(trail []string) Option {
	return func(e *Error) {
		e.CircularDependency = append([]string(nil), trail...)
	}
}

// WithDuplicateNodeName records the node name that was declared more
// than once in a topology (code 101).
func WithDuplicateNodeName(name string) Option {
	return func(e *Error) { e.DuplicateNodeName = name }
}

// WithDuplicateInterface records the interface name duplicated on a
// single node, plus that node's name (code 102).
func WithDuplicateInterface(interfaceName, nodeName string) Option {
	return func(e *Error) {
		e.DuplicateInterfaceName = interfaceName
		e.NodeName = nodeName
	}
}

// WithDescendants records the ambiguous candidate list for an autowiring
// failure (code 103).
func WithDescendants(names []string) Option {
	return func(e *Error) {
		e.Descendants = append([]string(nil), names...)
	}
}

// WithTraceID overrides the auto-generated correlation id at construction
// time. Parse does not use it; it overwrites the id of a returned error
// with Stamp.
func WithTraceID(id uuid.UUID) Option {
	return func(e *Error) { e.TraceID = id }
}

// NewFormat constructs a format-kind error (document unparseable).
func NewFormat(code int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Kind:    KindFormat,
		Message: fmt.Sprintf(format, args...),
		TraceID: uuid.New(),
	}
}

// NewLogic constructs a logic-kind error (document parsed but internally
// inconsistent) with a formatted message and no context fields; use
// NewLogicWith to attach Options.
func NewLogic(code int, format string, args ...any) *Error {
	return newLogic(code, fmt.Sprintf(format, args...))
}

// NewLogicWith is like NewLogic but accepts Options to attach context
// fields in one call.
func NewLogicWith(code int, msg string, opts ...Option) *Error {
	e := newLogic(code, msg)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newLogic(code int, msg string) *Error {
	return &Error{
		Code:    code,
		Kind:    KindLogic,
		Message: msg,
		TraceID: uuid.New(),
	}
}

// Stamp overwrites err's TraceID if it is an *Error, so every error
// surfaced by a single Parse invocation carries one correlation id. Errors
// of any other type pass through unchanged.
func Stamp(err error, id uuid.UUID) error {
	if e, ok := err.(*Error); ok {
		e.TraceID = id
	}
	return err
}

// CircularTrail renders a cycle trail the way the original parser does:
// "A --> B --> A".
func CircularTrail(names []string) string {
	return strings.Join(names, " --> ")
}
