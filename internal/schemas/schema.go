// Package schemas provides detection of bibliographic XML schemas and the
// shared interface for resolving detected documents into canonical Articles.
//
// Each known schema (NLM/JATS front matter, Elsevier coredata) implements the
// Resolver interface in its own sub-package. Resolvers are registered with a
// Registry, which detects the schema of a parsed document and dispatches to
// the matching resolver. Unknown documents are a terminal skip.
package schemas

import (
	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/xmldoc"
)

// Options carries resolution tunables shared by all schemas.
type Options struct {
	// CollectionKeyword, when non-empty, is appended unconditionally to
	// every article's keyword list to tag the run's collection.
	CollectionKeyword string
}

// Resolver turns a parsed document of one schema into a canonical Article.
type Resolver interface {
	// Resolve extracts every canonical field from the document. Single-value
	// field extraction is independently fault-tolerant: absence or
	// malformation falls back to the field's empty default. Zero resolved
	// authors abort construction with domain.ErrNoAuthors.
	Resolve(doc *xmldoc.Node, sourceFile string, opts Options) (*domain.Article, error)

	// SchemaType returns the schema this resolver handles.
	SchemaType() domain.SchemaType
}

// Detect classifies a parsed document into one of the known schemas.
// A top-level <front> container wins over <coredata>; documents with neither
// are SchemaUnknown. Detection has no side effects.
func Detect(doc *xmldoc.Node) domain.SchemaType {
	if doc.Find("front") != nil {
		return domain.SchemaFrontMatter
	}
	if doc.Find("coredata") != nil {
		return domain.SchemaCoreData
	}
	return domain.SchemaUnknown
}

// Registry holds the closed set of schema resolvers. The pipeline is
// single-threaded, so no locking is needed.
type Registry struct {
	resolvers map[domain.SchemaType]Resolver
}

// NewRegistry creates an empty resolver registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[domain.SchemaType]Resolver)}
}

// Register adds a resolver. A resolver with the same schema type is replaced.
func (r *Registry) Register(res Resolver) {
	r.resolvers[res.SchemaType()] = res
}

// Resolve detects the schema of doc and dispatches to the matching resolver.
// Returns domain.ErrUnknownSchema when the document matches no known schema
// or no resolver is registered for it.
func (r *Registry) Resolve(doc *xmldoc.Node, sourceFile string, opts Options) (*domain.Article, error) {
	schema := Detect(doc)
	res, ok := r.resolvers[schema]
	if !ok {
		return nil, domain.ErrUnknownSchema
	}
	return res.Resolve(doc, sourceFile, opts)
}
