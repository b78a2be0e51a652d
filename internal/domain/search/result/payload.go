package result

import (
	"maps"

	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Payload is the per-source document body. Fields are passed through to
// clients unchanged apart from source-specific aliases.
type Payload interface {
	Source() source.Type
	// Fields returns a copy of the document fields ready for serialization.
	Fields() map[string]any
}

// NewPayload wraps a decoded document in the variant for its source.
func NewPayload(t source.Type, doc map[string]any) Payload {
	switch t {
	case source.Archive:
		return ArchivePayload{doc: doc}
	case source.Gazette:
		return GazettePayload{doc: doc}
	default:
		return NewsPayload{doc: doc}
	}
}

// NewsPayload is a legal-news article.
type NewsPayload struct {
	doc map[string]any
}

// Source implements Payload.
func (p NewsPayload) Source() source.Type { return source.News }

// Fields implements Payload.
func (p NewsPayload) Fields() map[string]any { return copyFields(p.doc) }

// Title returns the article headline.
func (p NewsPayload) Title() string { return stringAt(p.doc, "title") }

// Author returns the article byline.
func (p NewsPayload) Author() string { return stringAt(p.doc, "author") }

// ArchivePayload is a historical archive record.
type ArchivePayload struct {
	doc map[string]any
}

// Source implements Payload.
func (p ArchivePayload) Source() source.Type { return source.Archive }

// Fields implements Payload. Archive records store attachments under
// "Attachments"; clients read "attachments", so both keys are emitted.
func (p ArchivePayload) Fields() map[string]any {
	out := copyFields(p.doc)
	if v, ok := out["Attachments"]; ok {
		if _, exists := out["attachments"]; !exists {
			out["attachments"] = v
		}
	}
	return out
}

// Title returns the record title.
func (p ArchivePayload) Title() string { return stringAt(p.doc, "title") }

// Place returns the record location.
func (p ArchivePayload) Place() string { return stringAt(p.doc, "Place") }

// Attachments returns attachment links in either casing the record uses.
func (p ArchivePayload) Attachments() []string {
	raw, ok := p.doc["Attachments"]
	if !ok {
		raw = p.doc["attachments"]
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

// GazettePayload is a processed gazette alert joined with its notification.
type GazettePayload struct {
	doc map[string]any
}

// Source implements Payload.
func (p GazettePayload) Source() source.Type { return source.Gazette }

// Fields implements Payload.
func (p GazettePayload) Fields() map[string]any { return copyFields(p.doc) }

// Ministry returns the issuing ministry from the gazette details.
func (p GazettePayload) Ministry() string { return stringAt(p.doc, "gazette_details.ministry") }

// Subject returns the notification subject from the gazette details.
func (p GazettePayload) Subject() string { return stringAt(p.doc, "gazette_details.subject") }

func copyFields(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc)+4)
	maps.Copy(out, doc)
	return out
}

func stringAt(doc map[string]any, path string) string {
	v, ok := Lookup(doc, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
