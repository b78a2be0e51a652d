package result

import (
	"encoding/json"
	"strings"

	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Hit is a raw engine hit for one source, before normalization.
type Hit struct {
	ID       string
	Score    float64
	Document map[string]any
}

// Page is one source's share of a search: its hits plus the engine's
// estimate of the total number of matches.
type Page struct {
	Hits           []Hit
	EstimatedTotal int
}

// Record is a normalized hit carrying its source, score and timestamp.
type Record struct {
	id        string
	source    source.Type
	score     float64
	timestamp int64
	payload   Payload
}

// NewRecord creates a Record.
func NewRecord(id string, t source.Type, score float64, timestamp int64, p Payload) Record {
	return Record{id: id, source: t, score: score, timestamp: timestamp, payload: p}
}

// FromHit normalizes a raw hit of src into a Record.
func FromHit(src source.Source, h Hit) Record {
	var ts int64
	if v, ok := Lookup(h.Document, src.DateField()); ok {
		ts = Timestamp(v, src.DateLayouts(), src.Location())
	}
	return NewRecord(h.ID, src.Type(), h.Score, ts, NewPayload(src.Type(), h.Document))
}

// ID returns the document identifier within its source.
func (r Record) ID() string { return r.id }

// Source returns the stream the record came from.
func (r Record) Source() source.Type { return r.source }

// Score returns the engine relevance score, 0 when the engine reported none.
func (r Record) Score() float64 { return r.score }

// Timestamp returns the record date in epoch milliseconds, 0 when unknown.
func (r Record) Timestamp() int64 { return r.timestamp }

// Payload returns the typed document body.
func (r Record) Payload() Payload { return r.payload }

// Fields returns the payload fields with the document id set.
func (r Record) Fields() map[string]any {
	var out map[string]any
	if r.payload != nil {
		out = r.payload.Fields()
	} else {
		out = make(map[string]any, 4)
	}
	if _, ok := out["id"]; !ok {
		out["id"] = r.id
	}
	return out
}

// MarshalJSON flattens the payload and adds the _type, _score and _timestamp keys.
func (r Record) MarshalJSON() ([]byte, error) {
	out := r.Fields()
	out["_type"] = r.source
	out["_score"] = r.score
	out["_timestamp"] = r.timestamp
	return json.Marshal(out)
}

// DecodeDocument decodes a stored JSON document, keeping numbers exact.
// RedisJSON path queries wrap the document in a one-element array; it is unwrapped.
func DecodeDocument(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		v = arr[0]
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return doc, nil
}
