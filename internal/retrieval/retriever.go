package retrieval

import (
	"context"
	"strings"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"golang.org/x/sync/singleflight"
)

// Retriever matches queries against a fixed, mode-specific keyword rule table
// and returns the matching canned documents. Every lookup goes through the
// query cache; concurrent misses for the same fingerprint are collapsed into
// a single computation.
type Retriever struct {
	cache *QueryCache
	group singleflight.Group

	// Tables are held per instance so tests can swap them; production
	// retrievers always carry the declared tables.
	tables   map[Mode][]Rule
	defaults map[Mode]Document
}

// NewRetriever creates a retriever backed by the given cache. The cache is
// injected rather than constructed here: it is process-wide state owned by
// the caller.
func NewRetriever(cache *QueryCache) *Retriever {
	return &Retriever{
		cache:    cache,
		tables:   ruleTables,
		defaults: defaultDocuments,
	}
}

// Retrieve returns the documents relevant to a query. The cache is
// transparent: callers cannot distinguish a hit from a miss. Retrieval never
// fails - an empty query returns the mode's default document, a mode without
// a rule table or an internal fault degrades to an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, query string, mode Mode) []Document {
	fingerprint := Fingerprint(query, mode)

	if docs, ok := r.cache.Get(fingerprint); ok {
		logx.Debug("Query cache hit, mode %s", mode)
		return docs
	}

	// singleflight closes the duplicate-computation race: concurrent
	// requests with the same fingerprint share one rule evaluation.
	v, err, _ := r.group.Do(fingerprint, func() (any, error) {
		if docs, ok := r.cache.Get(fingerprint); ok {
			return docs, nil
		}
		docs := r.match(query, mode)
		r.cache.Put(fingerprint, docs)
		return docs, nil
	})
	if err != nil {
		logx.Error("Retrieval failed, mode %s: %v", mode, err)
		return []Document{}
	}

	docs, ok := v.([]Document)
	if !ok {
		return []Document{}
	}
	return docs
}

// match evaluates the mode's rules in declaration order. Every matching
// rule's document is appended - no deduplication, no re-ranking. Zero matches
// yield exactly the mode's default document.
func (r *Retriever) match(query string, mode Mode) []Document {
	rules, ok := r.tables[mode]
	if !ok {
		logx.Warn("No rule table for mode %s, returning no documents", mode)
		return []Document{}
	}

	queryLower := strings.ToLower(query)

	var docs []Document
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(queryLower, keyword) {
				docs = append(docs, rule.Doc)
				break
			}
		}
	}

	if len(docs) == 0 {
		if def, ok := r.defaults[mode]; ok {
			docs = append(docs, def)
		}
	}

	return docs
}
