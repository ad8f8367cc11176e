package search

import (
	"context"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Hit is one search result.
type Hit struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SpaceName string  `json:"spaceName,omitempty"`
	Score     float64 `json:"score"`
	TabCount  int     `json:"tabCount"`
}

// Result is a page of search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"tookMs"`
	Hits   []Hit  `json:"hits"`
}

// Query searches collection names, tab titles, and tab URLs.
func (ix *Index) Query(ctx context.Context, queryString string, limit int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildQuery(queryString), limit, 0, false)
	searchRequest.Fields = []string{"name", "space_name", "tab_count"}

	res, err := ix.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Query:  queryString,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if name, ok := h.Fields["name"].(string); ok {
			hit.Name = name
		}
		if space, ok := h.Fields["space_name"].(string); ok {
			hit.SpaceName = space
		}
		if count, ok := h.Fields["tab_count"].(float64); ok {
			hit.TabCount = int(count)
		}
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

// buildQuery matches the user's terms against name, tab titles, and
// tab URLs, with the collection name weighted highest.
func buildQuery(queryString string) query.Query {
	nameMatch := bleve.NewMatchQuery(queryString)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	titleMatch := bleve.NewMatchQuery(queryString)
	titleMatch.SetField("tab_titles")
	titleMatch.SetBoost(2.0)

	urlMatch := bleve.NewMatchQuery(queryString)
	urlMatch.SetField("tab_urls")

	return bleve.NewDisjunctionQuery(nameMatch, titleMatch, urlMatch)
}
