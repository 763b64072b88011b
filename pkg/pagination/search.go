package pagination

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/tracing"
)

const tracerName = "catalog/pagination"

// Query is a filtered search bound to its filter values.
// Implementations must apply the same predicate in PageIDs and Count, and the
// same ordering in PageIDs and Hydrate.
type Query[ID comparable, E any] interface {
	// Name labels metrics and spans, e.g. "product_search".
	Name() string

	// PageIDs returns the distinct ids of the requested window in sort order.
	PageIDs(ctx context.Context, req PageRequest) ([]ID, error)

	// Count returns the number of distinct ids matching the filter.
	Count(ctx context.Context) (int64, error)

	// Hydrate loads the full rows for ids with associations eagerly fetched.
	Hydrate(ctx context.Context, ids []ID) ([]E, error)

	// IDOf returns the id of a hydrated row.
	IDOf(row E) ID
}

// Search runs the two-step paged search and maps each hydrated row with mapFn.
// Callers run it inside a transaction scope so both steps see one snapshot
// where the database provides it.
func Search[ID comparable, E, D any](ctx context.Context, q Query[ID, E], req PageRequest, mapFn func(E) D) (page *Page[D], err error) {
	req = req.Normalize()

	ctx, span := tracing.StartSpan(ctx, tracerName, "pagination.Search")
	span.SetAttributes(
		attribute.String("query.name", q.Name()),
		attribute.Int("page.number", req.Page),
		attribute.Int("page.size", req.Size),
	)
	start := time.Now()
	defer func() {
		metrics.ObserveSearch(q.Name(), err == nil, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}

	// An out-of-range window still reports the filtered total.
	if req.Beyond(total) {
		return NewPage[D](nil, req, total), nil
	}

	ids, err := q.PageIDs(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("page.ids", len(ids)))
	if len(ids) == 0 {
		return NewPage[D](nil, req, total), nil
	}

	rows, err := q.Hydrate(ctx, ids)
	if err != nil {
		return nil, err
	}

	content := make([]D, 0, len(ids))
	for _, row := range reorder(ids, rows, q.IDOf) {
		content = append(content, mapFn(row))
	}
	return NewPage(content, req, total), nil
}

// reorder arranges hydrated rows in id order and drops anything outside ids.
// Ids with no hydrated row (deleted between the steps) are skipped.
func reorder[ID comparable, E any](ids []ID, rows []E, idOf func(E) ID) []E {
	byID := make(map[ID]E, len(rows))
	for _, row := range rows {
		byID[idOf(row)] = row
	}
	out := make([]E, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out
}
