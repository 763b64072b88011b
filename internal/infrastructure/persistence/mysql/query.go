package mysql

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

// sortColumns maps the sort fields a client may send to qualified columns.
// Unknown fields fall back to def.
type sortColumns struct {
	def  string
	cols map[string]string
}

func (s sortColumns) column(req pagination.PageRequest) string {
	if col, ok := s.cols[req.SortOr(s.def)]; ok {
		return col
	}
	return s.cols[s.def]
}

// orderBy is "<col> <dir>, <idCol> ASC". The id keeps equal sort keys stable
// across pages.
func (s sortColumns) orderBy(req pagination.PageRequest, idCol string) string {
	col := s.column(req)
	dir := " ASC"
	if req.Desc {
		dir = " DESC"
	}
	if col == idCol {
		return col + dir
	}
	return col + dir + ", " + idCol + " ASC"
}

type idRow struct {
	ID uint
}

// pagedQuery is the gorm implementation of pagination.Query.
// Notes:
//  1. filter adds the joins and WHERE clauses; PageIDs and Count both start from it
//  2. PageIDs selects DISTINCT id plus the sort column so a many-to-many join
//     never repeats an id inside the window
//  3. eager adds Preload (collections) or Joins (single references) for Hydrate
//  4. the ORDER BY chosen by PageIDs is reused by Hydrate
type pagedQuery[M any, E any] struct {
	name     string
	table    string
	db       func(ctx context.Context) *gorm.DB
	filter   func(db *gorm.DB) *gorm.DB
	sorts    sortColumns
	eager    func(db *gorm.DB) *gorm.DB
	toEntity func(m *M) E
	idOf     func(e E) uint

	order string
}

func (q *pagedQuery[M, E]) Name() string {
	return q.name
}

func (q *pagedQuery[M, E]) idColumn() string {
	return q.table + ".id"
}

func (q *pagedQuery[M, E]) filtered(ctx context.Context) *gorm.DB {
	db := q.db(ctx).Model(new(M))
	if q.filter != nil {
		db = q.filter(db)
	}
	return db
}

func (q *pagedQuery[M, E]) PageIDs(ctx context.Context, req pagination.PageRequest) ([]uint, error) {
	idCol := q.idColumn()
	sortCol := q.sorts.column(req)
	q.order = q.sorts.orderBy(req, idCol)

	columns := []interface{}{idCol}
	if sortCol != idCol {
		columns = append(columns, sortCol)
	}

	var rows []idRow
	err := q.filtered(ctx).
		Distinct(columns...).
		Order(q.order).
		Limit(req.Size).
		Offset(req.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrapf(err, "Query %s failed", q.name)
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

func (q *pagedQuery[M, E]) Count(ctx context.Context) (int64, error) {
	var total int64
	err := q.filtered(ctx).Select("COUNT(DISTINCT " + q.idColumn() + ")").Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrapf(err, "Count %s failed", q.name)
	}
	return total, nil
}

func (q *pagedQuery[M, E]) Hydrate(ctx context.Context, ids []uint) ([]E, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := q.db(ctx)
	if q.eager != nil {
		db = q.eager(db)
	}
	order := q.order
	if order == "" {
		order = q.idColumn()
	}

	var models []M
	if err := db.Where(q.idColumn()+" IN ?", ids).Order(order).Find(&models).Error; err != nil {
		return nil, apperrors.Wrapf(err, "Load %s rows failed", q.name)
	}

	out := make([]E, len(models))
	for i := range models {
		out[i] = q.toEntity(&models[i])
	}
	return out, nil
}

func (q *pagedQuery[M, E]) IDOf(e E) uint {
	return q.idOf(e)
}
