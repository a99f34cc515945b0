package bd

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"callcenter-crm/pkg/types"
)

// ApplyListParams decorates a list query with search, sorting and pagination
// from the parsed request filter. Search does a case-insensitive match over
// the given columns; sort keys are validated against allowedSort to keep raw
// user input out of ORDER BY.
func ApplyListParams(qb sq.SelectBuilder, filter types.Filter, searchColumns []string, allowedSort map[string]string) sq.SelectBuilder {
	if filter.Search != "" && len(searchColumns) > 0 {
		or := make(sq.Or, 0, len(searchColumns))
		pattern := "%" + filter.Search + "%"
		for _, col := range searchColumns {
			or = append(or, sq.ILike{col: pattern})
		}
		qb = qb.Where(or)
	}

	for field, dir := range filter.Sort {
		col, ok := allowedSort[field]
		if !ok {
			continue
		}
		if strings.EqualFold(dir, "desc") {
			qb = qb.OrderBy(fmt.Sprintf("%s DESC", col))
		} else {
			qb = qb.OrderBy(fmt.Sprintf("%s ASC", col))
		}
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			qb = qb.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			qb = qb.Offset(uint64(filter.Offset))
		}
	}

	return qb
}
