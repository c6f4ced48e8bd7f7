package postgres

import (
	"fmt"
	"strings"
)

// buildListQuery appends the WHERE conditions, ordering and paging to baseQuery. Limit
// and offset are bound as the next positional args.
func buildListQuery(baseQuery string, conditions []string, args *[]interface{}, orderBy string, offset, limit int) string {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(baseQuery)

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(orderBy)

	*args = append(*args, limit)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(*args)))
	*args = append(*args, offset)
	queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", len(*args)))

	return queryBuilder.String()
}

// buildListCount applies the list conditions to a COUNT query.
func buildListCount(baseQuery string, conditions []string) string {
	if len(conditions) == 0 {
		return baseQuery
	}
	return baseQuery + " WHERE " + strings.Join(conditions, " AND ")
}

func direction(ascending bool) string {
	if ascending {
		return "ASC"
	}
	return "DESC"
}
