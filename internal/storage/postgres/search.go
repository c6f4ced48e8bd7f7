package postgres

import (
	"context"
	"strings"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"
)

// searchTables holds one set of aliased tables for a single statement. Each statement
// gets its own set because ent selectors and predicates are built in place.
type searchTables struct {
	b        *sql.DialectBuilder
	posting  *sql.SelectTable
	company  *sql.SelectTable
	location *sql.SelectTable
}

func newSearchTables() searchTables {
	b := sql.Dialect(dialect.Postgres)
	return searchTables{
		b:        b,
		posting:  b.Table("postings").As("p"),
		company:  b.Table("companies").As("c"),
		location: b.Table("locations").As("l"),
	}
}

func (t searchTables) from(columns ...string) *sql.Selector {
	return t.b.Select(columns...).
		From(t.posting).
		Join(t.company).On(t.posting.C("company_id"), t.company.C("id")).
		LeftJoin(t.location).On(t.posting.C("location_id"), t.location.C("id"))
}

func (t searchTables) columns() []string {
	p, c, l := t.posting, t.company, t.location
	return []string{
		p.C("id"),
		p.C("company_id"),
		sql.As(c.C("name"), "company_name"),
		p.C("title"),
		p.C("job_description"),
		p.C("experience_level"),
		p.C("education_level"),
		p.C("employment_type"),
		p.C("salary_info"),
		p.C("location_id"),
		l.C("city"),
		l.C("district"),
		p.C("deadline_date"),
		p.C("status"),
		p.C("view_count"),
		p.C("created_at"),
		p.C("updated_at"),
	}
}

// predicates translates the filter into AND-ed predicates. Substring filters are ILIKE
// with the value escaped, so user input never becomes SQL.
func (t searchTables) predicates(f storage.PostingFilter) []*sql.Predicate {
	p, c, l := t.posting, t.company, t.location
	preds := []*sql.Predicate{sql.EQ(p.C("status"), string(models.PostingStatusActive))}

	if f.Keyword != "" {
		preds = append(preds, sql.Or(
			sql.ContainsFold(p.C("title"), f.Keyword),
			sql.ContainsFold(p.C("job_description"), f.Keyword),
		))
	}
	if f.Company != "" {
		preds = append(preds, sql.ContainsFold(c.C("name"), f.Company))
	}
	if f.EmploymentType != "" {
		preds = append(preds, sql.EQ(p.C("employment_type"), f.EmploymentType))
	}
	if f.Position != "" {
		preds = append(preds, sql.ContainsFold(p.C("title"), f.Position))
	}
	if f.SalaryInfo != "" {
		preds = append(preds, sql.ContainsFold(p.C("salary_info"), f.SalaryInfo))
	}
	if f.Location != "" {
		preds = append(preds, sql.Or(
			sql.ContainsFold(l.C("city"), f.Location),
			sql.ContainsFold(l.C("district"), f.Location),
		))
	}
	if len(f.JobCategories) > 0 {
		pc := t.b.Table("posting_categories").As("pc")
		jc := t.b.Table("job_categories").As("jc")
		names := make([]any, len(f.JobCategories))
		for i, name := range f.JobCategories {
			names[i] = strings.ToLower(name)
		}
		preds = append(preds, sql.Exists(
			t.b.Select(pc.C("posting_id")).
				From(pc).
				Join(jc).On(pc.C("category_id"), jc.C("id")).
				Where(sql.And(
					sql.ColumnsEQ(pc.C("posting_id"), p.C("id")),
					sql.In("LOWER("+jc.C("name")+")", names...),
				)),
		))
	}
	if len(f.TechStacks) > 0 {
		pts := t.b.Table("posting_tech_stacks").As("pts")
		ts := t.b.Table("tech_stacks").As("ts")
		names := make([]any, len(f.TechStacks))
		for i, name := range f.TechStacks {
			names[i] = strings.ToLower(name)
		}
		preds = append(preds, sql.Exists(
			t.b.Select(pts.C("posting_id")).
				From(pts).
				Join(ts).On(pts.C("tech_stack_id"), ts.C("id")).
				Where(sql.And(
					sql.ColumnsEQ(pts.C("posting_id"), p.C("id")),
					sql.In("LOWER("+ts.C("name")+")", names...),
				)),
		))
	}
	return preds
}

func (t searchTables) orderBy(sort storage.PostingSort) []string {
	p := t.posting
	switch sort {
	case storage.SortCreatedAsc:
		return []string{sql.Asc(p.C("created_at")), sql.Asc(p.C("id"))}
	case storage.SortViewCountDesc:
		return []string{sql.Desc(p.C("view_count")), sql.Desc(p.C("id"))}
	default:
		return []string{sql.Desc(p.C("created_at")), sql.Desc(p.C("id"))}
	}
}

// buildSearchQuery renders the page query for the filter.
func buildSearchQuery(f storage.PostingFilter) (string, []any) {
	t := newSearchTables()
	s := t.from(t.columns()...).
		Where(sql.And(t.predicates(f)...)).
		OrderBy(t.orderBy(f.Sort)...)
	if f.Limit > 0 {
		s.Limit(f.Limit)
	}
	if f.Offset > 0 {
		s.Offset(f.Offset)
	}
	return s.Query()
}

// buildCountQuery renders the total-count query over the same predicates.
func buildCountQuery(f storage.PostingFilter) (string, []any) {
	t := newSearchTables()
	return t.from(sql.Count("*")).
		Where(sql.And(t.predicates(f)...)).
		Query()
}

// Search returns one page of active postings matching the filter and the total number of
// matches. Membership filters use EXISTS so each posting appears once.
func (r *PostingRepo) Search(ctx context.Context, f storage.PostingFilter) ([]models.Posting, int, error) {
	countQuery, countArgs := buildCountQuery(f)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, classify(err, "counting postings")
	}
	if total == 0 {
		return []models.Posting{}, 0, nil
	}

	query, args := buildSearchQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "searching postings")
	}
	postings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Posting])
	if err != nil {
		return nil, 0, classify(err, "scanning postings")
	}
	if postings == nil {
		postings = []models.Posting{}
	}
	if err := r.attachTags(ctx, postings); err != nil {
		return nil, 0, err
	}
	return postings, total, nil
}
