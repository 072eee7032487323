package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const restPath = "/rest/v1/"

// Query is a data API request against one table. Filters accumulate; a terminal
// method (Execute, Upsert, Delete) sends the request.
type Query struct {
	client *Client
	table  string
	params url.Values
	count  bool
}

// Select sets the column list, including embedded resources such as "*,books(*)".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Or adds a disjunction of filter expressions, each in "column.op.value" form.
func (q *Query) Or(filters ...string) *Query {
	if len(filters) > 0 {
		q.params.Add("or", "("+strings.Join(filters, ",")+")")
	}
	return q
}

// Limit caps the number of rows returned.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Offset skips n rows.
func (q *Query) Offset(n int) *Query {
	q.params.Set("offset", strconv.Itoa(n))
	return q
}

// CountExact asks for the exact number of matching rows alongside the page.
func (q *Query) CountExact() *Query {
	q.count = true
	return q
}

// ILike returns a case-insensitive substring filter for use with Or.
func ILike(column, term string) string {
	return column + `.ilike."*` + quoteValue(term) + `*"`
}

// quoteValue escapes term for use inside a double-quoted filter value.
func quoteValue(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(term)
}

// Execute runs the query, decoding the rows into dest. The returned count is the
// exact number of matches when CountExact was requested, otherwise -1.
func (q *Query) Execute(ctx context.Context, dest any) (int, error) {
	req, err := q.client.newRequest(ctx, http.MethodGet, restPath+q.table, q.params, nil, "")
	if err != nil {
		return 0, err
	}
	if q.count {
		req.Header.Set("Prefer", "count=exact")
	}

	resp, err := q.client.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	total := -1
	if q.count {
		total = parseContentRangeTotal(resp.Header.Get("Content-Range"))
	}

	// A range past the last row is reported as 416 with the total still present.
	if resp.StatusCode == http.StatusRequestedRangeNotSatisfiable && q.count {
		_, _ = io.Copy(io.Discard, resp.Body)
		return total, nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return 0, decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return 0, fmt.Errorf("failed to decode %s rows: %w", q.table, err)
	}
	return total, nil
}

// Upsert inserts row, merging into the existing row on a conflict over the
// onConflict columns. The stored rows are decoded into dest.
func (q *Query) Upsert(ctx context.Context, row any, onConflict string, dest any) error {
	if onConflict != "" {
		q.params.Set("on_conflict", onConflict)
	}
	req, err := q.client.newRequest(ctx, http.MethodPost, restPath+q.table, q.params, row, "")
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")

	return q.client.doJSON(req, dest)
}

// Delete removes the rows matched by the accumulated filters.
func (q *Query) Delete(ctx context.Context) error {
	req, err := q.client.newRequest(ctx, http.MethodDelete, restPath+q.table, q.params, nil, "")
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	return q.client.doJSON(req, nil)
}

// parseContentRangeTotal extracts N from "0-9/N" or "*/N". Unknown totals yield 0.
func parseContentRangeTotal(header string) int {
	idx := strings.LastIndexByte(header, '/')
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(header[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
