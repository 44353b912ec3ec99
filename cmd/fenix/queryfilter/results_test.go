package queryfilter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsPaginated(t *testing.T) {
	f, target := applyQuery(t, "paginate=10", testConfig(patientColumns()))

	rs, err := f.Results(context.Background())
	require.NoError(t, err)

	assert.Len(t, rs.Rows, 10)
	require.NotNil(t, rs.Page)
	assert.Equal(t, 25, rs.Total())
	assert.Equal(t, 3, rs.Page.LastPage)
	assert.Equal(t, 1, target.paginates)
	assert.Equal(t, 0, target.gets)
	assert.Equal(t, 10, target.perPage)
	assert.Equal(t, 1, target.page)
}

func TestResultsSecondPage(t *testing.T) {
	f, target := applyQuery(t, "paginate=10&page=3", testConfig(patientColumns()))

	rs, err := f.Results(context.Background())
	require.NoError(t, err)

	assert.Len(t, rs.Rows, 5)
	assert.Equal(t, 3, target.page)
	assert.Equal(t, int64(21), rs.Rows[0]["id"])
}

func TestResultsUnpaginated(t *testing.T) {
	f, target := applyQuery(t, "paginate=0", testConfig(patientColumns()))

	rs, err := f.Results(context.Background())
	require.NoError(t, err)

	assert.Len(t, rs.Rows, 25)
	assert.Nil(t, rs.Page)
	assert.Equal(t, 25, rs.Total())
	assert.Equal(t, 1, target.gets)
	assert.Equal(t, 0, target.paginates)
}

func TestResultsAreMemoized(t *testing.T) {
	f, target := applyQuery(t, "", testConfig(patientColumns()))

	first, err := f.Results(context.Background())
	require.NoError(t, err)
	second, err := f.Results(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, target.paginates)
}

func TestResultsErrorIsMemoized(t *testing.T) {
	down := errors.New("connection refused")
	target := newFakeTarget("patients", 3)
	target.err = down

	f := FromQuery("", testConfig(patientColumns()))
	require.NoError(t, f.Apply(context.Background(), target))

	_, err := f.Results(context.Background())
	assert.ErrorIs(t, err, down)
	_, err = f.Results(context.Background())
	assert.ErrorIs(t, err, down)

	assert.Equal(t, 1, target.paginates)
}

func TestResultsBeforeApply(t *testing.T) {
	f := FromQuery("", testConfig(patientColumns()))

	_, err := f.Results(context.Background())

	assert.ErrorIs(t, err, ErrNotApplied)
}

func TestRun(t *testing.T) {
	f := FromQuery("paginate=0&id=3", testConfig(patientColumns()))
	target := newFakeTarget("patients", 4)

	rs, err := f.Run(context.Background(), target)
	require.NoError(t, err)

	assert.Len(t, rs.Rows, 4)
	assert.Equal(t, []predicateCall{{"id", types.OpEqual, int64(3)}}, target.wheres)
}

func TestAppliedParams(t *testing.T) {
	cfg := testConfig(patientColumns())
	cfg.Prefix = "qf-"
	cfg.Ignore = []string{"email"}

	f, _ := applyQuery(t, "qf-name=anne&other=1&qf-age=30&qf-age-op=gte&qf-email=x", cfg)

	assert.Equal(t, []types.Param{
		{Key: "qf-name", Value: "anne"},
		{Key: "qf-age", Value: "30"},
		{Key: "qf-age-op", Value: "gte"},
	}, f.AppliedParams())
}

func TestPageQuery(t *testing.T) {
	cfg := testConfig(patientColumns())
	cfg.Prefix = "qf-"

	f, _ := applyQuery(t, "qf-page=2&qf-name=anne&qf-tag[]=a&qf-tag[]=b", cfg)

	assert.Equal(t, "qf-name=anne&qf-tag%5B%5D=a&qf-tag%5B%5D=b&qf-page=5", f.PageQuery(5))
}

func TestLinks(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []Link
	}{
		{
			name:  "first page",
			query: "paginate=10",
			want: []Link{
				{Rel: "self", Page: 1, Query: "paginate=10&page=1"},
				{Rel: "next", Page: 2, Query: "paginate=10&page=2"},
				{Rel: "last", Page: 3, Query: "paginate=10&page=3"},
			},
		},
		{
			name:  "middle page",
			query: "name=row&paginate=10&page=2",
			want: []Link{
				{Rel: "self", Page: 2, Query: "name=row&paginate=10&page=2"},
				{Rel: "first", Page: 1, Query: "name=row&paginate=10&page=1"},
				{Rel: "previous", Page: 1, Query: "name=row&paginate=10&page=1"},
				{Rel: "next", Page: 3, Query: "name=row&paginate=10&page=3"},
				{Rel: "last", Page: 3, Query: "name=row&paginate=10&page=3"},
			},
		},
		{
			name:  "page past the end",
			query: "paginate=10&page=9",
			want: []Link{
				{Rel: "self", Page: 9, Query: "paginate=10&page=9"},
				{Rel: "first", Page: 1, Query: "paginate=10&page=1"},
				{Rel: "previous", Page: 3, Query: "paginate=10&page=3"},
				{Rel: "last", Page: 3, Query: "paginate=10&page=3"},
			},
		},
		{
			name:  "not paginated",
			query: "paginate=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := applyQuery(t, tt.query, testConfig(patientColumns()))

			links, err := f.Links(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, links)
		})
	}
}

func TestLinksDisabled(t *testing.T) {
	cfg := testConfig(patientColumns())
	cfg.Links = false
	f, target := applyQuery(t, "paginate=10", cfg)

	links, err := f.Links(context.Background())

	require.NoError(t, err)
	assert.Nil(t, links)
	assert.Equal(t, 0, target.paginates)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(patientColumns(), NewLogObserver(zerolog.New(&buf)))

	applyQuery(t, "name=anne&nope=1", cfg)

	out := buf.String()
	assert.Contains(t, out, `"message":"Filter applied"`)
	assert.Contains(t, out, `"filter":"name"`)
	assert.Contains(t, out, `"operator":"LIKE"`)
	assert.Contains(t, out, `"method":"default"`)
	assert.Contains(t, out, `"message":"Filter ignored"`)
	assert.Contains(t, out, `"reason":"unknown-column"`)
}
