package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormtest "gorm.io/gorm/utils/tests"

	"saleboard/internal/model"
)

// newDryRunDB builds a dialector-only gorm.DB that generates SQL without a
// connection, so clause construction can be checked in isolation.
func newDryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(gormtest.DummyDialector{}, &gorm.Config{DryRun: true})
	assert.NoError(t, err)
	return db
}

func buildListSQL(t *testing.T, db *gorm.DB, filter ProductFilter) (string, []interface{}) {
	var products []model.Product
	stmt := applyFilter(db.Model(&model.Product{}), filter).
		Order(orderClause(filter.Sort)).
		Find(&products).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want string
	}{
		{"newest", SortNewest, "created_at DESC, id ASC"},
		{"oldest", SortOldest, "created_at ASC, id ASC"},
		{"price ascending", SortPriceAsc, "price_cents ASC, id ASC"},
		{"price descending", SortPriceDesc, "price_cents DESC, id ASC"},
		{"most viewed", SortMostViewed, "views DESC, id ASC"},
		{"unknown key falls back to newest", "alphabetical", "created_at DESC, id ASC"},
		{"empty falls back to newest", "", "created_at DESC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sort))
		})
	}
}

func TestApplyFilter(t *testing.T) {
	db := newDryRunDB(t)

	tests := []struct {
		name        string
		filter      ProductFilter
		wantClauses []string
		skipClauses []string
		wantVars    []interface{}
	}{
		{
			name:        "no constraints",
			filter:      ProductFilter{},
			skipClauses: []string{"LOWER(title) LIKE ?", "category_id = ?"},
		},
		{
			name:        "search is lowercased",
			filter:      ProductFilter{Search: "PhoNe"},
			wantClauses: []string{"LOWER(title) LIKE ?"},
			wantVars:    []interface{}{"%phone%"},
		},
		{
			name:        "search wildcards match literally",
			filter:      ProductFilter{Search: `50%_off\now`},
			wantClauses: []string{"LOWER(title) LIKE ?"},
			wantVars:    []interface{}{`%50\%\_off\\now%`},
		},
		{
			name:        "category filter",
			filter:      ProductFilter{CategoryID: 3},
			wantClauses: []string{"category_id = ?"},
			skipClauses: []string{"LOWER(title) LIKE ?"},
			wantVars:    []interface{}{uint(3)},
		},
		{
			name:        "search and category combined",
			filter:      ProductFilter{Search: "bike", CategoryID: 3},
			wantClauses: []string{"LOWER(title) LIKE ?", "category_id = ?"},
			wantVars:    []interface{}{"%bike%", uint(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, vars := buildListSQL(t, db, tt.filter)

			for _, clause := range tt.wantClauses {
				assert.Contains(t, sql, clause)
			}
			for _, clause := range tt.skipClauses {
				assert.NotContains(t, sql, clause)
			}
			assert.Equal(t, tt.wantVars, vars)
		})
	}
}

func TestListOrdering(t *testing.T) {
	db := newDryRunDB(t)

	t.Run("default ordering is newest with id tie-break", func(t *testing.T) {
		sql, _ := buildListSQL(t, db, ProductFilter{})
		assert.Contains(t, sql, "ORDER BY created_at DESC, id ASC")
	})

	t.Run("unknown sort falls back to newest", func(t *testing.T) {
		sql, _ := buildListSQL(t, db, ProductFilter{Sort: "cheapest-first"})
		assert.Contains(t, sql, "ORDER BY created_at DESC, id ASC")
	})

	t.Run("price sort is applied", func(t *testing.T) {
		sql, _ := buildListSQL(t, db, ProductFilter{Sort: SortPriceAsc})
		assert.Contains(t, sql, "ORDER BY price_cents ASC, id ASC")
		assert.False(t, strings.Contains(sql, "created_at"))
	})
}
