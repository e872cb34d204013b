package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_ForeignKeysReferenceEarlierTables(t *testing.T) {
	seen := map[string]map[string]bool{}
	for _, tmpl := range Schema() {
		cols := map[string]bool{}
		for _, c := range tmpl.Columns {
			require.False(t, cols[c.Name], "%s.%s declared twice", tmpl.Name, c.Name)
			cols[c.Name] = true
		}
		for _, pk := range tmpl.PrimaryKey {
			assert.True(t, cols[pk], "%s primary key column %s", tmpl.Name, pk)
		}
		for _, fk := range tmpl.ForeignKeys {
			assert.True(t, cols[fk.Column], "%s foreign key column %s", tmpl.Name, fk.Column)
			ref, ok := seen[fk.RefTable]
			require.True(t, ok, "%s references %s before it is created", tmpl.Name, fk.RefTable)
			assert.True(t, ref[fk.RefColumn], "%s references unknown %s.%s", tmpl.Name, fk.RefTable, fk.RefColumn)
		}
		seen[tmpl.Name] = cols
	}
	assert.Len(t, seen, 10)
}

func TestGenerateDDL(t *testing.T) {
	var ekko TableTemplate
	for _, tmpl := range Schema() {
		if tmpl.Name == TableOrderHeaders {
			ekko = tmpl
		}
	}

	ddl := generateDDL(ekko)

	assert.True(t, strings.HasPrefix(ddl, "-- Purchase order header\nCREATE TABLE EKKO (\n"))
	assert.Contains(t, ddl, "EBELN VARCHAR(11),")
	assert.Contains(t, ddl, "-- Purchase document number")
	assert.Contains(t, ddl, "PRIMARY KEY (EBELN),")
	assert.Contains(t, ddl, "FOREIGN KEY (LIFNR) REFERENCES LFA1(LIFNR),")
	assert.Contains(t, ddl, "FOREIGN KEY (ZTERM) REFERENCES T052(ZTERM)\n);\n")
	assert.Equal(t, len(ekko.Columns)+len(ekko.ForeignKeys)+1, strings.Count(ddl, "\n    "))
}

func TestGenerateDDL_CompositeKey(t *testing.T) {
	ddl := generateDDL(TableTemplate{
		Name:        "T",
		Description: "test",
		Columns:     []ColumnDef{{"A", "INTEGER", ""}, {"B", "INTEGER", ""}},
		PrimaryKey:  []string{"A", "B"},
	})
	assert.Contains(t, ddl, "PRIMARY KEY (A, B)\n);")
	assert.NotContains(t, ddl, "FOREIGN KEY")
}
