package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

type testTimestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type testEntity struct {
	testTimestamps
	ID      id.ID       `db:"id"`
	Name    string      `db:"name"`
	Price   types.Money `db:"price"`
	Ignored string      `db:"-"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testEntity]()

	assert.Equal(t, []string{"created_at", "updated_at", "id", "name", "price"}, cols)
}

func TestExtractDBColumns_PointerType(t *testing.T) {
	cols := ExtractDBColumns[*testEntity]()

	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "name")
}

func TestStructToMap(t *testing.T) {
	now := time.Now()
	e := &testEntity{
		testTimestamps: testTimestamps{CreatedAt: now, UpdatedAt: now},
		ID:             id.New(),
		Name:           "Banana Prata",
		Price:          types.NewMoney(5.99),
		Ignored:        "dropped",
		NoTag:          "dropped",
	}

	m := StructToMap(e)

	assert.Equal(t, e.ID, m["id"])
	assert.Equal(t, "Banana Prata", m["name"])
	assert.Equal(t, now, m["created_at"])
	assert.Len(t, m, 5)
	assert.NotContains(t, m, "-")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
