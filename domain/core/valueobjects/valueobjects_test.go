package valueobjects

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordID(t *testing.T) {
	id, err := NewRecordID("  ARB-2024-001 ")
	require.NoError(t, err)
	assert.Equal(t, "ARB-2024-001", id.String())
	assert.True(t, id.Equals(MustRecordID("ARB-2024-001")))

	_, err = NewRecordID("   ")
	assert.Error(t, err)
}

func TestRecordID_JSON(t *testing.T) {
	data, err := json.Marshal(MustRecordID("SUE-2024-003"))
	require.NoError(t, err)
	assert.Equal(t, `"SUE-2024-003"`, string(data))

	var id RecordID
	require.NoError(t, json.Unmarshal([]byte(`"REG-2024-001"`), &id))
	assert.Equal(t, "REG-2024-001", id.String())
	assert.Error(t, json.Unmarshal([]byte(`42`), &id))
}

func TestDay_ParseAndFormat(t *testing.T) {
	d, err := ParseDay("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.String())
	assert.Equal(t, "15/03/2024", d.Display())
	assert.True(t, d.Equal(NewDay(2024, time.March, 15)))

	_, err = ParseDay("15/03/2024")
	assert.Error(t, err)
}

func TestDay_DayOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	late := time.Date(2024, time.March, 15, 23, 59, 0, 0, loc)

	assert.True(t, DayOf(late).Equal(MustParseDay("2024-03-15")))
}

func TestDay_Compare(t *testing.T) {
	a := MustParseDay("2024-03-15")
	b := MustParseDay("2024-03-25")

	assert.True(t, a.Before(b))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, "", Day{}.Display())
}

func TestFieldValue_Text(t *testing.T) {
	tests := []struct {
		name string
		v    FieldValue
		want string
	}{
		{"string", String("Pinus patula - Pino"), "Pinus patula - Pino"},
		{"number", Number(5), "5"},
		{"decimal", Number(12.5), "12.5"},
		{"category", Category("arbol"), "arbol"},
		{"day", DayValue(MustParseDay("2024-03-20")), "2024-03-20"},
		{"list", List("latitud", "longitud"), "latitud, longitud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Text())
		})
	}
}

func TestFieldValue_ListIsCopied(t *testing.T) {
	src := []string{"familia", "genero"}
	v := List(src...)
	src[0] = "changed"

	items := v.Items()
	assert.Equal(t, []string{"familia", "genero"}, items)
	items[1] = "changed"
	assert.Equal(t, []string{"familia", "genero"}, v.Items())
}

func TestFieldValue_IsBlank(t *testing.T) {
	assert.True(t, String("  ").IsBlank())
	assert.True(t, List().IsBlank())
	assert.True(t, DayValue(Day{}).IsBlank())
	assert.False(t, Number(0).IsBlank())
	assert.False(t, Category("suelo").IsBlank())
}

func TestFieldValueFromAny(t *testing.T) {
	v, err := FieldValueFromAny([]interface{}{"latitud", "longitud"})
	require.NoError(t, err)
	assert.Equal(t, KindList, v.Kind())

	v, err = FieldValueFromAny(float64(4))
	require.NoError(t, err)
	n, ok := v.Number()
	assert.True(t, ok)
	assert.Equal(t, 4.0, n)

	_, err = FieldValueFromAny(map[string]interface{}{"x": 1})
	assert.Error(t, err)
}

func TestFieldValue_Equal(t *testing.T) {
	assert.True(t, Category("arbol").Equal(Category("arbol")))
	assert.False(t, Category("arbol").Equal(String("arbol")))
	assert.True(t, List("a", "b").Equal(List("a", "b")))
	assert.False(t, List("a").Equal(List("a", "b")))
}
