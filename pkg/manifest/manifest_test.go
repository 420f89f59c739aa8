package manifest

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeRoundTrip(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "y", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	m := New("titanic", schema, "test")
	m.Target = "y"
	m.Seed = 42
	m.AddPart("titanic_train", "titanic_train.csv", 7, true)
	m.AddPart("titanic_test", "titanic_test.csv", 3, false)

	data, err := m.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, "titanic", got.Name)
	assert.Equal(t, "y", got.Target)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, m.Parts, got.Parts)
	assert.Equal(t, 10, got.Rows())
	assert.Equal(t, "test", got.AuditTrail.CreatedBy)
	require.NotNil(t, got.Schema)
	assert.True(t, schema.Equal(got.Schema))
}

func TestDeserializeRejectsForeignJSON(t *testing.T) {
	_, err := Deserialize([]byte(`{"name":"x"}`))
	assert.Error(t, err)

	_, err = Deserialize([]byte(`not json`))
	assert.Error(t, err)
}
