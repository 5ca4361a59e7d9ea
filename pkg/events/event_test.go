package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTripKeepsType(t *testing.T) {
	e := NewDocumentDeleted("doc-1", "a.pdf", 3)

	data, err := Marshal(e)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, DocumentDeleted, back.EventType())
	assert.Equal(t, "a.pdf", back.Payload()["filename"])
	assert.Equal(t, float64(3), back.Payload()["vectorsDeleted"])
	assert.True(t, e.Timestamp().Equal(back.Timestamp()))
}
