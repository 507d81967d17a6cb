package models

import (
	"strings"
	"testing"

	"rag-tutor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizPayload_Value(t *testing.T) {
	t.Run("nil items are stored as an empty array", func(t *testing.T) {
		v, err := QuizPayload{Title: "Kuiz"}.Value()
		require.NoError(t, err)
		assert.Contains(t, v, `"items":[]`)
		assert.Contains(t, v, `"passage":null`)
	})

	t.Run("items keep their order", func(t *testing.T) {
		p := QuizPayload{Items: []domain.QuizItem{{ID: "q1"}, {ID: "q2"}}}
		v, err := p.Value()
		require.NoError(t, err)
		s, ok := v.(string)
		require.True(t, ok)
		assert.Less(t, strings.Index(s, `"q1"`), strings.Index(s, `"q2"`))
	})
}

func TestQuizPayload_Scan(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantItems int
		wantErr   bool
	}{
		{name: "nil", input: nil, wantItems: 0},
		{name: "empty bytes", input: []byte(""), wantItems: 0},
		{name: "json null", input: "null", wantItems: 0},
		{name: "bytes", input: []byte(`{"title":"A","items":[{"id":"q1","type":"mcq"}]}`), wantItems: 1},
		{name: "string", input: `{"title":"A","items":[{"id":"q1"},{"id":"q2"}]}`, wantItems: 2},
		{name: "unsupported type", input: 42, wantErr: true},
		{name: "malformed json", input: "{", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p QuizPayload
			err := p.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, p.Items, tt.wantItems)
		})
	}
}

func TestQuizPayload_PassageSurvivesScan(t *testing.T) {
	passage := "Ali pergi ke pasar."
	v, err := QuizPayload{Passage: &passage, Items: []domain.QuizItem{{ID: "q1", RequiresPassage: true}}}.Value()
	require.NoError(t, err)

	var p QuizPayload
	require.NoError(t, p.Scan(v))
	require.NotNil(t, p.Passage)
	assert.Equal(t, passage, *p.Passage)
	assert.True(t, p.Items[0].RequiresPassage)
}
