package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		op   Operation
		in   string
		want string
	}{
		{Upper, "hello world", "HELLO WORLD"},
		{Lower, "HELLO World", "hello world"},
		{Title, "go programming", "Go Programming"},
		{Title, "they're 2nd-rate", "They'Re 2Nd-Rate"},
		{Title, "", ""},
		{Reverse, "reverse this text", "txet siht esrever"},
		{Reverse, "héllo", "olléh"},
		{WordCount, "count these words here", "4"},
		{WordCount, "  spaced\tout\n words ", "3"},
		{WordCount, "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.op.String()+"/"+tt.in, func(t *testing.T) {
			got, err := Apply(tt.op, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyUnknownOperation(t *testing.T) {
	_, err := Apply(Operation(99), "x")
	assert.ErrorContains(t, err, "Operation(99)")
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations() {
		parsed, err := ParseOperation(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	_, err := ParseOperation("shout")
	assert.EqualError(t, err, "unknown operation: shout. Available: upper, lower, title, reverse, word_count")
}
