package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"lmroman10regular", "builtin:lmroman10regular", "embed:LMRoman10Regular.ttf"} {
		data, err := Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
	_, err := Load("builtin:Inter-Regular")
	assert.ErrorContains(t, err, Default)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, Default)
}
