package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestInterpolatePaths(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","tags":["a","b"]},"items":[{"qty":3}]}`)
	assert.Equal(t, "Hello, Ada!", Interpolate("Hello, ${user.name}!", data))
	assert.Equal(t, "b/3", Interpolate("${user.tags[1]}/${ items[0].qty }", data))
}

func TestInterpolateDefaultsAndMissing(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada"}}`)

	out, missing := InterpolateReport("${user.city|Paris}, ${user.zip}", data)
	assert.Equal(t, "Paris, ${user.zip}", out)
	assert.Equal(t, []string{"user.zip"}, missing)

	out, missing = InterpolateReport("${user.name|x} ${user.tags[3]}", data)
	assert.Equal(t, "Ada ${user.tags[3]}", out)
	assert.Equal(t, []string{"user.tags[3]"}, missing)
}

func TestInterpolateWithoutData(t *testing.T) {
	out, missing := InterpolateReport("${a.b|fallback} ${c}", nil)
	assert.Equal(t, "fallback ${c}", out)
	assert.Equal(t, []string{"c"}, missing)
	assert.Equal(t, "plain", Interpolate("plain", nil))
}

func TestCompileReusesTemplate(t *testing.T) {
	tpl := Compile("Dear ${user.name|friend}, order ${order.id} ${} ${unclosed")
	assert.Equal(t, []string{"user.name", "order.id"}, tpl.Paths())

	out, missing := tpl.Execute(decode(t, `{"order":{"id":42}}`))
	assert.Equal(t, "Dear friend, order 42 ${} ${unclosed", out)
	assert.Empty(t, missing)

	out, missing = tpl.Execute(decode(t, `{"user":{"name":"Ada"},"order":{"id":1.5}}`))
	assert.Equal(t, "Dear Ada, order 1.5 ${} ${unclosed", out)
	assert.Empty(t, missing)
}

func TestMalformedPathsAreMissing(t *testing.T) {
	data := decode(t, `{"a":[1,2]}`)
	for _, text := range []string{"${a[x]}", "${a[0}", "${a..b}", "${a.0}"} {
		out, missing := InterpolateReport(text, data)
		assert.Equal(t, text, out)
		assert.Len(t, missing, 1, text)
	}
}

func TestParsePath(t *testing.T) {
	steps, err := parsePath("items[2][0].name")
	require.NoError(t, err)
	assert.Equal(t, []step{{key: "items"}, {index: 2}, {index: 0}, {key: "name"}}, steps)
}
