package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f9-o/dtogen/pkg/errs"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func mustParse(t *testing.T, src string) Value {
	t.Helper()
	v, err := Parse([]byte(src), "inline")
	require.NoError(t, err)
	return v
}

func TestLoadValidDocument(t *testing.T) {
	path := writeFile(t, "valid.json", []byte(`{"name":"Alice","age":20}`))

	doc, err := Load(path)
	require.NoError(t, err)

	obj, ok := doc.Root.(*Object)
	require.True(t, ok)
	name, ok := obj.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Alice", name)
	assert.Greater(t, doc.SizeBytes, int64(0))
	assert.False(t, doc.HadBOM)
}

func TestLoadStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"name":"Bob","age":30}`)...)
	path := writeFile(t, "bom.json", data)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.True(t, doc.HadBOM)

	name, _ := doc.Root.(*Object).Get("name")
	assert.Equal(t, "Bob", name)
}

func TestLoadErrors(t *testing.T) {
	large := []byte(strings.Repeat("a", int(MaxInputSize)+1))

	cases := []struct {
		name string
		path string
		code errs.ErrorCode
		msg  string
	}{
		{"missing", filepath.Join(t.TempDir(), "nope.json"), errs.ErrInputNotFound, "does not exist or is not a file"},
		{"directory", t.TempDir(), errs.ErrInputNotFound, "does not exist or is not a file"},
		{"string root", writeFile(t, "root.json", []byte(`"just string"`)), errs.ErrInputRoot, "root must be an object or an array"},
		{"broken", writeFile(t, "broken.json", []byte(`{ invalid json`)), errs.ErrInputSyntax, "is not valid JSON"},
		{"too large", writeFile(t, "large.json", large), errs.ErrInputTooLarge, "file is too large"},
		{"empty", writeFile(t, "empty.json", nil), errs.ErrInputSyntax, "is not valid JSON"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			require.Error(t, err)
			assert.True(t, errs.IsCode(err, tc.code), "got %v", err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{} {}`), "inline")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrInputSyntax))
}

func TestParseKeepsKeyOrder(t *testing.T) {
	obj := mustParse(t, `{"z":1,"a":2,"m":3,"a":4}`).(*Object)

	keys := make([]string, 0, len(obj.Members))
	for _, m := range obj.Members {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	a, _ := obj.Get("a")
	assert.EqualValues(t, "4", a)
}

func TestParseWideObjectIsLinear(t *testing.T) {
	const n = 200_000
	var b strings.Builder
	b.WriteString("{")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"k%d":%d`, i, i)
	}
	b.WriteString(`,"k7":"last"}`)
	require.Less(t, int64(b.Len()), MaxInputSize)

	start := time.Now()
	v, err := Parse([]byte(b.String()), "wide")
	require.NoError(t, err)
	root := Analyze(v)
	assert.Less(t, time.Since(start), 15*time.Second)

	obj := v.(*Object)
	assert.Len(t, obj.Members, n)
	last, ok := obj.Get("k7")
	require.True(t, ok)
	assert.Equal(t, "last", last)
	assert.Equal(t, "k7", obj.Members[7].Key)
	assert.Equal(t, n, root.(*ObjectNode).Len())
}

func TestObjectGetWithoutDecoding(t *testing.T) {
	obj := &Object{Members: []Member{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}}
	v, ok := obj.Get("b")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = obj.Get("c")
	assert.False(t, ok)
}

func TestAnalyzeSimpleObject(t *testing.T) {
	root := Analyze(mustParse(t, `{ "name": "Alice", "age": 20, "score": 9.5, "ok": true, "note": null }`))

	obj, ok := root.(*ObjectNode)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "age", "score", "ok", "note"}, obj.Names())

	kinds := map[string]PKind{"name": String, "age": Integer, "score": Number, "ok": Boolean, "note": Null}
	for field, want := range kinds {
		info, ok := obj.Field(field)
		require.True(t, ok, field)
		assert.False(t, info.Optional(), field)
		prim, ok := info.Schema.(*PrimitiveNode)
		require.True(t, ok, field)
		assert.Equal(t, want, prim.P, field)
	}
}

func TestAnalyzeArrays(t *testing.T) {
	obj := Analyze(mustParse(t, `{ "values": [1, 2, 3], "mixed": [1, "two", 3], "none": [] }`)).(*ObjectNode)

	values, _ := obj.Field("values")
	arr := values.Schema.(*ArrayNode)
	require.Len(t, arr.Elements, 1)
	assert.Equal(t, Integer, arr.Elements[0].(*PrimitiveNode).P)

	mixed, _ := obj.Field("mixed")
	kinds := []PKind{}
	for _, e := range mixed.Schema.(*ArrayNode).Elements {
		prim, ok := e.(*PrimitiveNode)
		require.True(t, ok)
		kinds = append(kinds, prim.P)
	}
	assert.ElementsMatch(t, []PKind{Integer, String}, kinds)

	none, _ := obj.Field("none")
	assert.True(t, none.Schema.(*ArrayNode).Empty)
	assert.Empty(t, none.Schema.(*ArrayNode).Elements)
}

func TestAnalyzeArrayOfObjectsTracksOptionalFields(t *testing.T) {
	obj := Analyze(mustParse(t, `{"items":[{"id":1,"name":"a"},{"id":2},{"id":3.5,"tag":null}]}`)).(*ObjectNode)

	items, _ := obj.Field("items")
	arr := items.Schema.(*ArrayNode)
	require.Len(t, arr.Elements, 1)

	elem := arr.Elements[0].(*ObjectNode)
	assert.Equal(t, 3, elem.Samples)
	assert.Equal(t, []string{"id", "name", "tag"}, elem.Names())

	id, _ := elem.Field("id")
	assert.False(t, id.Optional())
	assert.Equal(t, Number, id.Schema.(*PrimitiveNode).P)

	name, _ := elem.Field("name")
	assert.True(t, name.Optional())
	assert.Equal(t, 1, name.PresentCount)
	assert.Equal(t, 3, name.TotalSamples)
}

func TestMergeProducesFlatUnion(t *testing.T) {
	u := Merge(Merge(NewPrimitive(String), NewPrimitive(Null)), NewPrimitive(String))

	union, ok := u.(*UnionNode)
	require.True(t, ok)
	assert.Len(t, union.Variants, 2)
	assert.True(t, union.Has(String))
	assert.True(t, union.Has(Null))
}

func TestUnionAddMergesCompatibleVariants(t *testing.T) {
	u := NewUnion(NewPrimitive(Integer), NewPrimitive(Number), NewPrimitive(Integer))
	require.Len(t, u.Variants, 1)
	assert.Equal(t, Number, u.Variants[0].(*PrimitiveNode).P)

	u.Add(NewUnion(NewPrimitive(Boolean), NewPrimitive(Null)))
	assert.Len(t, u.Variants, 3)
}

func TestNameConverter(t *testing.T) {
	n := DefaultNames{}

	assert.Equal(t, "ProfitRate", n.PascalCase("profit_rate"))
	assert.Equal(t, "profitRate", n.CamelCase("profit_rate"))
	assert.Equal(t, "UserNameId", n.PascalCase("user-name id"))
	assert.Equal(t, "userNameId", n.CamelCase("user-name id"))
	assert.Equal(t, "TempC", n.PascalCase("temp_c"))
	assert.Equal(t, "", n.PascalCase(""))
	assert.Equal(t, "", n.CamelCase(""))
	assert.Equal(t, "", n.CamelCase("__"))
}
