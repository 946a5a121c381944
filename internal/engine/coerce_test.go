package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/argbind/pkg/types"
)

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		name    string
		kind    types.Kind
		raw     string
		want    any
		wantErr bool
	}{
		{name: "string passthrough", kind: types.KindString, raw: "hello", want: "hello"},
		{name: "plain int", kind: types.KindInt, raw: "123", want: 123},
		{name: "negative int", kind: types.KindInt, raw: "-7", want: -7},
		{name: "hex int", kind: types.KindInt, raw: "0x1A", want: 26},
		{name: "binary int", kind: types.KindInt, raw: "0b101", want: 5},
		{name: "float-shaped int", kind: types.KindInt, raw: "30.0", want: 30},
		{name: "scientific int", kind: types.KindInt, raw: "7e2", want: 700},
		{name: "non-numeric int", kind: types.KindInt, raw: "abc", wantErr: true},
		{name: "int overflow via exponent", kind: types.KindInt, raw: "1e300", wantErr: true},
		{name: "int overflow via digits", kind: types.KindInt, raw: "99999999999999999999", wantErr: true},
		{name: "int rejects NaN", kind: types.KindInt, raw: "NaN", wantErr: true},
		{name: "float", kind: types.KindFloat, raw: "1.5", want: 1.5},
		{name: "bad float", kind: types.KindFloat, raw: "one", wantErr: true},
		{name: "bool yes", kind: types.KindBool, raw: "yes", want: true},
		{name: "bool T", kind: types.KindBool, raw: "T", want: true},
		{name: "bool 0", kind: types.KindBool, raw: "0", want: false},
		{name: "bool rejects maybe", kind: types.KindBool, raw: "maybe", wantErr: true},
		{name: "bool rejects empty", kind: types.KindBool, raw: "", wantErr: true},
		{name: "path cleaned", kind: types.KindPath, raw: "a//b/../c", want: "a/c"},
		{name: "duration", kind: types.KindDuration, raw: "1h30m", want: 90 * time.Minute},
		{name: "bad duration", kind: types.KindDuration, raw: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(types.Scalar{Kind: tt.kind}, []string{tt.raw})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrConversion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceScalarRejectsClusters(t *testing.T) {
	_, err := Coerce(types.Scalar{Kind: types.KindInt}, []string{"1", "2"})
	assert.ErrorIs(t, err, types.ErrConversion)
}

func TestCoerceEnum(t *testing.T) {
	folded := types.Enum{Choices: []string{"json", "yaml"}}

	got, err := Coerce(folded, []string{"JSON"})
	require.NoError(t, err)
	assert.Equal(t, "json", got, "coercion returns the declared choice form")

	got, err = Coerce(types.Enum{Choices: []string{"dry-run"}}, []string{"dry_run"})
	require.NoError(t, err)
	assert.Equal(t, "dry-run", got, "underscores fold to hyphens")

	_, err = Coerce(folded, []string{"toml"})
	assert.ErrorIs(t, err, types.ErrConversion)

	exact := types.Enum{Choices: []string{"json"}, ExactCase: true}
	_, err = Coerce(exact, []string{"JSON"})
	assert.ErrorIs(t, err, types.ErrConversion)
}

func TestCoerceUnionLeftToRight(t *testing.T) {
	intFirst := types.Union{Candidates: []types.Descriptor{
		types.Scalar{Kind: types.KindInt},
		types.Scalar{Kind: types.KindString},
	}}
	stringFirst := types.Union{Candidates: []types.Descriptor{
		types.Scalar{Kind: types.KindString},
		types.Scalar{Kind: types.KindInt},
	}}

	got, err := Coerce(intFirst, []string{"123"})
	require.NoError(t, err)
	assert.Equal(t, 123, got, "int candidate tried first wins")

	got, err = Coerce(intFirst, []string{"abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", got, "string candidate catches the fallthrough")

	got, err = Coerce(stringFirst, []string{"123"})
	require.NoError(t, err)
	assert.Equal(t, "123", got, "string candidate tried first wins even for numeric input")
}

func TestCoerceUnionAggregatesFailures(t *testing.T) {
	u := types.Union{Candidates: []types.Descriptor{
		types.Scalar{Kind: types.KindInt},
		types.Scalar{Kind: types.KindBool},
	}}

	_, err := Coerce(u, []string{"xyz"})
	require.Error(t, err)

	var conv *types.ConversionError
	require.True(t, errors.As(err, &conv))
	assert.Len(t, conv.Causes, 2, "every candidate failure is carried")
}

func TestCoerceOptional(t *testing.T) {
	opt := types.Optional(types.Scalar{Kind: types.KindInt})

	got, err := Coerce(opt, nil)
	require.NoError(t, err)
	assert.Nil(t, got, "empty cluster yields the no-value result")

	got, err = Coerce(opt, []string{"5"})
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestCoerceCollection(t *testing.T) {
	list := types.Collection{Element: types.Scalar{Kind: types.KindString}, Arity: types.ArityList}
	got, err := Coerce(list, []string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "a", "b"}, got, "list keeps encounter order and duplicates")

	set := types.Collection{Element: types.Scalar{Kind: types.KindString}, Arity: types.AritySet}
	got, err = Coerce(set, []string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "a"}, got, "set de-duplicates keeping first occurrence")

	ints := types.Collection{Element: types.Scalar{Kind: types.KindInt}, Arity: types.ArityList}
	_, err = Coerce(ints, []string{"1", "x"})
	assert.ErrorIs(t, err, types.ErrConversion, "one bad element fails the cluster")
}

func TestCoerceStructured(t *testing.T) {
	record := types.Structured{Fields: []types.Field{
		{Name: "url", Type: types.Scalar{Kind: types.KindString}, Default: "http://x", HasDefault: true},
		{Name: "port", Type: types.Scalar{Kind: types.KindInt}, Default: 8080, HasDefault: true},
	}}

	value, missing, err := CoerceStructured(record, map[string][]string{"port": {"9000"}}, "")
	require.NoError(t, err)
	require.Empty(t, missing)
	assert.Equal(t, map[string]any{"url": "http://x", "port": 9000}, value)
}

func TestCoerceStructuredMissingRequired(t *testing.T) {
	record := types.Structured{
		Prefix: "srv",
		Fields: []types.Field{
			{Name: "url", Type: types.Scalar{Kind: types.KindString}},
			{Name: "port", Type: types.Scalar{Kind: types.KindInt}, Default: 8080, HasDefault: true},
		},
	}

	_, missing, err := CoerceStructured(record, map[string][]string{"port": {"9000"}}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"srv.url"}, missing, "missing names are flattened")
}

func TestCoerceStructuredCheckHook(t *testing.T) {
	record := types.Structured{
		Fields: []types.Field{
			{Name: "low", Type: types.Scalar{Kind: types.KindInt}},
			{Name: "high", Type: types.Scalar{Kind: types.KindInt}},
		},
		Check: func(fields map[string]any) error {
			if fields["low"].(int) > fields["high"].(int) {
				return errors.New("low must not exceed high")
			}
			return nil
		},
	}

	slots := map[string][]string{"low": {"5"}, "high": {"3"}}
	_, _, err := CoerceStructured(record, slots, "")
	assert.ErrorIs(t, err, types.ErrConversion, "check hook failure is a conversion error")

	slots = map[string][]string{"low": {"3"}, "high": {"5"}}
	value, missing, err := CoerceStructured(record, slots, "")
	require.NoError(t, err)
	require.Empty(t, missing)
	assert.Equal(t, map[string]any{"low": 3, "high": 5}, value)
}

func TestCoerceStructuredSingleToken(t *testing.T) {
	record := types.Structured{Fields: []types.Field{
		{Name: "host", Type: types.Scalar{Kind: types.KindString}},
		{Name: "port", Type: types.Scalar{Kind: types.KindInt}, Default: 80, HasDefault: true},
	}}

	got, err := Coerce(record, []string{"example.org"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"host": "example.org", "port": 80}, got,
		"a single bare token fills the first slot")
}
