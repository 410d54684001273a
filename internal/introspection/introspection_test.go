package introspection_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	introspection "github.com/hanpama/gqlmodel/internal/introspection"
	schema "github.com/hanpama/gqlmodel/internal/schema"
	"github.com/hanpama/gqlmodel/internal/testutil"
)

func TestEncodeSnapshot(t *testing.T) {
	data, err := introspection.Encode(testutil.StarWars(t))
	require.NoError(t, err)
	testutil.MatchSnapshot(t, filepath.Join("testdata", "starwars.json"), string(data)+"\n")
}

func TestRoundTrip(t *testing.T) {
	want := testutil.StarWars(t)

	data, err := introspection.Encode(want)
	require.NoError(t, err)
	got, err := introspection.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, schema.Render(want), schema.Render(got))
	assert.Equal(t, want.PossibleTypes("Character"), got.PossibleTypes("Character"))
	assert.Equal(t, want.PossibleTypes("SearchResult"), got.PossibleTypes("SearchResult"))
}

func TestDecodeBareSchema(t *testing.T) {
	s, err := introspection.Decode([]byte(`{
  "__schema": {
    "queryType": {"name": "Query"},
    "mutationType": null,
    "subscriptionType": null,
    "types": [
      {
        "kind": "OBJECT",
        "name": "Query",
        "description": null,
        "interfaces": [],
        "fields": [
          {
            "name": "greeting",
            "description": "Says hello.",
            "args": [
              {"name": "name", "description": null, "type": {"kind": "SCALAR", "name": "String", "ofType": null}, "defaultValue": "\"world\""}
            ],
            "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String", "ofType": null}},
            "isDeprecated": false,
            "deprecationReason": null
          }
        ]
      },
      {"kind": "SCALAR", "name": "String", "description": null},
      {"kind": "OBJECT", "name": "__Schema", "description": null, "fields": []}
    ],
    "directives": []
  }
}`))
	require.NoError(t, err)

	assert.Equal(t, "Query", s.QueryType)
	assert.Nil(t, s.Lookup("__Schema"))

	greeting := s.Lookup("Query").Field("greeting")
	require.NotNil(t, greeting)
	assert.Equal(t, "String!", greeting.Type.String())
	assert.Equal(t, "Says hello.", greeting.Description)
	require.Len(t, greeting.Arguments, 1)
	assert.Equal(t, schema.Literal(`"world"`), greeting.Arguments[0].DefaultValue)
}

func TestDecodeEnvelope(t *testing.T) {
	data, err := json.Marshal(map[string]any{
		"data": map[string]any{
			"__schema": map[string]any{
				"queryType": map[string]any{"name": "Query"},
				"types": []any{
					map[string]any{
						"kind": "ENUM",
						"name": "Color",
						"enumValues": []any{
							map[string]any{"name": "RED", "isDeprecated": false},
							map[string]any{"name": "BLUE", "isDeprecated": true, "deprecationReason": "gone"},
						},
					},
				},
			},
		},
	})
	require.NoError(t, err)

	s, err := introspection.Decode(data)
	require.NoError(t, err)
	color := s.Lookup("Color")
	require.NotNil(t, color)
	require.Len(t, color.EnumValues, 2)
	assert.True(t, color.EnumValues[1].IsDeprecated)
	assert.Equal(t, "gone", color.EnumValues[1].DeprecationReason)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", `{`, "introspection:"},
		{"no schema", `{"data": {}}`, introspection.ErrNoSchema.Error()},
		{"unknown kind", `{"__schema": {"types": [{"kind": "BOGUS", "name": "X"}]}}`, `unknown kind "BOGUS"`},
		{"missing type", `{"__schema": {"types": [{"kind": "OBJECT", "name": "Q", "fields": [{"name": "f", "args": []}]}]}}`, "missing type reference"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := introspection.Decode([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
