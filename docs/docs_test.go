package docs

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	Swagger     string                     `json:"swagger"`
	BasePath    string                     `json:"basePath"`
	Paths       map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage `json:"definitions"`
}

func TestRegisteredDocMatchesSwaggerJSON(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var registered document
	require.NoError(t, json.Unmarshal([]byte(raw), &registered))

	file, err := os.ReadFile("swagger.json")
	require.NoError(t, err)
	var generated document
	require.NoError(t, json.Unmarshal(file, &generated))

	assert.Equal(t, "2.0", registered.Swagger)
	assert.Equal(t, generated.BasePath, registered.BasePath)
	require.Len(t, registered.Paths, len(generated.Paths))
	for path, ops := range generated.Paths {
		assert.JSONEq(t, string(ops), string(registered.Paths[path]), path)
	}
	require.Len(t, registered.Definitions, len(generated.Definitions))
	for name, def := range generated.Definitions {
		assert.JSONEq(t, string(def), string(registered.Definitions[name]), name)
	}
}

func TestDocCoversAPIRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	for _, path := range []string{"/api/register", "/api/login", "/api/logout", "/api/user", "/api/expenses"} {
		assert.Contains(t, doc.Paths, path)
	}
}
