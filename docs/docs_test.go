package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	for _, p := range []string{"/", "/health", "/status", "/test", "/save", "/api/v1/events", "/ws"} {
		assert.Contains(t, doc.Paths, p)
	}
	assert.Contains(t, string(doc.Paths["/ws"]["get"]), `"name": "refresh"`)
}
