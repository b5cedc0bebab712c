package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDoc_GenerateResponses(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Responses map[string]struct {
				Schema struct {
					Ref string `json:"$ref"`
				} `json:"schema"`
			} `json:"responses"`
		} `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	generate := doc.Paths["/generate"]["post"]
	assert.Equal(t, "#/definitions/dto.GenerateResponse", generate.Responses["200"].Schema.Ref)
	assert.Equal(t, "#/definitions/middleware.ValidationErrorResponse", generate.Responses["400"].Schema.Ref)

	for _, name := range []string{"dto.GenerateResponse", "middleware.ValidationErrorResponse", "domain.ValidationError"} {
		assert.Contains(t, doc.Definitions, name)
	}
}
