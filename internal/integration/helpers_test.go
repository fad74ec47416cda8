package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// envelopeKeys are set per request by the error envelope and never compared.
var envelopeKeys = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
}

func newScenarioRequest(method, path string, body io.Reader, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// compareResponse matches a JSON body against the expected document. Both
// sides may be objects or arrays.
func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	t.Helper()

	var actual any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected), "expected response is not valid JSON")

	stripEnvelopeKeys(actual)
	stripEnvelopeKeys(expected)

	if diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func stripEnvelopeKeys(v any) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if _, ok := envelopeKeys[k]; ok {
				delete(node, k)
				continue
			}
			stripEnvelopeKeys(child)
		}
	case []any:
		for _, child := range node {
			stripEnvelopeKeys(child)
		}
	}
}
