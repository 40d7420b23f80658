package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huiyuanXP/racode/pkg/types"
)

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestParseSearchRequest(t *testing.T) {
	req, err := parseSearchRequest(callRequest(map[string]interface{}{
		"query": "authentication",
	}))
	require.NoError(t, err)
	assert.Equal(t, "authentication", req.Query)
	assert.Equal(t, ".md", req.Extensions)
	assert.Equal(t, 5, req.Limit)

	req, err = parseSearchRequest(callRequest(map[string]interface{}{
		"query":      "  model selector  ",
		"extensions": ".ts,.tsx",
		"limit":      float64(20),
	}))
	require.NoError(t, err)
	assert.Equal(t, "model selector", req.Query)
	assert.Equal(t, ".ts,.tsx", req.Extensions)
	assert.Equal(t, 20, req.Limit)
}

func TestParseSearchRequest_Invalid(t *testing.T) {
	_, err := parseSearchRequest(callRequest(map[string]interface{}{}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = parseSearchRequest(callRequest(map[string]interface{}{"query": "   "}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = parseSearchRequest(callRequest(map[string]interface{}{
		"query": "ok", "limit": float64(0),
	}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = parseSearchRequest(callRequest(map[string]interface{}{
		"query": "ok", "limit": float64(101),
	}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestParseSymbolRequest(t *testing.T) {
	req, err := parseSymbolRequest(callRequest(map[string]interface{}{
		"symbol": "ModelSelector", "language": "typescript",
	}))
	require.NoError(t, err)
	assert.Equal(t, "ModelSelector", req.Symbol)
	assert.Equal(t, "typescript", req.Language)
}

func TestParseSymbolRequest_Invalid(t *testing.T) {
	_, err := parseSymbolRequest(callRequest(map[string]interface{}{
		"language": "python",
	}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = parseSymbolRequest(callRequest(map[string]interface{}{
		"symbol": "foo",
	}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = parseSymbolRequest(callRequest(map[string]interface{}{
		"symbol": "foo", "language": "rust",
	}))
	assert.ErrorIs(t, err, types.ErrUnsupportedLanguage)
}
