package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInputSchemaReflection(t *testing.T) {
	t.Parallel()

	schema := inputSchema[registerClientArgs]()

	require.Equal(t, "object", schema.Type)
	require.Equal(t, []string{"app_id", "app_name", "role", "scopes"}, schema.Required)

	scopes, ok := schema.Properties["scopes"]
	require.True(t, ok)
	require.Equal(t, "array", scopes.Type)
	require.NotNil(t, scopes.Items)
	require.Equal(t, "string", scopes.Items.Type)

	role, ok := schema.Properties["role"]
	require.True(t, ok)
	require.Equal(t, "Client role", role.Description)
	require.Equal(t, []any{"doctor", "nurse", "patient", "admin", "system"}, role.Enum)

	// Optional fields are present in properties but not required.
	require.Contains(t, schema.Properties, "description")
	require.NotContains(t, schema.Required, "description")
}

func TestInputSchemaOptionalMeasurements(t *testing.T) {
	t.Parallel()

	schema := inputSchema[recordVitalSignsArgs]()
	require.Equal(t, []string{"mrn"}, schema.Required)
	require.Contains(t, schema.Properties, "systolic_bp")
	require.Contains(t, schema.Properties, "height")
}

func TestProtectedToolAdvertisesAccessToken(t *testing.T) {
	t.Parallel()

	tool := NewProtectedTool("probe", "probe tool", []string{"read:patients"},
		func(ctx context.Context, args getPatientArgs) (any, error) {
			return nil, nil
		})

	schema := tool.Descriptor.InputSchema
	require.Equal(t, []string{"access_token", "mrn"}, schema.Required)
	require.Equal(t, "string", schema.Properties["access_token"].Type)
	require.Equal(t, []string{"read:patients"}, tool.Descriptor.RequiredScopes)
	require.True(t, tool.RequiresToken)
}

func TestTypedHandlerRejectsBadArguments(t *testing.T) {
	t.Parallel()

	var gotMRN string
	tool := NewProtectedTool("probe", "probe tool", nil,
		func(ctx context.Context, args getPatientArgs) (any, error) {
			gotMRN = args.MRN
			return "ok", nil
		})

	t.Run("unknown keys", func(t *testing.T) {
		_, err := tool.Handler(context.Background(), json.RawMessage(`{"mrn":"MRN123456","bogus":1}`))
		require.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("wrong types", func(t *testing.T) {
		_, err := tool.Handler(context.Background(), json.RawMessage(`{"mrn":42}`))
		require.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("valid arguments", func(t *testing.T) {
		result, err := tool.Handler(context.Background(), json.RawMessage(`{"mrn":"MRN123456"}`))
		require.NoError(t, err)
		require.Equal(t, "ok", result)
		require.Equal(t, "MRN123456", gotMRN)
	})

	t.Run("empty arguments decode to zero values", func(t *testing.T) {
		_, err := tool.Handler(context.Background(), nil)
		require.NoError(t, err)
		require.Empty(t, gotMRN)
	})
}
