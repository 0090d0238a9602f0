package ehr_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGatewayToolFlow exercises the canonical integration path end to end:
// 1. Initialize the MCP session
// 2. List the tool catalogue without credentials
// 3. Register a client application
// 4. Authenticate with the issued credentials
// 5. Read a seeded patient record through tools/call
func TestGatewayToolFlow(t *testing.T) {
	gw := startGateway(t)

	// Initialize the MCP session
	initRes, err := gw.HTTP.Initialize(t.Context())
	require.NoError(t, err)
	require.Equal(t, "2024-11-05", initRes.ProtocolVersion)
	require.Equal(t, "curalink-ehr", initRes.ServerInfo.Name)
	require.False(t, initRes.Capabilities.Tools.ListChanged)

	t.Logf("Session initialized against %s %s", initRes.ServerInfo.Name, initRes.ServerInfo.Version)

	// The catalogue is public and complete before any authentication
	toolList, err := gw.HTTP.ListTools(t.Context())
	require.NoError(t, err)
	require.Len(t, toolList, 16, "catalogue should list every tool")
	require.Equal(t, "authenticate", toolList[0].Name, "authentication tools come first")

	// Register and authenticate
	clientID, clientSecret := registerClient(t, gw.HTTP, "app_ward_tablet", "nurse",
		[]string{"read:patients", "read:vitals"})
	tokenRes := authenticateClient(t, gw.HTTP, clientID, clientSecret, "app_ward_tablet")
	require.Contains(t, tokenRes.Scope, "read:patients")
	require.Equal(t, "nurse", tokenRes.ClientInfo.Role)

	t.Logf("Authenticated, token scope: %s", tokenRes.Scope)

	// Read a seeded patient record
	payload := callTool(t, gw.HTTP, tokenRes.AccessToken, "get_patient", map[string]any{
		"mrn": seededPatientMRN,
	})
	require.Equal(t, "success", payload["status"])

	patient, ok := payload["patient"].(map[string]any)
	require.True(t, ok, "payload should carry a patient object")
	require.Equal(t, seededPatientMRN, patient["mrn"])
	require.Equal(t, "Margaret", patient["first_name"])
	require.Equal(t, "Thompson", patient["last_name"])
	require.Equal(t, "1958-03-14", patient["dob"])

	insurance, ok := patient["insurance"].(map[string]any)
	require.True(t, ok, "seeded patient should carry insurance")
	require.Equal(t, "Blue Shield", insurance["provider"])

	t.Logf("Retrieved %s %s (%s)", patient["first_name"], patient["last_name"], patient["mrn"])
}

// TestGatewayClinicalReads drives the read-side tools against the seeded
// dataset.
func TestGatewayClinicalReads(t *testing.T) {
	gw := startGateway(t)

	clientID, clientSecret := registerClient(t, gw.HTTP, "app_clinic_dashboard", "doctor",
		[]string{"read:patients", "read:appointments", "read:medications", "read:providers"})
	token := authenticateClient(t, gw.HTTP, clientID, clientSecret, "app_clinic_dashboard").AccessToken

	t.Run("search patients by last name", func(t *testing.T) {
		payload := callTool(t, gw.HTTP, token, "search_patients", map[string]any{
			"search_term": "Thompson",
		})
		require.Equal(t, float64(1), payload["count"])

		patients := payload["patients"].([]any)
		first := patients[0].(map[string]any)
		require.Equal(t, seededPatientMRN, first["mrn"])
	})

	t.Run("active medications for seeded patient", func(t *testing.T) {
		payload := callTool(t, gw.HTTP, token, "get_medications", map[string]any{
			"mrn": seededPatientMRN,
		})
		require.Equal(t, seededPatientMRN, payload["mrn"])

		meds := payload["medications"].([]any)
		names := make([]string, 0, len(meds))
		for _, m := range meds {
			names = append(names, m.(map[string]any)["name"].(string))
		}
		require.Contains(t, names, "Lisinopril")
		require.Contains(t, names, "Metformin")
	})

	t.Run("upcoming appointments include provider names", func(t *testing.T) {
		payload := callTool(t, gw.HTTP, token, "get_appointments", map[string]any{
			"mrn": seededPatientMRN,
		})
		appointments := payload["appointments"].([]any)
		require.NotEmpty(t, appointments)

		first := appointments[0].(map[string]any)
		require.NotEmpty(t, first["appointment_id"])
		require.NotEmpty(t, first["provider"])
	})

	t.Run("provider search by specialty", func(t *testing.T) {
		payload := callTool(t, gw.HTTP, token, "search_providers", map[string]any{
			"search_term": "Cardiology",
		})
		require.Equal(t, float64(1), payload["count"])

		providers := payload["providers"].([]any)
		first := providers[0].(map[string]any)
		require.Contains(t, first["name"], seededCardiologist)
	})

	t.Run("provider detail by npi", func(t *testing.T) {
		payload := callTool(t, gw.HTTP, token, "get_provider", map[string]any{
			"npi": seededProviderNPI,
		})
		provider := payload["provider"].(map[string]any)
		require.Equal(t, "Rodriguez", provider["last_name"])
		require.Equal(t, "Family Medicine", provider["specialty"])
	})
}

// TestGatewayWriteFlow creates a patient, schedules an appointment for them,
// and reads both back.
func TestGatewayWriteFlow(t *testing.T) {
	gw := startGateway(t)

	clientID, clientSecret := registerClient(t, gw.HTTP, "app_intake_kiosk", "doctor",
		[]string{"read:patients", "write:patients", "read:appointments", "write:appointments"})
	token := authenticateClient(t, gw.HTTP, clientID, clientSecret, "app_intake_kiosk").AccessToken

	// Create a patient
	created := callTool(t, gw.HTTP, token, "create_patient", map[string]any{
		"first_name": "Harold",
		"last_name":  "Finch",
		"dob":        "1961-01-09",
		"gender":     "male",
	})
	require.Equal(t, "success", created["status"])

	newPatient := created["patient"].(map[string]any)
	mrn := newPatient["mrn"].(string)
	require.Regexp(t, `^MRN[0-9A-F]{6}$`, mrn, "generated MRN should follow the house format")

	t.Logf("Created patient %s with MRN %s", newPatient["last_name"], mrn)

	// Schedule an appointment with a seeded provider
	scheduled := callTool(t, gw.HTTP, token, "schedule_appointment", map[string]any{
		"mrn":          mrn,
		"provider_npi": seededProviderNPI,
		"date":         "2026-09-21",
		"time":         "11:00",
		"reason":       "New patient intake",
	})
	require.Equal(t, "success", scheduled["status"])

	appointment := scheduled["appointment"].(map[string]any)
	appointmentID := appointment["appointment_id"].(string)
	require.Regexp(t, `^APT[0-9A-F]{6}$`, appointmentID)

	// Read it back
	listed := callTool(t, gw.HTTP, token, "get_appointments", map[string]any{"mrn": mrn})
	appointments := listed["appointments"].([]any)
	require.Len(t, appointments, 1)
	require.Equal(t, appointmentID, appointments[0].(map[string]any)["appointment_id"])

	// The slot is now taken for that provider
	conflict, err := gw.HTTP.CallTool(t.Context(), "schedule_appointment", map[string]any{
		"access_token": token,
		"mrn":          seededPatientMRN,
		"provider_npi": seededProviderNPI,
		"date":         "2026-09-21",
		"time":         "11:00",
	})
	require.NoError(t, err, "slot conflicts are business errors, not protocol errors")
	require.True(t, conflict.IsError, "double booking the same slot should fail")
}
