package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/curalinkhq/curalink/pkg/cryptox"
)

func TestMain(m *testing.M) {
	// Hashing needs a pepper; point it at a throwaway file.
	pepperPath := filepath.Join(os.TempDir(), "ehr-tools-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}
