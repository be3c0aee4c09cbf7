package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTrimmed(t *testing.T) {
	r := Record{
		Name:    "  Asha ",
		Father:  "Ravi",
		Village: "\tKothur\n",
		State:   " Telangana",
		Country: "India ",
	}
	assert.Equal(t, Record{
		Name:    "Asha",
		Father:  "Ravi",
		Village: "Kothur",
		State:   "Telangana",
		Country: "India",
	}, r.Trimmed())
}

// TestRecordJSONKeys pins the capitalized key names in the persisted layout.
func TestRecordJSONKeys(t *testing.T) {
	data, err := json.Marshal(Record{Name: "Asha"})
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"Name", "Father", "Village", "State", "Country"} {
		assert.Contains(t, raw, key)
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizeIdentifier("  +919876543210  "))
	assert.Equal(t, "+919876543210", NormalizeIdentifier("+919876543210"))
	assert.Equal(t, "", NormalizeIdentifier("   "))
}
