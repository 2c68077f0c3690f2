package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/joypad"
)

func TestCatalogTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Catalog{Platform: "xbox"}).write(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, int(joypad.InputCount)+1)
	assert.True(t, strings.HasPrefix(lines[0], "INDEX"))
	assert.Contains(t, buf.String(), "White button")
}

func TestCatalogJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Catalog{Platform: "xbox360", JSON: true}).write(&buf))
	var resp apitypes.CatalogResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "xbox360", resp.Platform)
	assert.Len(t, resp.Entries, int(joypad.InputCount))
	assert.Equal(t, "A button", resp.Entries[0].Label)
}

func TestCatalogUnknownPlatform(t *testing.T) {
	assert.Error(t, (&Catalog{Platform: "ps2"}).write(&bytes.Buffer{}))
}
