package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndParseData(t *testing.T) {
	agentID := uuid.New()
	n := &Notification{Type: TypeTierUpgrade}
	n.SetData(&Data{AgentID: &agentID, Tier: "gold"})
	require.NotEmpty(t, n.DataRaw)

	scanned := &Notification{DataRaw: n.DataRaw}
	scanned.ParseData()
	require.NotNil(t, scanned.Data)
	assert.Equal(t, agentID, *scanned.Data.AgentID)
	assert.Equal(t, "gold", scanned.Data.Tier)
}

func TestParseDataEmptyPayload(t *testing.T) {
	n := &Notification{}
	n.ParseData()
	assert.Nil(t, n.Data)

	n.DataRaw = []byte("{broken")
	n.ParseData()
	assert.Nil(t, n.Data)
}
