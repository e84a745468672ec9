package cli

import (
	"testing"

	"github.com/chemkit/sucos/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logging.SetDefault(false)
	m.Run()
}

func TestNewApp(t *testing.T) {
	app := newApp()
	require.NotNil(t, app)
	assert.Equal(t, "sucos", app.Name)

	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"score", "cluster", "query", "server"}, names)
}

func TestScoreCmd_Flags(t *testing.T) {
	assert.True(t, inputFlag.Required)
	assert.True(t, outputFlag.Required)
	assert.Equal(t, "max", modeFlag.Value)
}

func TestMakeRouter(t *testing.T) {
	mux := makeRouter(nil)
	require.NotNil(t, mux)

	_, pattern := mux.Handler(newTestRequest(t, "GET", "/data/runs"))
	assert.Equal(t, "GET /data/runs", pattern)
	_, pattern = mux.Handler(newTestRequest(t, "GET", "/data/results"))
	assert.Equal(t, "GET /data/results", pattern)
}
