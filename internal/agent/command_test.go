package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_SimpleVerbs(t *testing.T) {
	tests := map[string]Kind{
		"scan":          KindScan,
		"SCAN":          KindScan,
		"history":       KindHistory,
		"trades":        KindTrades,
		"status":        KindStatus,
		"dashboard_all": KindDashboardAll,
		"Help":          KindHelp,
	}
	for input, want := range tests {
		cmd, err := Parse(input)
		assert.NoError(t, err, "input %q", input)
		assert.Equal(t, want, cmd.Kind, "input %q", input)
	}
}

func TestParse_Dashboard(t *testing.T) {
	cmd, err := Parse("dashboard btc-usdt")
	assert.NoError(t, err)
	assert.Equal(t, KindDashboard, cmd.Kind)
	assert.Equal(t, "BTC-USDT", cmd.Pair)

	_, err = Parse("dashboard")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard [PAIR]")
}

func TestParse_Config(t *testing.T) {
	cmd, err := Parse("config MIN_PROFIT 1.5")
	assert.NoError(t, err)
	assert.Equal(t, KindConfig, cmd.Kind)
	assert.Equal(t, "min_profit", cmd.Param)
	assert.Equal(t, "1.5", cmd.Value)

	_, err = Parse("config min_profit")
	assert.Error(t, err)
}

func TestParse_SetupApi(t *testing.T) {
	cmd, err := Parse("setup_api MyCaseSensitiveKey")
	assert.NoError(t, err)
	assert.Equal(t, KindSetupApi, cmd.Kind)
	assert.Equal(t, "MyCaseSensitiveKey", cmd.ApiKey, "API keys keep their case")

	_, err = Parse("setup_api")
	assert.Error(t, err)
}

func TestParse_Monitor(t *testing.T) {
	cmd, err := Parse("monitor eth-usdt 120")
	assert.NoError(t, err)
	assert.Equal(t, KindMonitor, cmd.Kind)
	assert.Equal(t, "ETH-USDT", cmd.Pair)
	assert.Equal(t, 120, cmd.Seconds)

	_, err = Parse("monitor eth-usdt soon")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "number")

	_, err = Parse("monitor eth-usdt")
	assert.Error(t, err)
}

func TestParse_Unknown(t *testing.T) {
	for _, input := range []string{"", "   ", "what is arbitrage?", "scanner"} {
		cmd, err := Parse(input)
		assert.NoError(t, err)
		assert.Equal(t, KindUnknown, cmd.Kind, "input %q", input)
	}
}
