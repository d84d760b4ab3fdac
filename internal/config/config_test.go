package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("AUTOBILL_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/bills.db", want: filepath.Join(home, "bills.db")},
		{in: "$AUTOBILL_TEST_DIR/bills.db", want: "/data/bills.db"},
		{in: "/abs/path.db", want: "/abs/path.db"},
		{in: "~other/x", want: "~other/x"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), tt.in)
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, SinkSQLite, v.GetString(KeySink))
	assert.Equal(t, 4, v.GetInt(KeyWorkers))
	assert.Equal(t, 5*time.Second, v.GetDuration(KeyDedupWindow))
	assert.Equal(t, "其他", v.GetString(KeyDefaultCategory))
	assert.Equal(t, "自动记账", v.GetString(KeyDefaultNote))
	assert.Equal(t, 30*time.Second, v.GetDuration("llm.timeout"))
	assert.Equal(t, "endpoint", v.GetString("llm.provider"))
	assert.Equal(t, []string{"wechat", "alipay"}, v.GetStringSlice(KeyParsers))
	assert.Equal(t, "autobill", v.GetString(KeyAMQPExchange))
	assert.Equal(t, "autobill.bills", v.GetString(KeyAMQPQueue))
	assert.Empty(t, v.GetString(KeyAMQPURL))
	assert.True(t, filepath.IsAbs(DatabasePath(v)))
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, k := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN", "GOOGLE_SHEETS_SPREADSHEET_ID",
	} {
		t.Setenv(k, "")
	}

	t.Run("viper values", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("sheets.service_account_path", "/keys/sa.json")
		v.Set("sheets.spreadsheet_id", "abc")
		v.Set("sheets.sheet_name", "账单")

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "abc", cfg.SpreadsheetID)
		assert.Equal(t, "账单", cfg.SheetName)
		assert.Equal(t, "Asia/Shanghai", cfg.TimeZone)
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "token")

		cfg, err := LoadSheetsConfig(viper.New())
		require.NoError(t, err)
		assert.Equal(t, "id", cfg.ClientID)
		assert.Equal(t, "Bills", cfg.SheetName)
	})

	t.Run("no auth", func(t *testing.T) {
		_, err := LoadSheetsConfig(viper.New())
		require.Error(t, err)
	})
}
