package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config keys shared by commands.
const (
	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"
	KeyDBPath    = "database.path"
	KeySink      = "sink.backend"

	KeyWorkers         = "pipeline.workers"
	KeyDedupWindow     = "pipeline.dedup_window"
	KeyDefaultCategory = "pipeline.default_category"
	KeyDefaultNote     = "pipeline.default_note"
	KeyFallbackIcon    = "pipeline.fallback_icon"
	KeyParsers         = "pipeline.parsers"

	KeyAMQPURL      = "notify.amqp_url"
	KeyAMQPExchange = "notify.amqp_exchange"
	KeyAMQPQueue    = "notify.amqp_queue"
)

// Sink backends.
const (
	SinkSQLite = "sqlite"
	SinkSheets = "sheets"
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyDBPath, filepath.Join(DefaultDir(), "autobill.db"))
	v.SetDefault(KeySink, SinkSQLite)

	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyDedupWindow, 5*time.Second)
	v.SetDefault(KeyDefaultCategory, "其他")
	v.SetDefault(KeyDefaultNote, "自动记账")
	v.SetDefault(KeyFallbackIcon, "❓")
	v.SetDefault(KeyParsers, []string{"wechat", "alipay"})

	v.SetDefault("llm.provider", "endpoint")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 200)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay", 500*time.Millisecond)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.cache_ttl", 10*time.Minute)
	v.SetDefault("llm.fallback_category", "其他")

	v.SetDefault(KeyAMQPExchange, "autobill")
	v.SetDefault(KeyAMQPQueue, "autobill.bills")

	v.SetDefault("sheets.sheet_name", "Bills")
	v.SetDefault("sheets.time_zone", "Asia/Shanghai")
}

// DatabasePath returns the expanded SQLite path.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(v.GetString(KeyDBPath))
}
