package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRefreshInterval = 60 * time.Second
	DefaultFetchTimeout    = 30 * time.Second
	DefaultGeminiModel     = "gemini-3-pro-preview"
	DefaultSlabURL         = "https://otcrate.com/slab"
	DefaultGrpURL          = "https://otcrate.com/grp.html"
	DefaultInstrument      = "Tether 泰达币 (BSC/TRX)"
	DefaultRateMin         = "7.0"
	DefaultRateMax         = "8.5"
	DefaultIdempotencyTTL  = 10 * time.Second
	DefaultRedisPingWait   = 5 * time.Second
	DefaultDisplayZone     = "Asia/Hong_Kong"
)
