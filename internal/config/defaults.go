package config

const (
	defaultConfigPath   = "~/.config/lumberjack/config.toml"
	defaultBackend      = "cloudwatch"
	defaultPageSize     = 100
	defaultTailInterval = 3
	defaultMaxLines     = 2000
	defaultEvictLines   = 500
	defaultPresetsPath  = "~/.config/lumberjack/presets.db"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultLogFile      = "~/.local/state/lumberjack/lumberjack.log"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: defaultBackend,
		Local: Local{
			PageSize: defaultPageSize,
		},
		Tail: Tail{
			IntervalSeconds: defaultTailInterval,
		},
		Results: Results{
			MaxLines:   defaultMaxLines,
			EvictLines: defaultEvictLines,
		},
		Presets: Presets{
			Path: defaultPresetsPath,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   defaultLogFile,
		},
	}
}
