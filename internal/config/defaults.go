package config

const (
	defaultLogDir    = "~/.local/share/dupescan/logs"
	defaultTrashDir  = "~/.local/share/dupescan/trash"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			TrashDir: defaultTrashDir,
		},
		Scan: Scan{
			Workers: 0,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
