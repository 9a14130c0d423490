package config

const (
	defaultDataDir   = "~/.local/share/imprint/data"
	defaultLogDir    = "~/.local/share/imprint/logs"
	defaultStaticDir = "~/.local/share/imprint/static"
	defaultBind      = "127.0.0.1:8000"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			StaticDir: defaultStaticDir,
		},
		Server: Server{
			Bind: defaultBind,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
