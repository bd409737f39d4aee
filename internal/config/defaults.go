package config

const (
	defaultDataDir      = "~/.local/share/peloton"
	defaultOutputDir    = "~/.local/share/peloton/output"
	defaultLogDir       = "~/.local/share/peloton/logs"
	defaultRacesFile    = "~/.config/peloton/races.toml"
	defaultBaseURL      = "https://www.procyclingstats.com"
	defaultDelaySeconds = 1.0
	defaultTimeout      = 20
	defaultUserAgent    = "peloton/dev"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			RacesFile: defaultRacesFile,
		},
		Fetch: Fetch{
			BaseURL:        defaultBaseURL,
			DelaySeconds:   defaultDelaySeconds,
			TimeoutSeconds: defaultTimeout,
			UserAgent:      defaultUserAgent,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
