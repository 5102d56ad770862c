package config

const (
	defaultDataDir               = "~/.local/share/loom"
	defaultLogDir                = "~/.local/share/loom/logs"
	defaultSchedulePath          = "~/.config/loom/schedule.toml"
	defaultBookingTimeoutSeconds = 10
	defaultLookaheadDays         = 60
	defaultPopulationScope       = "platform"
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// PopulationScopePlatform computes a priority's population from the future
// posts on that priority's platforms; PopulationScopeGlobal uses every
// fetched future post.
const (
	PopulationScopePlatform = "platform"
	PopulationScopeGlobal   = "global"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			LogDir:       defaultLogDir,
			SchedulePath: defaultSchedulePath,
		},
		Booking: Booking{
			TimeoutSeconds: defaultBookingTimeoutSeconds,
		},
		Planner: Planner{
			LookaheadDays:   defaultLookaheadDays,
			PopulationScope: defaultPopulationScope,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Plan:           true,
			Apply:          true,
			Degraded:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
