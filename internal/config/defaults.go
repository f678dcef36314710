package config

const (
	defaultConfigPath       = "~/.config/curator/config.toml"
	projectConfigName       = "curator.toml"
	defaultLogDir           = "~/.local/share/curator/logs"
	defaultLedgerPath       = "~/.local/share/curator/runs.db"
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultMinFreeGiB       = 5
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultExtension        = "mp4"
	defaultFPS              = 25
	defaultSampleRate       = 16000
	defaultMinEdge          = 256
	defaultThreshold        = 9.5

	envWorkers  = "CURATOR_WORKERS"
	envLogLevel = "CURATOR_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedgerPath,
		},
		Batch: Batch{
			MinFreeGiB: defaultMinFreeGiB,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Extension:     defaultExtension,
			FPS:           defaultFPS,
			SampleRate:    defaultSampleRate,
			MinEdge:       defaultMinEdge,
		},
		Quality: Quality{
			Threshold: defaultThreshold,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
