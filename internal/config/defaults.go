package config

const (
	defaultSourceDir    = "audios"
	defaultTargetDir    = "audio"
	defaultLogDir       = "~/.local/share/stereoset/logs"
	defaultFFmpegBinary = "ffmpeg"
	defaultSoxBinary    = "sox"
	defaultMergeTimeout = 300
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults. The source
// and target roots default to the conventional relative layout and are
// resolved against the working directory during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			TargetDir: defaultTargetDir,
			LogDir:    defaultLogDir,
		},
		Tools: Tools{
			FFmpegBinary: defaultFFmpegBinary,
			SoxBinary:    defaultSoxBinary,
			MergeTimeout: defaultMergeTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
