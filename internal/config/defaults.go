package config

const (
	defaultStateDir      = "~/.local/share/cuekit"
	defaultFormat        = "flac"
	defaultPolicy        = "append"
	defaultPrefix        = "track"
	defaultCharset       = "auto"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultSettleSeconds = 10
)

var defaultEncoderOptions = map[string]string{
	"flac": "",
	"ogg":  "-q 4",
	"opus": "",
	"mp3":  "--noreplaygain --lowpass -1 -V 0",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Split: Split{
			Format: defaultFormat,
			Policy: defaultPolicy,
			Prefix: defaultPrefix,
		},
		Cuesheet: Cuesheet{
			Charset: defaultCharset,
		},
		Tools: Tools{
			Shnsplit: "shnsplit",
			Shnlen:   "shnlen",
			Shnhash:  "shnhash",
			FFmpeg:   "ffmpeg",
			FFprobe:  "ffprobe",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Watch: Watch{
			SettleSeconds: defaultSettleSeconds,
		},
	}
}
