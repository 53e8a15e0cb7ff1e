package config

const (
	defaultConfigPath = "~/.config/vorleser/config.toml"

	defaultWavDir      = "wav"
	defaultChaptersDir = "chapters"
	defaultCheckDir    = "audio-check"
	defaultTxtDir      = "txt"

	defaultTranscriberCommand = "hear"
	defaultTranscriberLocale  = "de-DE"
	defaultTranscriberWorkers = 20

	defaultAnalysisNTThreshold   = 0.10
	defaultAnalysisOTThreshold   = 0.15
	defaultDeficientChunkPercent = 50

	defaultPurgeNTThreshold = 0.036
	defaultPurgeOTThreshold = 0.057

	defaultMinWordsPerBlock = 50

	defaultInputTextPerMillionTokens   = 0.50
	defaultOutputAudioPerMillionTokens = 12.00
	defaultTokensPerSecondOfAudio      = 32
	defaultCharsPerInputToken          = 4.0
	defaultFFprobeCommand              = "ffprobe"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// The stock partitions follow the German Einheitsübersetzung abbreviations.
var (
	defaultNewTestamentBooks = []string{
		"Mt", "Mk", "Lk", "Joh", "Apg", "Roem", "1Kor", "2Kor", "Gal", "Eph",
		"Phil", "Kol", "1Thess", "2Thess", "1Tim", "2Tim", "Tit", "Phlm",
		"Hebr", "Jak", "1Petr", "2Petr", "1Joh", "2Joh", "3Joh", "Jud", "Offb",
	}
	defaultOldTestamentBooks = []string{
		"Gen", "Ex", "Lev", "Num", "Dtn", "Jos", "Ri", "Rut", "1Sam", "2Sam",
		"1Koen", "2Koen", "1Chr", "2Chr", "Esra", "Neh", "Tob", "Jdt", "Est",
		"1Makk", "2Makk", "Ijob", "Ps", "Spr", "Koh", "Hld", "Weish", "Sir",
		"Jes", "Jer", "Klgl", "Bar", "Ez", "Dan", "Hos", "Joel", "Am", "Obd",
		"Jona", "Mi", "Nah", "Hab", "Zef", "Hag", "Sach", "Mal",
	}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WavDir:      defaultWavDir,
			ChaptersDir: defaultChaptersDir,
			CheckDir:    defaultCheckDir,
			TxtDir:      defaultTxtDir,
		},
		Transcriber: Transcriber{
			Command: defaultTranscriberCommand,
			Locale:  defaultTranscriberLocale,
			Workers: defaultTranscriberWorkers,
		},
		Books: Books{
			NewTestament: append([]string(nil), defaultNewTestamentBooks...),
			OldTestament: append([]string(nil), defaultOldTestamentBooks...),
		},
		Analysis: Analysis{
			NTThreshold:           defaultAnalysisNTThreshold,
			OTThreshold:           defaultAnalysisOTThreshold,
			DeficientChunkPercent: defaultDeficientChunkPercent,
		},
		Purge: Purge{
			NTThreshold: defaultPurgeNTThreshold,
			OTThreshold: defaultPurgeOTThreshold,
		},
		Split: Split{
			MinWordsPerBlock: defaultMinWordsPerBlock,
		},
		Cost: Cost{
			InputTextPerMillionTokens:   defaultInputTextPerMillionTokens,
			OutputAudioPerMillionTokens: defaultOutputAudioPerMillionTokens,
			TokensPerSecondOfAudio:      defaultTokensPerSecondOfAudio,
			CharsPerInputToken:          defaultCharsPerInputToken,
			FFprobeCommand:              defaultFFprobeCommand,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
