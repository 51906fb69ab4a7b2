package config

const (
	defaultWorkDir            = "."
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultSampleRate         = 16000
	defaultChannels           = 1
	defaultTranscriberEngine  = EngineWhisper
	defaultWhisperModel       = "base"
	defaultWhisperBinary      = "whisper"
	defaultRemoteModel        = "whisper-1"
	defaultOpenAIBaseURL      = "https://api.openai.com/v1"
	defaultSummarizerModel    = "mistral"
	defaultOllamaBaseURL      = "http://127.0.0.1:11434"
	defaultOllamaPort         = "11434"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultPipelineCleanupOn  = true
	defaultTimeoutSecondsNone = 0
)

// Transcription engine identifiers.
const (
	EngineWhisper = "whisper"
	EngineOpenAI  = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			SampleRate:    defaultSampleRate,
			Channels:      defaultChannels,
		},
		Transcriber: Transcriber{
			Engine:         defaultTranscriberEngine,
			Model:          defaultWhisperModel,
			RemoteModel:    defaultRemoteModel,
			Binary:         defaultWhisperBinary,
			BaseURL:        defaultOpenAIBaseURL,
			TimeoutSeconds: defaultTimeoutSecondsNone,
		},
		Summarizer: Summarizer{
			Model:          defaultSummarizerModel,
			BaseURL:        defaultOllamaBaseURL,
			TimeoutSeconds: defaultTimeoutSecondsNone,
		},
		Pipeline: Pipeline{
			Cleanup: defaultPipelineCleanupOn,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
