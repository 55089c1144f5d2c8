package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	assistant "github.com/aldenmarch/voicecal/core"
	miniaudio "github.com/aldenmarch/voicecal/core/audio/miniaudio"
	portaudio "github.com/aldenmarch/voicecal/core/audio/portaudio"
	"github.com/aldenmarch/voicecal/core/dispatch"
	"github.com/aldenmarch/voicecal/core/resolver"
	"github.com/aldenmarch/voicecal/core/schedule"
	sttdeepgram "github.com/aldenmarch/voicecal/core/speechtotext/deepgram"
	ttsdeepgram "github.com/aldenmarch/voicecal/core/texttospeech/deepgram"
	"github.com/aldenmarch/voicecal/internal/config"
	"github.com/aldenmarch/voicecal/internal/tui"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	configPath := pflag.String("config", defaultConfigPath(), "path to the config file")
	noVoice := pflag.Bool("no-voice", false, "disable microphone capture and speech output")
	exportDir := pflag.String("export-dir", "", "directory for calendar exports (overrides config)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}
	if *noVoice {
		cfg.Voice.CaptureEnabled = false
	}

	store := schedule.NewStore(schedule.WithSeedData())
	bridge := tui.NewBridge()
	dispatcher := dispatch.New(store, dispatch.WithNotifier(bridge.Notifier()))

	options := []assistant.AssistantOption{
		assistant.WithDispatcher(dispatcher),
	}

	if groqKey := os.Getenv("GROQ_API_KEY"); groqKey != "" {
		options = append(options, assistant.WithResolver(resolver.NewGroqResolver(groqKey,
			resolver.WithModel(cfg.Resolver.Model),
			resolver.WithEndpoint(cfg.Resolver.Endpoint),
			resolver.WithTimeout(time.Duration(cfg.Resolver.TimeoutSeconds)*time.Second),
		)))
	} else {
		slog.Warn("GROQ_API_KEY is not set, commands will receive fallback responses")
	}

	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	if deepgramKey == "" {
		slog.Warn("DEEPGRAM_API_KEY is not set, voice is disabled")
	}

	if deepgramKey != "" && cfg.Voice.CaptureEnabled {
		captureClient, err := sttdeepgram.NewTranscriptionClient(deepgramKey)
		if err != nil {
			slog.Error("Failed to create transcription client", "error", err)
			os.Exit(1)
		}

		audioInput, err := miniaudio.NewClient()
		if err != nil {
			slog.Warn("Failed to open capture device, voice input disabled", "error", err)
		} else {
			options = append(options,
				assistant.WithCaptureClient(captureClient),
				assistant.WithAudioInput(audioInput),
			)
		}
	}

	if deepgramKey != "" {
		speechClient, err := ttsdeepgram.NewTextToSpeechClient(deepgramKey)
		if err != nil {
			slog.Error("Failed to create speech client", "error", err)
			os.Exit(1)
		}
		if err := speechClient.SetVoice(ttsdeepgram.Voice(cfg.Voice.Voice)); err != nil {
			slog.Warn("Unknown voice in config, using default", "voice", cfg.Voice.Voice)
		}

		audioOutput, err := portaudio.NewClient(cfg.Voice.PlaybackBufferFrames)
		if err != nil {
			slog.Warn("Failed to open playback device, speech output disabled", "error", err)
		} else {
			options = append(options,
				assistant.WithSpeechClient(speechClient),
				assistant.WithAudioOutput(audioOutput),
			)
		}
	}

	asst := assistant.New(store, options...)
	asst.SetMuted(cfg.Voice.StartMuted)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	asst.Start(ctx, bridge.SessionOptions()...)
	defer asst.Close()

	model := tui.NewModel(store, asst, cfg.ExportDir, bridge)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		slog.Error("Failed to run interface", "error", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "voicecal.yaml"
	}
	return filepath.Join(dir, "voicecal", "config.yaml")
}
