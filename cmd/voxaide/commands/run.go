package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	dialogue "github.com/voxaide/voxaide-core/core"
	"github.com/voxaide/voxaide-core/core/audio"
	"github.com/voxaide/voxaide-core/core/audio/miniaudio"
	"github.com/voxaide/voxaide-core/core/capture"
	capturedeepgram "github.com/voxaide/voxaide-core/core/capture/deepgram"
	"github.com/voxaide/voxaide-core/core/events"
	"github.com/voxaide/voxaide-core/core/intent"
	"github.com/voxaide/voxaide-core/core/intent/httpclassifier"
	"github.com/voxaide/voxaide-core/core/news"
	"github.com/voxaide/voxaide-core/core/profile"
	"github.com/voxaide/voxaide-core/core/simplify"
	"github.com/voxaide/voxaide-core/core/synthesis"
	speakdeepgram "github.com/voxaide/voxaide-core/core/synthesis/deepgram"
)

type sessionKind int

const (
	sessionSetup sessionKind = iota
	sessionNews
)

var flagVoice bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the guided accessibility setup",
	Long: `Walk through the guided configuration sequence: color adjustment,
contrast, text size, simplification, and a free-form reading note. Answers
are persisted to the profile after every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context(), sessionSetup)
	},
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Run an open-ended news session",
	Long: `Start the command loop: ask for headlines, have articles read out,
adjust text size and contrast, or stop playback, all by voice or text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context(), sessionNews)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{setupCmd, newsCmd} {
		cmd.Flags().BoolVar(&flagVoice, "voice", false, "listen on the microphone instead of the keyboard")
	}
}

func runSession(ctx context.Context, kind sessionKind) error {
	if configErr != nil {
		return configErr
	}
	if !flagVoice {
		return runTUI(ctx, kind)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mic, err := capturedeepgram.NewClient(globalConfig.Deepgram.APIKey, miniaudio.NewSource())
	if err != nil {
		return fmt.Errorf("voice mode needs a microphone pipeline: %w", err)
	}

	player, err := miniaudio.NewClient()
	if err != nil {
		return fmt.Errorf("opening the playback device: %w", err)
	}
	defer player.Close()

	orchestrator, err := buildOrchestrator(globalConfig, mic, player, func(event events.Event) {
		if applied, ok := event.(events.ActionApplied); ok && applied.Feedback != "" {
			fmt.Println(applied.Feedback)
		}
	})
	if err != nil {
		return err
	}

	if kind == sessionSetup {
		return orchestrator.RunSetup(ctx)
	}
	err = orchestrator.RunCommands(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// buildOrchestrator assembles the dialogue engine from whatever services the
// config provides. Anything missing is left nil and the engine degrades to
// its textual fallbacks.
func buildOrchestrator(cfg *Config, mic capture.Client, player audio.Player, onEvent func(events.Event)) (*dialogue.Orchestrator, error) {
	opts := []dialogue.OrchestratorOption{
		dialogue.WithCaptureClient(mic),
		dialogue.WithEventCallback(onEvent),
	}
	if player != nil {
		opts = append(opts, dialogue.WithPlaybackDevice(player))
	}

	if cfg.Deepgram.APIKey != "" {
		var speakOpts []speakdeepgram.ClientOption
		if cfg.Deepgram.Voice != "" {
			speakOpts = append(speakOpts, speakdeepgram.WithVoice(speakdeepgram.Voice(cfg.Deepgram.Voice)))
		}
		speaker, err := speakdeepgram.NewClient(cfg.Deepgram.APIKey, speakOpts...)
		if err != nil {
			return nil, fmt.Errorf("building the synthesis client: %w", err)
		}
		opts = append(opts, dialogue.WithSynthesisGateway(synthesis.NewGateway(speaker)))
	}

	if cfg.Classifier.Endpoint != "" {
		remote, err := httpclassifier.NewClient(cfg.Classifier.Endpoint, cfg.Classifier.APIKey)
		if err != nil {
			return nil, fmt.Errorf("building the classifier client: %w", err)
		}
		opts = append(opts, dialogue.WithClassifier(intent.NewClassifier(intent.WithRemoteTier(remote))))
	}

	if cfg.News.APIKey != "" {
		var newsOpts []news.ClientOption
		if cfg.News.Country != "" {
			newsOpts = append(newsOpts, news.WithCountry(cfg.News.Country))
		}
		opts = append(opts, dialogue.WithNewsProvider(news.NewClient(cfg.News.APIKey, newsOpts...)))
	}

	if cfg.Simplifier.Endpoint != "" {
		opts = append(opts, dialogue.WithSimplifier(simplify.NewClient(cfg.Simplifier.Endpoint, cfg.Simplifier.APIKey)))
	}

	profilePath := cfg.ProfilePath
	if profilePath == "" {
		profilePath = defaultProfilePath()
	}
	opts = append(opts, dialogue.WithProfileStore(profile.NewFileStore(profilePath)))

	return dialogue.NewOrchestrator(opts...), nil
}
