package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/voxaide/voxaide-core/core/audio"
	"github.com/voxaide/voxaide-core/core/capture"
	"github.com/voxaide/voxaide-core/core/events"
	"github.com/voxaide/voxaide-core/core/intent"
	"github.com/voxaide/voxaide-core/core/news"
	"github.com/voxaide/voxaide-core/core/profile"
	"github.com/voxaide/voxaide-core/core/resilience"
	"github.com/voxaide/voxaide-core/core/synthesis"
)

// Orchestrator drives the turn cycle: voice a prompt, capture one reply,
// interpret it, apply the resulting action, and voice the feedback. A single
// turn is in flight at any time; results from a superseded turn are
// discarded by token.
type Orchestrator struct {
	mu        sync.Mutex
	session   Session
	turnToken string
	// newsHalted is set on an essential news misconfiguration. It halts
	// only news fetches; every other command keeps working.
	newsHalted bool

	steps          []ConfigurationStep
	gateway        *synthesis.Gateway
	capture        capture.Client
	classifier     *intent.Classifier
	news           NewsProvider
	simplifier     Simplifier
	store          profile.Store
	playbackDevice audio.Player
	playback       *audio.Channel
	onEvent        func(events.Event)
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	orchestrator := &Orchestrator{
		steps:      SetupSteps(),
		classifier: intent.NewClassifier(),
		store:      profile.NewMemoryStore(),
		onEvent:    func(events.Event) {},
		turnToken:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(orchestrator)
	}
	if orchestrator.gateway == nil {
		orchestrator.gateway = synthesis.NewGateway(nil)
	}
	orchestrator.playback = audio.NewChannel(orchestrator.playbackDevice, audio.WithStoppedCallback(func() {
		orchestrator.mu.Lock()
		orchestrator.session.Speaking = false
		orchestrator.mu.Unlock()
		orchestrator.onEvent(events.NewPlaybackStopped())
	}))
	return orchestrator
}

// Session returns a snapshot of the current dialogue state.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Stop cancels the in-flight turn and any playback. It is synchronous: when
// it returns, playback has stopped and any pending capture result will be
// discarded as stale.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.turnToken = uuid.NewString()
	o.session.TurnState = TurnStateIdle
	o.session.Speaking = false
	o.mu.Unlock()

	if o.capture != nil {
		o.capture.Stop()
	}
	o.playback.Stop()
	o.emit(events.NewSessionStopped())
}

// RunSetup walks the guided configuration sequence from the first step to
// completion. Each step is one full turn; the profile is persisted after
// every answer that changes it and once more on completion.
func (o *Orchestrator) RunSetup(ctx context.Context) error {
	if o.capture == nil {
		return &ValidationError{Field: "capture client", Reason: "required to run a session"}
	}
	ctx, span := tracer.Start(ctx, "setup session")
	defer span.End()

	if err := o.restart(ctx); err != nil {
		return err
	}

	for index, step := range o.steps {
		o.mu.Lock()
		o.session.StepIndex = index
		o.mu.Unlock()

		transcript, ok := o.runTurn(ctx, step.PromptText)
		if !ok {
			return ctx.Err()
		}

		o.setState(TurnStateProcessing)
		label := o.classifier.Classify(ctx, transcript, step.Context())

		o.setState(TurnStateApplying)
		next, feedback, effects := ApplyStepAnswer(o.Session(), step, label)
		o.commit(next, feedback)
		feedback, err := o.runEffects(ctx, effects, feedback)
		if err != nil {
			return err
		}
		o.setFeedback(feedback)

		o.emit(events.NewActionApplied(step.ID, feedback))
		o.emit(events.NewTurnAdvanced(index + 1))
		o.speak(ctx, feedback)
	}

	if err := o.persistProfile(ctx); err != nil {
		return err
	}
	o.setState(TurnStateCompleted)
	o.emit(events.NewSessionCompleted())
	o.speak(ctx, "Setup is complete.")
	return nil
}

// RunCommands runs the open-ended command loop until the context ends. Every
// iteration is one turn; feedback from the previous action becomes the next
// spoken prompt.
func (o *Orchestrator) RunCommands(ctx context.Context) error {
	if o.capture == nil {
		return &ValidationError{Field: "capture client", Reason: "required to run a session"}
	}
	ctx, span := tracer.Start(ctx, "command session")
	defer span.End()

	if err := o.restart(ctx); err != nil {
		return err
	}

	prompt := "What would you like to do?"
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		transcript, ok := o.runTurn(ctx, prompt)
		if !ok {
			return ctx.Err()
		}

		o.setState(TurnStateProcessing)
		session := o.Session()
		label := o.classifier.Classify(ctx, transcript, intent.CommandContext(news.Titles(session.Articles)))
		action := intent.ResolveAction(transcript, label)

		o.setState(TurnStateApplying)
		next, feedback, effects := Apply(session, action)
		o.commit(next, feedback)
		feedback, err := o.runEffects(ctx, effects, feedback)
		if err != nil {
			return err
		}
		o.setFeedback(feedback)

		o.emit(events.NewActionApplied(string(action.Kind), feedback))
		o.setState(TurnStateIdle)
		prompt = feedback
		if prompt == "" {
			prompt = "What would you like to do?"
		}
		// While an article plays, the next turn listens silently so the
		// prompt does not displace the playback.
		if o.Session().Speaking {
			prompt = ""
		}
	}
}

// restart begins a fresh session: the synthesis gateway recovers its sticky
// availability and the profile is reloaded from the store.
func (o *Orchestrator) restart(ctx context.Context) error {
	o.gateway.Reset()
	snapshot, err := o.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	o.mu.Lock()
	o.newsHalted = false
	o.session = Session{
		ID:           uuid.NewString(),
		Profile:      SettingsFromSnapshot(snapshot),
		TurnState:    TurnStateIdle,
		TTSAvailable: o.gateway.Available(),
	}
	o.mu.Unlock()
	return nil
}

// runTurn voices a prompt, then listens until it has a transcript. Capture
// failures voice guidance and listen again; the turn never advances on a
// failed capture. Returns false when the turn was superseded or the context
// ended.
func (o *Orchestrator) runTurn(ctx context.Context, prompt string) (string, bool) {
	token := o.rotateToken()

	o.setState(TurnStateAwaitingSynthesis)
	o.speak(ctx, prompt)

	for {
		if ctx.Err() != nil {
			return "", false
		}
		o.setState(TurnStateListening)
		o.emit(events.NewListening(token))

		result := o.capture.Listen(ctx)
		if o.isStale(token) || ctx.Err() != nil {
			return "", false
		}
		if result.Failed() {
			guidance := captureGuidance(result.Code)
			o.setFeedback(guidance)
			o.emit(events.NewCaptureFailed(string(result.Code), guidance))
			o.speak(ctx, guidance)
			continue
		}

		o.emit(events.NewTranscription(result.Transcript))
		return result.Transcript, true
	}
}

func captureGuidance(code capture.Code) string {
	switch code {
	case capture.CodeNoSpeech:
		return "I didn't hear anything. Please try again."
	case capture.CodePermissionDenied:
		return "I don't have microphone access. Please allow it and try again."
	case capture.CodeNetwork:
		return "I'm having trouble reaching the speech service. Please try again."
	default:
		return "Something went wrong while listening. Please try again."
	}
}

// speak voices text through the gateway and the playback channel. It always
// returns: a synthesis fallback leaves the text on the session feedback
// surface and the turn proceeds.
func (o *Orchestrator) speak(ctx context.Context, text string) {
	if text == "" {
		return
	}
	o.emit(events.NewSynthesisStarted(text))

	result := o.gateway.Speak(ctx, text)
	if !result.Ok() {
		o.mu.Lock()
		o.session.TTSAvailable = false
		o.mu.Unlock()
		o.emit(events.NewSynthesisEnded(true, result.FallbackReason()))
		return
	}

	if err := o.playback.Play(result.Value().Audio); err != nil {
		logger.ErrorContext(ctx, "Failed to play synthesized audio", "error", err)
	}
	o.emit(events.NewSynthesisEnded(false, ""))
}

// runEffects interprets the executor's side-effect requests. It may refine
// the feedback (headline summaries, degraded article text) and returns a
// hard error only for essential misconfiguration or a failed profile load.
func (o *Orchestrator) runEffects(ctx context.Context, effects []Effect, feedback string) (string, error) {
	for _, effect := range effects {
		switch effect.Kind {
		case EffectPersistProfile:
			if err := o.persistProfile(ctx); err != nil {
				return feedback, err
			}

		case EffectFetchNews:
			feedback = o.fetchNews(ctx)

		case EffectPlayArticle:
			feedback = o.playArticle(ctx, effect, feedback)

		case EffectStopPlayback:
			o.playback.Stop()

		case EffectRespondGeneral:
			if feedback == "" {
				feedback = "I can read you the news, change text size, or adjust contrast."
			}
		}
	}
	return feedback, nil
}

func (o *Orchestrator) persistProfile(ctx context.Context) error {
	snapshot := o.Session().Profile.Snapshot()
	if err := o.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// fetchNews resolves a news request to feedback text. An essential
// misconfiguration is surfaced once and halts further fetches for the
// session; the rest of the dialogue keeps running.
func (o *Orchestrator) fetchNews(ctx context.Context) string {
	if o.news == nil {
		return "News isn't available on this device."
	}
	o.mu.Lock()
	halted := o.newsHalted
	o.mu.Unlock()
	if halted {
		return "News isn't configured on this device."
	}

	result, err := o.news.TopHeadlines(ctx)
	if err != nil {
		var configErr *resilience.ConfigurationError
		if errors.As(err, &configErr) {
			o.mu.Lock()
			o.newsHalted = true
			o.mu.Unlock()
			logger.ErrorContext(ctx, "News halted for this session", "error", err)
			return "News isn't configured on this device."
		}
		logger.ErrorContext(ctx, "News fetch failed", "error", err)
		return "I couldn't fetch the news right now. Please try again later."
	}
	if !result.Ok() {
		logger.WarnContext(ctx, "News fetch degraded", "reason", result.FallbackReason())
		return "I couldn't fetch the news right now. Please try again later."
	}

	articles := result.Value()
	o.mu.Lock()
	o.session.Articles = articles
	o.mu.Unlock()

	if len(articles) == 0 {
		return "There are no headlines right now."
	}
	return summarizeHeadlines(articles)
}

func summarizeHeadlines(articles []news.Article) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Here are the top %d headlines.", len(articles))
	for i, article := range articles {
		fmt.Fprintf(&builder, " %d: %s.", i+1, article.Title)
	}
	return builder.String()
}

// playArticle voices an article body. When synthesis has degraded, the body
// itself becomes the feedback so the article still reaches the user as text.
func (o *Orchestrator) playArticle(ctx context.Context, effect Effect, feedback string) string {
	session := o.Session()
	if effect.ArticleIndex < 0 || effect.ArticleIndex >= len(session.Articles) {
		return feedback
	}
	article := session.Articles[effect.ArticleIndex]

	text := article.Description
	if effect.FullContent && article.FullContent != "" {
		text = article.FullContent
	}
	if text == "" {
		text = article.Title
	}
	if session.Profile.Simplify && o.simplifier != nil {
		text = o.simplifier.Simplify(ctx, text)
	}

	// The lead-in and the body go through one synthesis call so the spoken
	// announcement is not displaced by the article audio.
	spoken := text
	if feedback != "" {
		spoken = feedback + " " + text
	}

	o.emit(events.NewSynthesisStarted(spoken))
	result := o.gateway.Speak(ctx, spoken)
	if !result.Ok() {
		o.mu.Lock()
		o.session.TTSAvailable = false
		o.session.Speaking = false
		o.mu.Unlock()
		o.emit(events.NewSynthesisEnded(true, result.FallbackReason()))
		return text
	}

	if err := o.playback.Play(result.Value().Audio); err != nil {
		logger.ErrorContext(ctx, "Failed to play article audio", "error", err)
	}
	// The channel resolves completion through the player's drain signal;
	// on a deviceless channel the playback has already resolved here.
	o.mu.Lock()
	o.session.Speaking = o.playback.IsPlaying()
	o.mu.Unlock()
	o.emit(events.NewSynthesisEnded(false, ""))
	return feedback
}

func (o *Orchestrator) commit(session Session, feedback string) {
	o.mu.Lock()
	session.Feedback = feedback
	o.session = session
	o.mu.Unlock()
}

func (o *Orchestrator) setState(state TurnState) {
	o.mu.Lock()
	o.session.TurnState = state
	o.mu.Unlock()
}

func (o *Orchestrator) setFeedback(feedback string) {
	o.mu.Lock()
	o.session.Feedback = feedback
	o.mu.Unlock()
}

func (o *Orchestrator) rotateToken() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.turnToken = uuid.NewString()
	return o.turnToken
}

func (o *Orchestrator) isStale(token string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.turnToken != token
}

func (o *Orchestrator) emit(event events.Event) {
	o.onEvent(event)
}
