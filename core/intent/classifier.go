package intent

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RemoteTier classifies an utterance against an enumerated label set using a
// remote language service. Implementations may fail; the Classifier treats
// any failure or out-of-set answer as a miss and falls through to the local
// tier.
type RemoteTier interface {
	Classify(ctx context.Context, utterance string, dialogueContext Context) (Label, error)
}

// Classifier resolves utterances through two tiers: the optional remote tier
// first, then the deterministic keyword tier, so classification terminates
// with a member of the active context's label set on every input.
type Classifier struct {
	remote RemoteTier
}

type ClassifierOption func(*Classifier)

// WithRemoteTier wires a remote classification service. Without it the
// classifier is purely local, which is a supported degraded mode rather than
// a misconfiguration.
func WithRemoteTier(remote RemoteTier) ClassifierOption {
	return func(c *Classifier) { c.remote = remote }
}

func NewClassifier(opts ...ClassifierOption) *Classifier {
	classifier := &Classifier{}
	for _, opt := range opts {
		opt(classifier)
	}
	return classifier
}

// Classify returns exactly one label from the context's enumerated set. It
// never returns an error: remote misses are absorbed and the local tier
// always resolves.
func (c *Classifier) Classify(ctx context.Context, utterance string, dialogueContext Context) Label {
	ctx, span := tracer.Start(ctx, "classify utterance")
	defer span.End()
	span.SetAttributes(attribute.String("classification.context", dialogueContext.ID))

	if c.remote != nil {
		label, err := c.remote.Classify(ctx, utterance, dialogueContext)
		switch {
		case err != nil:
			span.AddEvent("remote tier failed", trace.WithAttributes(attribute.String("error", err.Error())))
		case !dialogueContext.Member(label.Name):
			span.AddEvent("remote tier returned out-of-set label", trace.WithAttributes(attribute.String("label", label.Name)))
		default:
			span.SetAttributes(attribute.String("classification.tier", "remote"))
			label.Name = canonicalLabel(label.Name, dialogueContext)
			return label
		}
	}

	span.SetAttributes(attribute.String("classification.tier", "local"))
	return Resolve(utterance, dialogueContext)
}

// canonicalLabel maps a case-insensitive remote answer onto the exact label
// spelling of the context set.
func canonicalLabel(name string, dialogueContext Context) string {
	for _, label := range dialogueContext.Labels {
		if strings.EqualFold(label, name) {
			return label
		}
	}
	return name
}

// ResolveAction maps a command-context label to an action. Read-article
// actions carry the identifier from the label parameter and whether the full
// body was requested.
func ResolveAction(utterance string, label Label) Action {
	kind := ActionKind(label.Name)
	switch kind {
	case ActionGetNews, ActionZoomIn, ActionZoomOut, ActionHighContrast,
		ActionNormalContrast, ActionSimplifyText, ActionStopAudio, ActionGeneral:
		return Action{Kind: kind}
	case ActionReadArticle:
		return Action{
			Kind:        ActionReadArticle,
			Identifier:  label.Parameter,
			FullContent: wantsFullContent(utterance),
		}
	default:
		return Action{Kind: ActionNone}
	}
}
