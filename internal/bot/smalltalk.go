package bot

import (
	"context"

	"github.com/sdnsembar01/aska/internal/responses"
)

// handleSmalltalk claims conversational filler with canned replies so it
// never reaches the knowledge base. Inappropriate content is checked
// first so profanity dressed up as a greeting still gets the redirect.
func (r *Router) handleSmalltalk(ctx context.Context, t *turn) bool {
	text := t.normalized
	switch {
	case responses.ContainsInappropriate(text):
		r.reply(ctx, t, responses.AdviceReply(r.rng), false, nil)
	case responses.IsRelationshipQuestion(text):
		r.reply(ctx, t, responses.RelationshipAdviceReply(r.rng), false, nil)
	case responses.IsGreeting(text):
		r.reply(ctx, t, responses.GreetingReply(r.rng, text, t.now), true, nil)
	case responses.IsThankYou(text):
		r.reply(ctx, t, responses.ThankYouReply(r.rng), true, nil)
	case responses.IsAcknowledgement(text):
		r.reply(ctx, t, responses.AcknowledgementReply(r.rng), false, nil)
	case responses.IsFarewell(text):
		r.reply(ctx, t, responses.FarewellReply(r.rng), false, nil)
	case responses.IsSelfIntroQuestion(text):
		r.reply(ctx, t, responses.SelfIntroReply(r.rng), false, nil)
	case responses.IsStatusQuestion(text):
		r.reply(ctx, t, responses.StatusReply(r.rng), false, nil)
	default:
		return false
	}
	return true
}
