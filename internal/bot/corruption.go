package bot

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sdnsembar01/aska/internal/models"
	"github.com/sdnsembar01/aska/internal/responses"
)

// Corruption flow states.
const (
	corruptionStateReporting  = "reporting"
	corruptionStateConfirming = "confirming"
	corruptionStateEditing    = "editing_selection"
)

// corruptionEditAliases maps the user-facing field names from the edit
// menu back onto question indexes; bare numbers are handled separately.
var corruptionEditAliases = map[string]int{
	"involved": 0, "terlibat": 0, "pelaku": 0,
	"location": 1, "lokasi": 1, "tempat": 1,
	"time": 2, "waktu": 2,
	"chronology": 3, "kronologi": 3,
}

// handleCorruption claims corruption traffic: an active report session
// always wins, then how-to questions, then a bare topic mention, then a
// fresh report intent.
func (r *Router) handleCorruption(ctx context.Context, t *turn) bool {
	if t.session.Corruption != nil {
		r.continueCorruption(ctx, t)
		return true
	}
	switch {
	case responses.IsCorruptionHowtoRequest(t.normalized):
		r.reply(ctx, t, responses.CorruptionHowtoResponse(r.publicBaseURL), false, nil)
	case responses.IsCorruptionReportIntent(t.normalized):
		t.session.Corruption = &CorruptionSession{
			State: corruptionStateReporting,
			Data:  make(map[string]string),
		}
		r.reply(ctx, t, responses.CorruptionQuestion(r.rng, 0), false, nil)
	case responses.MentionsCorruptionOnly(t.normalized):
		r.reply(ctx, t, responses.CorruptionMentionCTAText, false, nil)
	default:
		return false
	}
	return true
}

// continueCorruption advances the guided report. Cancel works from any
// state and wipes everything collected so far.
func (r *Router) continueCorruption(ctx context.Context, t *turn) {
	sess := t.session.Corruption

	if responses.IsCorruptionCancel(t.normalized) {
		t.session.Corruption = nil
		r.reply(ctx, t, responses.CorruptionCancelText, false, nil)
		return
	}

	switch sess.State {
	case corruptionStateConfirming:
		switch t.normalized {
		case "benar":
			r.finalizeCorruption(ctx, t, sess)
		case "edit":
			sess.State = corruptionStateEditing
			r.reply(ctx, t, responses.CorruptionEditPromptText, false, nil)
		default:
			r.reply(ctx, t, responses.CorruptionConfirmHelpText, false, nil)
		}

	case corruptionStateEditing:
		index, ok := parseCorruptionEditChoice(t.normalized)
		if !ok {
			r.reply(ctx, t, responses.CorruptionEditInvalidText, false, nil)
			return
		}
		sess.State = corruptionStateReporting
		sess.QuestionIndex = index
		sess.IsEditing = true
		r.reply(ctx, t, responses.CorruptionEditIntro(r.rng, index), false, nil)

	default: // reporting
		sess.Data[responses.CorruptionFieldKeys[sess.QuestionIndex]] = t.raw
		if sess.IsEditing {
			sess.IsEditing = false
			sess.State = corruptionStateConfirming
			r.reply(ctx, t, r.corruptionSummary(sess), false, nil)
			return
		}
		sess.QuestionIndex++
		if sess.QuestionIndex >= len(responses.CorruptionFieldKeys) {
			sess.State = corruptionStateConfirming
			r.reply(ctx, t, r.corruptionSummary(sess), false, nil)
			return
		}
		r.reply(ctx, t, responses.CorruptionQuestion(r.rng, sess.QuestionIndex), false, nil)
	}
}

// finalizeCorruption writes the ticket row. On a storage error the
// session stays in the confirming state so 'benar' can be retried.
func (r *Router) finalizeCorruption(ctx context.Context, t *turn, sess *CorruptionSession) {
	ticketID := strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
	report := &models.CorruptionReport{
		TicketID:   ticketID,
		UserID:     t.msg.UserID,
		Status:     "open",
		Involved:   sess.Data["involved"],
		Location:   sess.Data["location"],
		Time:       sess.Data["time"],
		Chronology: sess.Data["chronology"],
	}
	if err := r.store.CreateCorruptionReport(ctx, report); err != nil {
		log.Printf("bot: corruption report: %v", err)
		r.reply(ctx, t, responses.CorruptionDBFailureText, false, nil)
		return
	}
	t.session.Corruption = nil
	link := responses.CorruptionStatusLink(r.publicBaseURL, ticketID)
	r.reply(ctx, t, responses.CorruptionSuccess(ticketID, link), true, nil)
}

func (r *Router) corruptionSummary(sess *CorruptionSession) string {
	field := func(key string) string {
		if value := sess.Data[key]; value != "" {
			return value
		}
		return "N/A"
	}
	return responses.CorruptionConfirmation(
		field("involved"), field("location"), field("time"), field("chronology"))
}

func parseCorruptionEditChoice(text string) (int, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(responses.CorruptionFieldKeys) {
			return n - 1, true
		}
		return 0, false
	}
	index, ok := corruptionEditAliases[text]
	return index, ok
}
