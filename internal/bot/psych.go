package bot

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/sdnsembar01/aska/internal/models"
	"github.com/sdnsembar01/aska/internal/responses"
)

// Psych flow states.
const (
	psychStateAwaitingConfirmation = "awaiting_confirmation"
	psychStateOngoing              = "ongoing"
)

// psychSummaryChars caps the dashboard preview length.
const psychSummaryChars = 160

// Session end reasons recorded in the report metadata.
const (
	psychEndedDeclined      = "declined_confirmation"
	psychEndedUserStop      = "user_stop"
	psychEndedStageComplete = "stage_complete"
	psychEndedTimeout       = "timeout"
)

var psychSeverityRank = map[string]int{
	responses.PsychGeneral:  0,
	responses.PsychElevated: 1,
	responses.PsychCritical: 2,
}

// handlePsych claims counseling traffic. Nothing is persisted while the
// conversation runs; one aggregated report is written when the session
// ends, whatever the reason.
func (r *Router) handlePsych(ctx context.Context, t *turn) bool {
	if sess := t.session.Psych; sess != nil {
		if t.now.Sub(sess.LastBotAt) > r.sessions.FlowTimeout() {
			r.endPsych(ctx, t, sess, psychEndedTimeout)
			t.session.Psych = nil
			r.reply(ctx, t, responses.PsychTimeoutMessage, false, nil)
			// The current message is then classified as a fresh one.
		} else {
			r.continuePsych(ctx, t, sess)
			return true
		}
	}

	severity := responses.DetectPsychIntent(t.normalized)
	if severity == "" {
		return false
	}
	sess := &PsychSession{
		State:     psychStateAwaitingConfirmation,
		Severity:  severity,
		Messages:  []string{t.raw},
		LastBotAt: t.now,
	}
	if t.chatLogID != 0 {
		sess.ChatLogIDs = append(sess.ChatLogIDs, t.chatLogID)
	}
	t.session.Psych = sess
	r.reply(ctx, t, r.withPsychHotline(responses.PsychConfirmationPrompt(severity), severity), false, nil)
	return true
}

func (r *Router) continuePsych(ctx context.Context, t *turn, sess *PsychSession) {
	switch sess.State {
	case psychStateAwaitingConfirmation:
		switch {
		case responses.IsPsychYes(t.normalized):
			sess.State = psychStateOngoing
			sess.Stage = responses.PsychNextStage("")
			sess.StageHistory = append(sess.StageHistory, sess.Stage)
			sess.LastBotAt = t.now
			opening := responses.PsychValidation(r.rng) + "\n\n" +
				responses.PsychStagePrompt(r.rng, sess.Stage)
			r.reply(ctx, t, r.withPsychHotline(opening, sess.Severity), false, nil)
		case responses.IsPsychNo(t.normalized):
			r.endPsych(ctx, t, sess, psychEndedDeclined)
			t.session.Psych = nil
			r.reply(ctx, t, responses.PsychDeclineText, false, nil)
		default:
			sess.LastBotAt = t.now
			r.reply(ctx, t, responses.PsychConfirmReminderText, false, nil)
		}

	default: // ongoing
		if responses.IsPsychStop(t.normalized) {
			r.endPsych(ctx, t, sess, psychEndedUserStop)
			t.session.Psych = nil
			r.reply(ctx, t, responses.PsychClosing(r.rng), false, nil)
			return
		}

		sess.Messages = append(sess.Messages, t.raw)
		if t.chatLogID != 0 {
			sess.ChatLogIDs = append(sess.ChatLogIDs, t.chatLogID)
		}
		if escalated := responses.ClassifyPsychSeverity(t.normalized, sess.Severity); psychSeverityRank[escalated] > psychSeverityRank[sess.Severity] {
			sess.Severity = escalated
			sess.SeverityHistory = append(sess.SeverityHistory, escalated)
		}

		nextStage := responses.PsychNextStage(sess.Stage)
		reply := r.psychTurnReply(ctx, t, sess, nextStage)

		if nextStage == "" {
			r.endPsych(ctx, t, sess, psychEndedStageComplete)
			t.session.Psych = nil
		} else {
			sess.Stage = nextStage
			sess.StageHistory = append(sess.StageHistory, nextStage)
			sess.LastBotAt = t.now
		}
		r.reply(ctx, t, reply, false, nil)
	}
}

// psychTurnReply builds the counseling reply for one ongoing turn,
// preferring the generated reply and falling back to the templates.
func (r *Router) psychTurnReply(ctx context.Context, t *turn, sess *PsychSession, nextStage string) string {
	var reply string
	if r.psychAI != nil {
		generated, err := r.psychAI.PsychReply(
			ctx, sess.Messages, sess.Stage, nextStage, sess.Severity, len(sess.Messages))
		if err != nil {
			log.Printf("bot: psych reply generation: %v", err)
		} else {
			reply = generated
		}
	}
	if reply == "" {
		closer := responses.PsychClosing(r.rng)
		if nextStage != "" {
			closer = responses.PsychStagePrompt(r.rng, nextStage)
		}
		reply = responses.PsychValidation(r.rng) + " " +
			responses.PsychSupportMessage(r.rng, t.normalized, sess.Stage, sess.Severity) +
			"\n\n" + closer
	}
	return r.withPsychHotline(reply, sess.Severity)
}

// withPsychHotline appends the emergency-contact line to every reply of
// a critical-severity session.
func (r *Router) withPsychHotline(reply, severity string) string {
	if severity != responses.PsychCritical {
		return reply
	}
	return reply + "\n\n" + responses.PsychCriticalReply(r.rng)
}

// endPsych writes the aggregated counseling report. The transcript is
// every user utterance of the session joined by blank lines.
func (r *Router) endPsych(ctx context.Context, t *turn, sess *PsychSession, endedBy string) {
	message := strings.Join(sess.Messages, "\n\n")
	if message == "" {
		return
	}
	metadata, err := json.Marshal(map[string]any{
		"ended_by":         endedBy,
		"stages":           sess.StageHistory,
		"severity_history": sess.SeverityHistory,
		"message_count":    len(sess.Messages),
	})
	if err != nil {
		log.Printf("bot: psych metadata: %v", err)
		metadata = []byte("{}")
	}
	report := &models.PsychReport{
		UserID:   t.msg.UserID,
		Username: t.msg.UserName,
		Message:  message,
		Summary:  responses.SummarizeForDashboard(message, psychSummaryChars),
		Severity: sess.Severity,
		Status:   "open",
		Metadata: string(metadata),
	}
	if len(sess.ChatLogIDs) > 0 {
		id := sess.ChatLogIDs[0]
		report.ChatLogID = &id
	}
	if err := r.store.CreatePsychReport(ctx, report); err != nil {
		log.Printf("bot: psych report: %v", err)
	}
}
