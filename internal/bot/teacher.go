package bot

import (
	"context"
	"log"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/responses"
)

// maxTeacherTurns caps the stored discussion history of one practice
// session; the oldest turns fall off first.
const maxTeacherTurns = 20

// handleTeacher claims practice-mode traffic. With an active session
// every message belongs to the flow: skip requests, discussion questions,
// and answers in that order. Without one, only the start keywords open it.
func (r *Router) handleTeacher(ctx context.Context, t *turn) bool {
	sess := t.session.Teacher

	if sess != nil && t.now.Sub(sess.LastBotAt) > r.sessions.FlowTimeout() {
		t.session.Teacher = nil
		r.reply(ctx, t, responses.TeacherTimeoutMessage, false, nil)
		return true
	}

	if responses.IsTeacherStop(t.normalized) {
		if sess == nil {
			return false
		}
		t.session.Teacher = nil
		r.reply(ctx, t, responses.TeacherFarewellText, false, nil)
		return true
	}

	if responses.IsTeacherStart(t.normalized) {
		sess = &TeacherSession{
			GradeHint:   responses.ExtractGradeHint(t.normalized),
			SubjectHint: responses.ExtractSubjectHint(t.normalized),
			Attempt:     1,
			LastBotAt:   t.now,
		}
		sess.Question = r.pickQuestion(ctx, sess.GradeHint, sess.SubjectHint)
		t.session.Teacher = sess
		r.reply(ctx, t, responses.FormatQuestionIntro(sess.Question, 1), false, nil)
		return true
	}

	if responses.IsTeacherNext(t.normalized) {
		if sess == nil {
			r.reply(ctx, t, responses.TeacherNoSessionText, false, nil)
			return true
		}
		if grade := responses.ExtractGradeHint(t.normalized); grade != 0 {
			sess.GradeHint = grade
		}
		if subject := responses.ExtractSubjectHint(t.normalized); subject != "" {
			sess.SubjectHint = subject
		}
		sess.Question = r.pickQuestion(ctx, sess.GradeHint, sess.SubjectHint)
		sess.Attempt = 1
		sess.Conversation = nil
		sess.LastBotAt = t.now
		r.reply(ctx, t, responses.FormatQuestionIntro(sess.Question, 1), false, nil)
		return true
	}

	if sess == nil {
		return false
	}

	if responses.IsTeacherDiscussion(t.raw) {
		r.teacherDiscussion(ctx, t, sess)
		return true
	}

	r.gradeAnswer(ctx, t, sess)
	return true
}

// pickQuestion asks the generator for a fresh question and falls back to
// the static bank.
func (r *Router) pickQuestion(ctx context.Context, gradeHint int, subjectHint string) responses.PracticeQuestion {
	if r.teachAI != nil {
		q, err := r.teachAI.GenerateQuestion(ctx, gradeHint, subjectHint, "")
		if err != nil {
			log.Printf("bot: question generation: %v", err)
		} else {
			return q
		}
	}
	return responses.PickStaticQuestion(r.rng, gradeHint, subjectHint)
}

func (r *Router) teacherDiscussion(ctx context.Context, t *turn, sess *TeacherSession) {
	var reply string
	if r.teachAI != nil {
		generated, err := r.teachAI.DiscussionReply(ctx, sess.Question, sess.Conversation, t.raw)
		if err != nil {
			log.Printf("bot: discussion reply: %v", err)
		} else {
			reply = generated
		}
	}
	if reply == "" {
		reply = responses.TeacherDiscussionFallback(sess.Question)
	}

	sess.Conversation = append(sess.Conversation,
		ai.Turn{Role: ai.RoleUser, Content: t.raw},
		ai.Turn{Role: ai.RoleAssistant, Content: reply},
	)
	if len(sess.Conversation) > maxTeacherTurns {
		sess.Conversation = sess.Conversation[len(sess.Conversation)-maxTeacherTurns:]
	}
	sess.LastBotAt = t.now
	r.reply(ctx, t, reply, false, nil)
}

// gradeAnswer evaluates the student's answer. A correct answer rolls
// straight into the next question; a wrong one re-shows the same question
// with the attempt counter bumped.
func (r *Router) gradeAnswer(ctx context.Context, t *turn, sess *TeacherSession) {
	var (
		correct  bool
		feedback string
	)
	if r.teachAI != nil {
		var err error
		correct, feedback, err = r.teachAI.EvaluateAnswer(ctx, sess.Question, t.raw)
		if err != nil {
			log.Printf("bot: answer evaluation: %v", err)
			feedback = ""
		}
	}
	if feedback == "" {
		correct = sess.Question.MatchesAnswer(t.raw)
		if correct {
			feedback = responses.TeacherCorrectFeedback(sess.Question)
		} else {
			feedback = responses.TeacherWrongFeedback(sess.Question)
		}
	}

	if correct {
		sess.Question = r.pickQuestion(ctx, sess.GradeHint, sess.SubjectHint)
		sess.Attempt = 1
		sess.Conversation = nil
	} else {
		sess.Attempt++
	}
	sess.LastBotAt = t.now
	r.reply(ctx, t, feedback+"\n\n"+responses.FormatQuestionIntro(sess.Question, sess.Attempt), false, nil)
}
