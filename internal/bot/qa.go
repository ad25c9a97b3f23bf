package bot

import (
	"context"
	"log"
	"time"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/responses"
	"github.com/sdnsembar01/aska/internal/store"
	"github.com/sdnsembar01/aska/internal/textnorm"
)

// handleQA is the fallback: answer from the knowledge base, with recent
// chat history as context. Relative schedule words ("besok") are rewritten
// to concrete dates first so retrieval matches the stored timetable.
func (r *Router) handleQA(ctx context.Context, t *turn) {
	if r.qa == nil {
		r.reply(ctx, t, responses.NoDataResponse, true, nil)
		return
	}

	question := textnorm.RewriteScheduleQuery(t.normalized, t.now)
	history := r.recentHistory(ctx, t)

	started := time.Now()
	answer, found, err := r.qa.Answer(ctx, question, history)
	elapsed := int(time.Since(started).Milliseconds())

	if err != nil {
		log.Printf("bot: qa answer: %v", err)
		r.reply(ctx, t, responses.TechnicalIssueResponse, true, nil)
		return
	}
	if !found {
		r.reply(ctx, t, responses.NoDataResponse, true, &elapsed)
		return
	}
	r.reply(ctx, t, answer, true, &elapsed)
}

// recentHistory loads the last few chat rows as conversation turns,
// oldest first, excluding the row just written for the current message.
func (r *Router) recentHistory(ctx context.Context, t *turn) []ai.Turn {
	rows, err := r.store.ChatHistory(ctx, t.msg.UserID, qaHistoryLimit+1, 0)
	if err != nil {
		log.Printf("bot: qa history: %v", err)
		return nil
	}
	turns := make([]ai.Turn, 0, qaHistoryLimit)
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if row.ID == t.chatLogID {
			continue
		}
		role := ai.RoleUser
		if row.Role == store.RoleAssistant {
			role = ai.RoleAssistant
		}
		turns = append(turns, ai.Turn{Role: role, Content: row.Message})
	}
	if len(turns) > qaHistoryLimit {
		turns = turns[len(turns)-qaHistoryLimit:]
	}
	return turns
}
