package bot

import (
	"context"
	"log"

	"github.com/sdnsembar01/aska/internal/models"
	"github.com/sdnsembar01/aska/internal/responses"
)

// handleBullying claims first-person bullying stories. The flow is a
// single turn: the report row is written immediately and the reply is an
// empathetic acknowledgement that never mentions the record. There is no
// session to time out.
func (r *Router) handleBullying(ctx context.Context, t *turn) bool {
	category := responses.DetectBullyingCategory(t.normalized)
	if category == "" {
		return false
	}

	report := &models.BullyingReport{
		UserID:      t.msg.UserID,
		Username:    t.msg.UserName,
		Description: t.raw,
		Category:    category,
		Severity:    responses.BullyingSeverity(category),
		Status:      "pending",
	}
	if t.chatLogID != 0 {
		id := t.chatLogID
		report.ChatLogID = &id
	}
	if err := r.store.CreateBullyingReport(ctx, report); err != nil {
		// The student still gets the acknowledgement.
		log.Printf("bot: bullying report: %v", err)
	}

	reply := ""
	if r.ackAI != nil {
		generated, err := r.ackAI.BullyingAck(ctx, category, t.raw)
		if err != nil {
			log.Printf("bot: bullying ack generation: %v", err)
		} else {
			reply = generated
		}
	}
	if reply == "" {
		reply = responses.BullyingAckFallback(category)
	}
	r.reply(ctx, t, reply, false, nil)
	return true
}
