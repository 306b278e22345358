package optimizer

import "github.com/costwise/costwise/internal/model"

// conversationStats is the shared utilization helper feeding both the
// analyzers and the optimization score, so the two stay consistent.
type conversationStats struct {
	uniqueConversations        int
	outboundMessages           int
	freeOutboundMessages       int
	avgMessagesPerConversation float64
	freeWindowUtilization      float64
}

func computeConversationStats(msgs []model.Message) conversationStats {
	var stats conversationStats

	conversations := make(map[string]struct{})
	for _, msg := range msgs {
		if msg.ConversationID != "" {
			conversations[msg.ConversationID] = struct{}{}
		}
		if msg.Direction != model.DirectionOutbound {
			continue
		}
		stats.outboundMessages++
		if msg.IsInFreeWindow {
			stats.freeOutboundMessages++
		}
	}

	stats.uniqueConversations = len(conversations)
	if stats.uniqueConversations > 0 {
		stats.avgMessagesPerConversation = float64(len(msgs)) / float64(stats.uniqueConversations)
	}
	if stats.outboundMessages > 0 {
		stats.freeWindowUtilization = float64(stats.freeOutboundMessages) / float64(stats.outboundMessages)
	}

	return stats
}

// paidOutboundMarketing counts outbound marketing messages outside the free
// window, the population both the timing and reclassification analyzers act on.
func paidOutboundMarketing(msgs []model.Message) int {
	count := 0
	for _, msg := range msgs {
		if msg.Direction == model.DirectionOutbound &&
			msg.Category == model.CategoryMarketing &&
			!msg.IsInFreeWindow {
			count++
		}
	}
	return count
}
