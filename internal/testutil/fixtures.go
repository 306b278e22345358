package testutil

import (
	"time"

	"github.com/costwise/costwise/internal/model"
)

// BaseTime is the reference timestamp fixtures are built around.
var BaseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// MessageOption mutates a fixture message before it is returned.
type MessageOption func(*model.Message)

// NewMessage builds an outbound message with sensible defaults. Options
// override individual fields.
func NewMessage(id string, opts ...MessageOption) model.Message {
	msg := model.Message{
		ID:             id,
		ConversationID: "conv_" + id,
		Content:        "Your order has been shipped",
		Category:       model.CategoryUtility,
		Direction:      model.DirectionOutbound,
		Timestamp:      BaseTime,
	}
	for _, opt := range opts {
		opt(&msg)
	}
	return msg
}

// WithCategory sets the message category.
func WithCategory(category model.Category) MessageOption {
	return func(m *model.Message) { m.Category = category }
}

// WithDirection sets the message direction.
func WithDirection(direction model.Direction) MessageOption {
	return func(m *model.Message) { m.Direction = direction }
}

// WithContent sets the message content.
func WithContent(content string) MessageOption {
	return func(m *model.Message) { m.Content = content }
}

// WithConversation sets the conversation id.
func WithConversation(conversationID string) MessageOption {
	return func(m *model.Message) { m.ConversationID = conversationID }
}

// WithTimestamp sets the message timestamp.
func WithTimestamp(ts time.Time) MessageOption {
	return func(m *model.Message) { m.Timestamp = ts }
}

// WithTemplate sets the template name and category.
func WithTemplate(name, category string) MessageOption {
	return func(m *model.Message) {
		m.TemplateName = name
		m.TemplateCategory = category
	}
}

// WithFreeWindow marks the message as sent inside the service window.
func WithFreeWindow() MessageOption {
	return func(m *model.Message) { m.IsInFreeWindow = true }
}

// WithReply marks the message as a reply to an inbound message.
func WithReply() MessageOption {
	return func(m *model.Message) { m.IsReply = true }
}

// WithConversationStart sets when the message's conversation opened.
func WithConversationStart(ts time.Time) MessageOption {
	return func(m *model.Message) { m.ConversationStartedAt = ts }
}

// NewDailySummary builds a summary for a single day of spend.
func NewDailySummary(date time.Time, totalCost float64, messageCount int) model.DailySummary {
	return model.DailySummary{
		Date:          date,
		TotalCost:     totalCost,
		TotalMessages: messageCount,
		PaidMessages:  messageCount,
		Breakdown: []model.CategoryBreakdown{
			{Category: model.CategoryUtility, Count: messageCount, Cost: totalCost},
		},
	}
}
