package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/service"
	"github.com/costwise/costwise/internal/storage"
	"github.com/costwise/costwise/internal/testutil"
)

func TestSaveAndGetMessages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	msgs := []model.Message{
		testutil.NewMessage("m1",
			testutil.WithCategory(model.CategoryMarketing),
			testutil.WithContent("Flash sale today"),
			testutil.WithConversation("conv_a"),
			testutil.WithTemplate("flash_sale", "MARKETING"),
			testutil.WithFreeWindow(),
			testutil.WithReply()),
		testutil.NewMessage("m2",
			testutil.WithDirection(model.DirectionInbound),
			testutil.WithContent("What time do you open?"),
			testutil.WithTimestamp(testutil.BaseTime.Add(time.Hour))),
	}

	require.NoError(t, db.Storage.SaveMessages(ctx, msgs))

	got, err := db.Storage.GetMessages(ctx, service.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, model.CategoryMarketing, got[0].Category)
	assert.Equal(t, "Flash sale today", got[0].Content)
	assert.Equal(t, model.DirectionOutbound, got[0].Direction)
	assert.Equal(t, "conv_a", got[0].ConversationID)
	assert.Equal(t, "flash_sale", got[0].TemplateName)
	assert.Equal(t, "MARKETING", got[0].TemplateCategory)
	assert.True(t, got[0].IsInFreeWindow)
	assert.True(t, got[0].IsReply)
	assert.Equal(t, "m2", got[1].ID, "messages ordered by timestamp")
	assert.Equal(t, model.DirectionInbound, got[1].Direction)
}

func TestSaveMessagesDeduplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	msg := testutil.NewMessage("m1")
	require.NoError(t, db.Storage.SaveMessages(ctx, []model.Message{msg}))

	// Same content under a different id hashes identically and is skipped.
	duplicate := msg
	duplicate.ID = "m1-reimport"
	require.NoError(t, db.Storage.SaveMessages(ctx, []model.Message{duplicate}))

	got, err := db.Storage.GetMessages(ctx, service.MessageFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1, "re-imported duplicate is ignored")
}

func TestGetMessagesFiltering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	msgs := []model.Message{
		testutil.NewMessage("m1",
			testutil.WithCategory(model.CategoryMarketing),
			testutil.WithTimestamp(testutil.BaseTime)),
		testutil.NewMessage("m2",
			testutil.WithCategory(model.CategoryUtility),
			testutil.WithTimestamp(testutil.BaseTime.AddDate(0, 0, 1))),
		testutil.NewMessage("m3",
			testutil.WithCategory(model.CategoryMarketing),
			testutil.WithTimestamp(testutil.BaseTime.AddDate(0, 0, 2))),
	}
	require.NoError(t, db.Storage.SaveMessages(ctx, msgs))

	start := testutil.BaseTime.AddDate(0, 0, 1).Add(-time.Hour)
	got, err := db.Storage.GetMessages(ctx, service.MessageFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = db.Storage.GetMessages(ctx, service.MessageFilter{Category: model.CategoryMarketing})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = db.Storage.GetMessages(ctx, service.MessageFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestGetMessagesInvalidDateRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	start := testutil.BaseTime
	end := start.Add(-time.Hour)
	_, err := db.Storage.GetMessages(ctx, service.MessageFilter{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, storage.ErrInvalidDateRange)
}

func TestGetMessageByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	msg := testutil.NewMessage("m1", testutil.WithConversationStart(testutil.BaseTime.Add(-2*time.Hour)))
	require.NoError(t, db.Storage.SaveMessages(ctx, []model.Message{msg}))

	got, err := db.Storage.GetMessageByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
	assert.False(t, got.ConversationStartedAt.IsZero())

	_, err = db.Storage.GetMessageByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateMessageClassification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	msg := testutil.NewMessage("m1")
	msg.Category = ""
	require.NoError(t, db.Storage.SaveMessages(ctx, []model.Message{msg}))

	unclassified, err := db.Storage.GetUnclassifiedMessages(ctx)
	require.NoError(t, err)
	require.Len(t, unclassified, 1)

	require.NoError(t, db.Storage.UpdateMessageClassification(ctx, "m1", model.CategoryUtility, 0.02))

	got, err := db.Storage.GetMessageByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryUtility, got.Category)
	assert.InDelta(t, 0.02, got.Cost, 1e-9)

	unclassified, err = db.Storage.GetUnclassifiedMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, unclassified)

	err = db.Storage.UpdateMessageClassification(ctx, "missing", model.CategoryUtility, 0.02)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDailySummaryRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	summary := testutil.NewDailySummary(date, 4.11, 100)
	require.NoError(t, db.Storage.SaveDailySummary(ctx, summary))

	got, err := db.Storage.GetDailySummaries(ctx, date, date)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 4.11, got[0].TotalCost, 1e-9)
	assert.Equal(t, 100, got[0].TotalMessages)
	require.Len(t, got[0].Breakdown, 1)
	assert.Equal(t, model.CategoryUtility, got[0].Breakdown[0].Category)
}

func TestDailySummaryUpsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Storage.SaveDailySummary(ctx, testutil.NewDailySummary(date, 4.11, 100)))
	require.NoError(t, db.Storage.SaveDailySummary(ctx, testutil.NewDailySummary(date, 5.00, 120)))

	got, err := db.Storage.GetDailySummaries(ctx, date, date)
	require.NoError(t, err)
	require.Len(t, got, 1, "same date overwrites instead of duplicating")
	assert.InDelta(t, 5.00, got[0].TotalCost, 1e-9)
	assert.Equal(t, 120, got[0].TotalMessages)
}

func TestGetDailySummariesRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Storage.SaveDailySummary(ctx,
			testutil.NewDailySummary(base.AddDate(0, 0, i), float64(i+1), 10)))
	}

	got, err := db.Storage.GetDailySummaries(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, got, 3, "range is inclusive on both ends")
	assert.Equal(t, base.AddDate(0, 0, 1), got[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 3), got[2].Date)

	_, err = db.Storage.GetDailySummaries(ctx, base.AddDate(0, 0, 3), base)
	assert.ErrorIs(t, err, storage.ErrInvalidDateRange)
}

func TestRecommendationsRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	recs := []model.Recommendation{
		{
			ID:               "rec_1_1717243200000",
			Title:            "Send marketing messages inside the free window",
			PotentialSavings: 4.11,
			Priority:         model.PriorityHigh,
			Actionable:       true,
			Steps:            []string{"step one", "step two"},
			Category:         model.RecommendationTiming,
			CreatedAt:        testutil.BaseTime,
		},
		{
			ID:               "rec_2_1717243200000",
			Title:            "Reclassify transactional marketing templates as utility",
			PotentialSavings: 0.633,
			Priority:         model.PriorityMedium,
			Actionable:       true,
			Steps:            []string{"audit templates"},
			Category:         model.RecommendationClassification,
			CreatedAt:        testutil.BaseTime,
		},
	}
	require.NoError(t, db.Storage.SaveRecommendations(ctx, recs))

	got, err := db.Storage.GetRecommendations(ctx, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rec_1_1717243200000", got[0].ID, "higher savings first within the same batch")
	assert.Equal(t, []string{"step one", "step two"}, got[0].Steps)
	assert.Equal(t, model.PriorityHigh, got[0].Priority)
}

func TestMarkRecommendationImplemented(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	rec := model.Recommendation{
		ID:               "rec_1_1",
		Title:            "Batch messages into open conversations",
		PotentialSavings: 1.5,
		Priority:         model.PriorityMedium,
		Category:         model.RecommendationConversation,
		CreatedAt:        testutil.BaseTime,
	}
	require.NoError(t, db.Storage.SaveRecommendations(ctx, []model.Recommendation{rec}))

	require.NoError(t, db.Storage.MarkRecommendationImplemented(ctx, "rec_1_1"))

	open, err := db.Storage.GetRecommendations(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, open, "implemented recommendations excluded by default")

	all, err := db.Storage.GetRecommendations(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Implemented)

	err = db.Storage.MarkRecommendationImplemented(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.ExpectedSchemaVersion, version)
}
