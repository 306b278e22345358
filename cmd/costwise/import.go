package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/costwise/costwise/internal/cli"
	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import message events from a CSV export",
		Long: `Import message events from a CSV export of the messaging channel.

Expected columns:
  timestamp, direction, conversation_id, conversation_started_at,
  content, template_name, template_category, is_in_free_window, is_reply

Duplicate rows (same timestamp, direction, conversation, and content) are
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Int("batch-size", 500, "Messages saved per database batch")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	if batchSize <= 0 {
		batchSize = 500
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := columnIndex(header)

	stats := service.ImportStats{}
	start := time.Now()

	bar := progressbar.Default(-1, "importing messages")
	batch := make([]model.Message, 0, batchSize)

	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read CSV row: %w", readErr)
		}

		stats.TotalRows++
		msg, parseErr := parseMessageRow(record, columns)
		if parseErr != nil {
			slog.Warn("Skipping malformed row", "row", stats.TotalRows, "error", parseErr)
			continue
		}

		batch = append(batch, msg)
		_ = bar.Add(1)

		if len(batch) >= batchSize {
			if err := store.SaveMessages(ctx, batch); err != nil {
				common.LogError(err, "Failed to save message batch", common.Fields{"batch_size": len(batch)})
				return err
			}
			stats.Imported += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := store.SaveMessages(ctx, batch); err != nil {
			common.LogError(err, "Failed to save message batch", common.Fields{"batch_size": len(batch)})
			return err
		}
		stats.Imported += len(batch)
	}

	stats.Duration = time.Since(start)
	common.LogInfo("Import complete", common.Fields{
		"rows":     stats.TotalRows,
		"imported": stats.Imported,
		"duration": stats.Duration,
	})
	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Imported %d of %d rows in %s", stats.Imported, stats.TotalRows, stats.Duration.Round(time.Millisecond))))

	return nil
}

func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

func field(record []string, columns map[string]int, name string) string {
	if i, ok := columns[name]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func parseMessageRow(record []string, columns map[string]int) (model.Message, error) {
	var msg model.Message

	timestamp, err := time.Parse(time.RFC3339, field(record, columns, "timestamp"))
	if err != nil {
		return msg, fmt.Errorf("invalid timestamp: %w", err)
	}

	direction := model.Direction(strings.ToUpper(field(record, columns, "direction")))
	switch direction {
	case model.DirectionInbound, model.DirectionOutbound:
	default:
		return msg, fmt.Errorf("unknown direction %q", direction)
	}

	msg = model.Message{
		ID:               uuid.NewString(),
		Timestamp:        timestamp,
		Direction:        direction,
		ConversationID:   field(record, columns, "conversation_id"),
		Content:          field(record, columns, "content"),
		TemplateName:     field(record, columns, "template_name"),
		TemplateCategory: field(record, columns, "template_category"),
	}

	if raw := field(record, columns, "conversation_started_at"); raw != "" {
		startedAt, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return msg, fmt.Errorf("invalid conversation_started_at: %w", parseErr)
		}
		msg.ConversationStartedAt = startedAt
	}

	msg.IsInFreeWindow = parseBool(field(record, columns, "is_in_free_window"))
	msg.IsReply = parseBool(field(record, columns, "is_reply"))

	return msg, nil
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
