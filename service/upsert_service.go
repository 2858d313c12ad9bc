package service

import (
	"context"
	"log/slog"

	"github.com/openrag/docsearch-be/database"
	"github.com/openrag/docsearch-be/types"
	"github.com/openrag/docsearch-be/utils"
)

// UpsertService ships chunk records into one index with failure isolation
// at a caller-chosen granularity: whole batches retried as a unit, or one
// record at a time so a single bad record cannot sink its batch.
type UpsertService struct {
	handle   database.IndexHandle
	retryCfg utils.RetryConfig
	logger   *slog.Logger
}

func NewUpsertService(handle database.IndexHandle, retryCfg utils.RetryConfig, logger *slog.Logger) *UpsertService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpsertService{
		handle:   handle,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// UpsertBatch sends the whole batch as one call under retry. All-or-
// nothing: on exhaustion the underlying error is returned, and the caller
// decides whether to skip to the next batch.
func (s *UpsertService) UpsertBatch(ctx context.Context, namespace string, batch []types.ChunkRecord) error {
	_, err := utils.Retry(ctx, s.retryCfg, func() (int, error) {
		if err := s.handle.UpsertRecords(ctx, namespace, batch); err != nil {
			return 0, err
		}
		return len(batch), nil
	})
	return err
}

// UpsertRecordsIndividually sends the batch one record at a time, logging
// each failure and continuing with the next record. It never returns an
// error; the outcome carries the failures.
func (s *UpsertService) UpsertRecordsIndividually(ctx context.Context, namespace string, batch []types.ChunkRecord) types.UpsertOutcome {
	var outcome types.UpsertOutcome
	for _, rec := range batch {
		if err := s.handle.UpsertRecords(ctx, namespace, []types.ChunkRecord{rec}); err != nil {
			s.logger.Error("failed to upsert record",
				"id", rec.ID,
				"url", rec.Metadata.URL,
				"language", rec.Metadata.Language,
				"text_length", len(rec.Text),
				"error", err,
			)
			outcome.Failed = append(outcome.Failed, types.UpsertFailure{ID: rec.ID, Err: err.Error()})
			continue
		}
		outcome.Succeeded++
	}
	return outcome
}

// UpsertAll partitions records into batches of batchSize and transmits
// them in order. A failed batch is logged and skipped, never aborting the
// run. onBatch, if set, is called after every batch with running totals.
func (s *UpsertService) UpsertAll(ctx context.Context, namespace string, records []types.ChunkRecord, batchSize int, perRecord bool, onBatch func(sent int)) types.UpsertOutcome {
	var outcome types.UpsertOutcome
	for _, batch := range utils.Partition(records, batchSize) {
		if perRecord {
			batchOutcome := s.UpsertRecordsIndividually(ctx, namespace, batch)
			outcome.Succeeded += batchOutcome.Succeeded
			outcome.Failed = append(outcome.Failed, batchOutcome.Failed...)
		} else {
			if err := s.UpsertBatch(ctx, namespace, batch); err != nil {
				s.logger.Error("failed to upsert batch even after retries", "size", len(batch), "error", err)
				for _, rec := range batch {
					outcome.Failed = append(outcome.Failed, types.UpsertFailure{ID: rec.ID, Err: err.Error()})
				}
			} else {
				outcome.Succeeded += len(batch)
			}
		}

		s.logger.Info("batch processed",
			"succeeded", outcome.Succeeded,
			"attempted", outcome.Succeeded+len(outcome.Failed),
		)
		if onBatch != nil {
			onBatch(len(batch))
		}
	}
	return outcome
}
