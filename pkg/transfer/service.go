package transfer

import (
	"context"
	"time"

	"github.com/fileflow/fileflow/internal/logger"
	"github.com/fileflow/fileflow/pkg/ids"
	"github.com/fileflow/fileflow/pkg/metrics"
	"github.com/fileflow/fileflow/pkg/store"
)

// Service is the transfer state machine over the two TTL registries.
//
// All methods are safe for concurrent use. Retry timing lives in
// Config so tests can shrink the wait windows.
type Service struct {
	meta   *store.Store[MetaInfo]
	blocks *store.Store[FileBlock]
	cfg    Config
	m      *metrics.TransferMetrics
}

// New creates a transfer service with its backing stores. metrics may
// be nil.
func New(cfg Config, m *metrics.TransferMetrics) *Service {
	cfg.ApplyDefaults()
	return &Service{
		meta:   store.New[MetaInfo](),
		blocks: store.New[FileBlock](),
		cfg:    cfg,
		m:      m,
	}
}

// Close stops the backing store sweepers.
func (s *Service) Close() {
	s.meta.Close()
	s.blocks.Close()
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// IssueID allocates a fresh access ID for a declared file and creates
// its metadata with the metadata TTL. Generation is retried on key
// collision; the insert itself is the collision check.
func (s *Service) IssueID(fileName string, fileSize uint64) (string, error) {
	if fileSize > s.cfg.MaxTotalSize() {
		return "", ErrFileTooLarge
	}

	info := NewMetaInfo(fileName, fileSize)
	for range s.cfg.IssueRetries {
		id := ids.Generate()
		if s.meta.InsertIfAbsent(id, info, s.cfg.MetaTTL) {
			logger.Debug("issued access ID", "id", id, "file_name", fileName, "file_size", fileSize)
			s.m.ObserveIDIssued()
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

// Status returns the visible state of a transfer slot.
func (s *Service) Status(id string) (Status, error) {
	entry, ok := s.meta.Get(id)
	if !ok {
		return Status{}, ErrIDNotFound
	}
	v := entry.Value
	return Status{
		FileName: v.FileName,
		FileSize: v.FileSize,
		IsUsing:  v.IsUsing,
		Done:     v.Done,
	}, nil
}

// UploadBlock validates and stores one block under the ID. Uploads are
// accepted eagerly: a receiver need not have claimed the ID yet.
func (s *Service) UploadBlock(id string, info BlockInfo, data []byte) error {
	if _, ok := s.meta.Get(id); !ok {
		return ErrIDNotFound
	}

	if info.End < info.Start || info.Total == 0 || info.Start >= info.Total {
		return ErrInvalidRange
	}
	if info.Total > s.cfg.MaxTotalSize() {
		return ErrFileTooLarge
	}
	if uint64(len(data)) > s.cfg.MaxBlockSize.Uint64() {
		return ErrBlockTooLarge
	}
	if uint64(len(data)) != info.End-info.Start+1 {
		return ErrBlockSizeMismatch
	}

	// Soft admission ceiling. The count and the insert below are not
	// atomic, so racing uploaders can overshoot by their own number.
	if s.blocks.CountPrefix(blockPrefix(id), s.cfg.MaxBlocksPerFile) >= s.cfg.MaxBlocksPerFile {
		return ErrTooManyBlocks
	}

	block := FileBlock{
		Data:     data,
		Filename: info.Filename,
		Start:    info.Start,
		End:      info.End,
		Total:    info.Total,
	}
	if err := s.blocks.Insert(BlockKey(id, info.Start), block, s.cfg.BlockTTL); err != nil {
		return err
	}

	logger.Debug("block uploaded",
		"id", id,
		"start", info.Start,
		"end", info.End,
		"total", info.Total,
	)
	s.m.ObserveUpload(len(data))
	return nil
}

// DownloadBlock serves the block at start to receiver rid, consuming
// it on success.
//
// At start 0 the receiver claims the slot first. Every call verifies
// the claim, then waits up to FetchRetries x FetchRetryInterval for
// the block to appear. Consumption happens in a detached goroutine so
// the response is never delayed by it.
func (s *Service) DownloadBlock(ctx context.Context, id, rid string, start uint64) (FileBlock, error) {
	if start == 0 {
		if err := s.claim(ctx, id, rid); err != nil {
			return FileBlock{}, err
		}
	}

	// Verification phase: a racing claim may have replaced ours.
	entry, ok := s.meta.Get(id)
	if !ok {
		return FileBlock{}, ErrIDNotFound
	}
	if entry.Value.UsedBy != rid {
		return FileBlock{}, ErrWrongReceiver
	}

	key := BlockKey(id, start)
	var block FileBlock
	for attempt := 0; ; attempt++ {
		blockEntry, ok := s.blocks.Get(key)
		if ok {
			if blockEntry.Value.Start > start {
				return FileBlock{}, ErrWrongStart
			}
			block = blockEntry.Value
			break
		}
		if attempt >= s.cfg.FetchRetries {
			logger.Warn("block wait window exhausted", "id", id, "start", start)
			s.m.ObserveBlockNotReady()
			return FileBlock{}, ErrBlockNotReady
		}
		if err := sleepCtx(ctx, s.cfg.FetchRetryInterval); err != nil {
			return FileBlock{}, err
		}
	}

	// Consume the block off the response path. A missing key here is
	// fine: the sweeper may have reaped it first.
	go func() {
		if _, ok := s.blocks.Remove(key); !ok {
			logger.Debug("block already gone on removal", "key", key)
		}
	}()

	s.m.ObserveDownload(len(block.Data))
	return block, nil
}

// claim takes or re-takes the slot for rid. The read-mutate-update is
// non-atomic; Update preserves the original expiry so claims never
// extend the metadata TTL.
func (s *Service) claim(ctx context.Context, id, rid string) error {
	for attempt := 0; ; {
		entry, ok := s.meta.Get(id)
		if !ok {
			return ErrIDNotFound
		}
		v := entry.Value

		if v.IsUsing && v.UsedBy != "" && v.UsedBy != rid {
			logger.Warn("claim rejected, slot held", "id", id, "rid", rid)
			s.m.ObserveClaimConflict()
			return ErrAlreadyInUse
		}

		if v.IsUsing && v.UsedBy == rid {
			break // idempotent re-claim
		}

		v.IsUsing = true
		v.UsedBy = rid
		if err := s.meta.Update(id, v, entry.Exp); err != nil {
			attempt++
			if attempt >= s.cfg.ClaimRetries {
				return ErrUpdateFailed
			}
			if err := sleepCtx(ctx, s.cfg.ClaimRetryInterval); err != nil {
				return err
			}
			continue
		}
		logger.Debug("slot claimed", "id", id, "rid", rid)
		break
	}

	// Let a racing claim settle before the verification phase.
	return sleepCtx(ctx, s.cfg.ClaimSettleDelay)
}

// MarkDone flags the transfer complete, preserving the metadata
// expiry. Idempotent.
func (s *Service) MarkDone(id string) error {
	entry, ok := s.meta.Get(id)
	if !ok {
		return ErrIDNotFound
	}

	v := entry.Value
	v.Done = true
	if err := s.meta.Update(id, v, entry.Exp); err != nil {
		return ErrUpdateFailed
	}
	logger.Debug("transfer marked done", "id", id)
	return nil
}

// MarkReceiverState records a signaling receiver joining (using=true,
// with its rid) or leaving (using=false) the room named by id.
//
// Unknown IDs are ignored. Once the transfer is done, a leave no
// longer releases the slot, so late socket teardown cannot clear a
// finished transfer.
func (s *Service) MarkReceiverState(id string, using bool, rid string) {
	entry, ok := s.meta.Get(id)
	if !ok {
		return
	}

	v := entry.Value
	if !using && v.Done {
		return
	}

	v.IsUsing = using
	if using {
		v.UsedBy = rid
	} else {
		v.UsedBy = ""
	}

	if err := s.meta.Update(id, v, entry.Exp); err != nil {
		logger.Warn("receiver state update failed", "id", id, "error", err)
	}
}

// BlockCount returns the number of resident blocks for an ID.
func (s *Service) BlockCount(id string) int {
	return s.blocks.CountPrefix(blockPrefix(id), 0)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
