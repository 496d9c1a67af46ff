package worker

import (
	"context"
	"errors"
	"time"

	"p2v/internal/common"
	"p2v/internal/domain/repository"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix   = "vote_tally_lock:"
	lockBusyBackoff = 500 * time.Millisecond
)

var releaseLockScript = redis.NewScript(`
    if redis.call("get", KEYS[1]) == ARGV[1] then
        return redis.call("del", KEYS[1])
    else
        return 0
    end
`)

// TallyWorker drains the tally queue and stores fresh vote counts on places.
type TallyWorker struct {
	rdb       *redis.Client
	queueName string
	lockTTL   time.Duration
	voteRepo  repository.VoteRepository
	placeRepo repository.PlaceRepository
	log       *logger.Logger
	metrics   metrics.Recorder

	// busyBackoff is how long a place waits before going back on the queue
	// when its lock is held or Redis errors.
	busyBackoff time.Duration
}

func NewTallyWorker(
	rdb *redis.Client,
	queueName string,
	lockTTL time.Duration,
	voteRepo repository.VoteRepository,
	placeRepo repository.PlaceRepository,
	log *logger.Logger,
	rec metrics.Recorder,
) *TallyWorker {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &TallyWorker{
		rdb:       rdb,
		queueName: queueName,
		lockTTL:   lockTTL,
		voteRepo:  voteRepo,
		placeRepo: placeRepo,
		log:       log.With("worker", "TallyWorker"),
		metrics:   rec,

		busyBackoff: lockBusyBackoff,
	}
}

func (w *TallyWorker) Start(ctx context.Context) {
	w.log.Info("tally worker started", "queue", w.queueName)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("tally worker stopping")
			return
		default:
		}

		res, err := w.rdb.BRPop(ctx, 5*time.Second, w.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			w.log.Error("failed to pop tally queue", "queue", w.queueName, "error", err)
			sleep(ctx, 5*time.Second)
			continue
		}

		// res is [queueName, value]
		if len(res) < 2 || res[1] == "" {
			w.log.Warn("tally queue returned empty place id")
			continue
		}
		w.processWithLock(ctx, res[1])
	}
}

func (w *TallyWorker) processWithLock(ctx context.Context, placeID string) {
	lockKey := lockKeyPrefix + placeID
	lockValue := uuid.NewString()

	ok, err := w.rdb.SetNX(ctx, lockKey, lockValue, w.lockTTL).Result()
	if err != nil {
		w.log.Error("failed to attempt tally lock", "place_id", placeID, "error", err)
		w.retryLater(ctx, placeID)
		return
	}
	if !ok {
		w.log.Debug("tally lock busy, re-queueing", "place_id", placeID)
		w.retryLater(ctx, placeID)
		return
	}

	defer func() {
		deleted, err := releaseLockScript.Run(ctx, w.rdb, []string{lockKey}, lockValue).Int64()
		if err != nil {
			w.log.Error("failed to release tally lock", "place_id", placeID, "error", err)
		} else if deleted != 1 {
			w.log.Warn("tally lock expired before release", "place_id", placeID)
		}
	}()

	if err := w.Refresh(ctx, placeID); err != nil {
		w.log.Error("failed to refresh tally", "place_id", placeID, "error", err)
	}
}

// Refresh recounts votes for one place and stores the totals. A place that
// was deleted in the meantime is skipped.
func (w *TallyWorker) Refresh(ctx context.Context, placeID string) error {
	tally, err := w.voteRepo.TallyForPlace(ctx, placeID)
	if err != nil {
		return err
	}
	if err := w.placeRepo.UpdateTally(ctx, tally); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			w.log.Debug("place gone before tally refresh", "place_id", placeID)
			return nil
		}
		return err
	}
	w.metrics.RecordTallyRefreshed()
	return nil
}

// retryLater waits busyBackoff, then puts placeID back on the queue. The id
// is re-queued even when ctx is cancelled during the wait.
func (w *TallyWorker) retryLater(ctx context.Context, placeID string) {
	sleep(ctx, w.busyBackoff)

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := w.rdb.LPush(pushCtx, w.queueName, placeID).Err(); err != nil {
		w.log.Error("failed to re-queue place", "place_id", placeID, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
