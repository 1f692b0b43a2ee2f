package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cutboard/cutboard-agent/internal/assets"
	"github.com/cutboard/cutboard-agent/internal/beats"
	"github.com/cutboard/cutboard-agent/internal/session"
	"github.com/cutboard/cutboard-agent/internal/timeline"
	"github.com/cutboard/cutboard-agent/internal/transcribe"
)

// SessionProvider exposes the session currently open for editing, if any.
type SessionProvider interface {
	Current() *session.Session
}

// Runner polls for pending jobs and executes them off the editing path.
// Completed results re-enter the core only as fully-formed data.
type Runner struct {
	repo         Repository
	assetSvc     assets.AssetService
	transcriber  transcribe.Client
	sessions     SessionProvider
	logger       *slog.Logger
	pollInterval time.Duration
	running      atomic.Bool
	paused       atomic.Bool
}

func NewRunner(repo Repository, assetSvc assets.AssetService, transcriber transcribe.Client, sessions SessionProvider, logger *slog.Logger) *Runner {
	return &Runner{
		repo:         repo,
		assetSvc:     assetSvc,
		transcriber:  transcriber,
		sessions:     sessions,
		logger:       logger,
		pollInterval: 2 * time.Second,
	}
}

// EnqueueTranscribe queues word-timing transcription for a clip's backing
// media, to be turned into subtitle beats on completion.
func (r *Runner) EnqueueTranscribe(ctx context.Context, projectID, clipID string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:        timeline.NewID(),
		Type:      JobTypeTranscribe,
		Status:    JobStatusPending,
		ProjectID: projectID,
		ClipID:    clipID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	r.logger.Info("transcribe job queued", "job_id", job.ID, "clip_id", clipID)
	return job, nil
}

// Start runs the polling loop until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	r.logger.Info("job runner started")

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("job runner stopping")
			r.running.Store(false)
			return
		case <-ticker.C:
			if !r.paused.Load() {
				r.processNextJob(ctx)
			}
		}
	}
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	r.logger.Info("job runner paused")
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	r.logger.Info("job runner resumed")
}

func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

func (r *Runner) processNextJob(ctx context.Context) {
	pending, err := r.repo.ListPendingJobs(ctx)
	if err != nil {
		r.logger.Error("failed to list pending jobs", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	job := pending[0]
	r.logger.Info("processing job", "job_id", job.ID, "type", job.Type)

	switch job.Type {
	case JobTypeTranscribe:
		r.runTranscribe(ctx, job)
	default:
		r.logger.Warn("unknown job type", "type", job.Type)
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "unknown job type")
	}
}

func (r *Runner) runTranscribe(ctx context.Context, job *Job) {
	if err := r.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, ""); err != nil {
		r.logger.Error("failed to mark job running", "job_id", job.ID, "error", err)
		return
	}

	// The transcription service reports no intermediate progress, so a
	// ticker simulates it for the UI. The ticker is tied to the job's
	// running state: stopProgress is called before any status transition,
	// so it can never keep mutating a finished job.
	stopProgress := r.startProgressTicker(ctx, job.ID)

	err := r.executeTranscribe(ctx, job)
	stopProgress()

	if err != nil {
		r.logger.Error("transcribe job failed", "job_id", job.ID, "error", err)
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		return
	}

	r.repo.UpdateJobProgress(ctx, job.ID, 100)
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	r.logger.Info("transcribe job completed", "job_id", job.ID)
}

func (r *Runner) executeTranscribe(ctx context.Context, job *Job) error {
	sess := r.sessions.Current()
	if sess == nil || sess.ProjectID() != job.ProjectID {
		return fmt.Errorf("project %s is not open", job.ProjectID)
	}

	project := sess.Project()
	clip, _, err := project.FindClip(job.ClipID)
	if err != nil {
		return err
	}
	if clip.AssetID == "" {
		return fmt.Errorf("clip %s has no backing asset", job.ClipID)
	}

	asset, err := r.assetSvc.Get(ctx, clip.AssetID)
	if err != nil {
		return err
	}
	if asset == nil {
		return fmt.Errorf("asset %s not found", clip.AssetID)
	}

	words, err := r.transcriber.Transcribe(ctx, asset.URL)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("transcription returned no words")
	}

	// Word timing is relative to the media. Playback speed compresses or
	// stretches it on the timeline, then the clip's position shifts it.
	speed := clip.Speed
	if speed <= 0 {
		speed = 1
	}
	shifted := make([]beats.Word, len(words))
	for i, w := range words {
		shifted[i] = beats.Word{Text: w.Text, Start: clip.StartTime + w.Start/speed, End: clip.StartTime + w.End/speed}
	}

	beatList := beats.Segment(shifted, beats.DefaultParams())
	ids, err := sess.AddSubtitleBeats(job.ClipID, beatList)
	if err != nil {
		return err
	}

	r.logger.Info("subtitle beats added", "job_id", job.ID, "clip_id", job.ClipID, "beat_count", len(ids))
	return nil
}

// startProgressTicker bumps the job's progress toward 90% while the work is
// in flight. The returned stop function cancels the ticker and must run
// before the job's status leaves running.
func (r *Runner) startProgressTicker(ctx context.Context, jobID string) func() {
	tickCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		progress := 0
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				if progress < 90 {
					progress += 10
					r.repo.UpdateJobProgress(tickCtx, jobID, progress)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
