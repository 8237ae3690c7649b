package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// VideoState describes where a video job is in its lifecycle.
type VideoState string

const (
	VideoSubmitted VideoState = "submitted"
	VideoPolling   VideoState = "polling"
	VideoDone      VideoState = "done"
	VideoFailed    VideoState = "failed"
)

// ErrPollBudgetExceeded reports a job that did not finish within the
// configured number of polls. The job may still complete server-side;
// the caller just stops waiting.
var ErrPollBudgetExceeded = errors.New("video generation did not finish in time")

// VideoJob is the observable progress of one generation request.
type VideoJob struct {
	State VideoState
	Polls int
	URI   string // set once State == VideoDone
}

// VideoProgressFunc is called after each state transition. Errors from
// the callback abort the wait.
type VideoProgressFunc func(ctx context.Context, job VideoJob) error

// videoOps is the narrow slice of the SDK the poller needs. Tests
// substitute a fake.
type videoOps interface {
	start(ctx context.Context, model, prompt string) (*genai.GenerateVideosOperation, error)
	poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

type geminiVideoOps struct {
	client *genai.Client
}

func (o *geminiVideoOps) start(ctx context.Context, model, prompt string) (*genai.GenerateVideosOperation, error) {
	return o.client.Models.GenerateVideos(ctx, model, prompt, nil, nil)
}

func (o *geminiVideoOps) poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return o.client.Operations.GetVideosOperation(ctx, op, nil)
}

// VideoGenerator runs the submit-then-poll lifecycle for video jobs.
type VideoGenerator struct {
	ops      videoOps
	logger   *slog.Logger
	tracer   trace.Tracer
	model    string
	interval time.Duration
	maxPolls int

	// bind resolves ops at call time so credential changes take
	// effect; nil when ops was injected directly.
	bind bindFunc

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

type bindFunc func(ctx context.Context) (videoOps, error)

// NewVideoGenerator builds a generator that uses the given Gemini
// provider's client and models. Interval and maxPolls bound the wait.
func (g *Gemini) NewVideoGenerator(interval time.Duration, maxPolls int) *VideoGenerator {
	return &VideoGenerator{
		ops:      nil, // bound lazily so credential changes take effect
		logger:   g.logger,
		tracer:   g.tracer,
		model:    g.videoModel,
		interval: interval,
		maxPolls: maxPolls,
		sleep:    sleepCtx,
		bind: func(ctx context.Context) (videoOps, error) {
			client, err := g.ensureClient(ctx)
			if err != nil {
				return nil, err
			}
			return &geminiVideoOps{client: client}, nil
		},
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Generate submits a prompt and polls until the job finishes, fails,
// or the poll budget runs out. onProgress may be nil.
func (v *VideoGenerator) Generate(ctx context.Context, prompt string, onProgress VideoProgressFunc) (string, error) {
	ops := v.ops
	if ops == nil {
		bound, err := v.bind(ctx)
		if err != nil {
			return "", err
		}
		ops = bound
	}

	ctx, span := v.tracer.Start(ctx, "provider.generate_video",
		trace.WithAttributes(attribute.String("model", v.model)))
	defer span.End()

	notify := func(job VideoJob) error {
		if onProgress == nil {
			return nil
		}
		return onProgress(ctx, job)
	}

	op, err := ops.start(ctx, v.model, prompt)
	if err != nil {
		return "", fmt.Errorf("submitting video job: %w", err)
	}
	if err := notify(VideoJob{State: VideoSubmitted}); err != nil {
		return "", err
	}

	for polls := 1; polls <= v.maxPolls; polls++ {
		if err := v.sleep(ctx, v.interval); err != nil {
			return "", err
		}

		op, err = ops.poll(ctx, op)
		if err != nil {
			_ = notify(VideoJob{State: VideoFailed, Polls: polls})
			return "", fmt.Errorf("polling video job: %w", err)
		}

		if !op.Done {
			if err := notify(VideoJob{State: VideoPolling, Polls: polls}); err != nil {
				return "", err
			}
			continue
		}

		uri := videoURI(op)
		if uri == "" {
			_ = notify(VideoJob{State: VideoFailed, Polls: polls})
			return "", errors.New("video job finished without a result")
		}

		span.SetAttributes(attribute.Int("polls", polls))
		v.logger.Debug("video job done", "polls", polls)
		if err := notify(VideoJob{State: VideoDone, Polls: polls, URI: uri}); err != nil {
			return "", err
		}
		return uri, nil
	}

	_ = notify(VideoJob{State: VideoFailed, Polls: v.maxPolls})
	return "", ErrPollBudgetExceeded
}

func videoURI(op *genai.GenerateVideosOperation) string {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return ""
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return ""
	}
	return video.URI
}
