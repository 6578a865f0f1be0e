package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type testDispatchConfig struct {
	mode string
}

func (c testDispatchConfig) GetDispatchMode() string           { return c.mode }
func (c testDispatchConfig) GetDispatchQueueSize() int         { return 4 }
func (c testDispatchConfig) GetDispatchTimeout() time.Duration { return time.Second }

func TestDispatcherSyncReturnsJobResult(t *testing.T) {
	d := NewDispatcher(testDispatchConfig{mode: "sync"}, nil)

	result := d.Dispatch(context.Background(), Job{
		Tool:   "email",
		Action: "send_email",
		Target: "a@b.c",
		Run: func(ctx context.Context) Result {
			return Ok("delivered")
		},
	})

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Message != "delivered" {
		t.Errorf("expected job result passed through, got %q", result.Message)
	}
}

func TestDispatcherAsyncRunsAllJobs(t *testing.T) {
	d := NewDispatcher(testDispatchConfig{mode: "async"}, nil)

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		result := d.Dispatch(context.Background(), Job{
			Tool:   "whatsapp",
			Action: "send_whatsapp_message",
			Run: func(ctx context.Context) Result {
				ran.Add(1)
				return Ok("sent")
			},
		})
		if !result.Success {
			t.Fatalf("async dispatch should accept job, got %+v", result)
		}
	}

	d.Wait()

	if got := ran.Load(); got != 10 {
		t.Errorf("expected 10 jobs to run, got %d", got)
	}
}

func TestDispatcherAsyncSurvivesCancelledRequestContext(t *testing.T) {
	d := NewDispatcher(testDispatchConfig{mode: "async"}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	var sawCancelled atomic.Bool
	d.Dispatch(ctx, Job{
		Tool:   "email",
		Action: "send_email",
		Run: func(jobCtx context.Context) Result {
			if jobCtx.Err() != nil {
				sawCancelled.Store(true)
			}
			return Ok("sent")
		},
	})
	cancel()
	d.Wait()

	if sawCancelled.Load() {
		t.Error("job context should be detached from the request context")
	}
}

func TestDispatcherNilJob(t *testing.T) {
	d := NewDispatcher(testDispatchConfig{mode: "sync"}, nil)

	result := d.Dispatch(context.Background(), Job{})
	if result.Success {
		t.Error("nil job must fail")
	}
}
