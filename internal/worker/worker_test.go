package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"inventra/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []EmailJobPayload
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, EmailJobPayload{ToEmail: to, Subject: subject, Body: body})
	return nil
}

func TestEmailWorkerSends(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewEmailWorker(mailer, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))

	raw, _ := json.Marshal(EmailJobPayload{ToEmail: "m@inventra.test", Subject: "Reorder", Body: "please"})
	require.NoError(t, w.Process(context.Background(), raw))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Reorder", mailer.sent[0].Subject)

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to_email":""}`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`not json`)))
	assert.Len(t, mailer.sent, 1)
}

func TestEmailWorkerTripsBreaker(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("connection refused")}
	breaker := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "smtp", FailureThreshold: 2})
	w := NewEmailWorker(mailer, breaker)
	raw, _ := json.Marshal(EmailJobPayload{ToEmail: "m@inventra.test"})

	assert.Error(t, w.Process(context.Background(), raw))
	assert.Error(t, w.Process(context.Background(), raw))
	assert.ErrorIs(t, w.Process(context.Background(), raw), infra.ErrCircuitOpen)
}

type countingStarter struct {
	n   int
	err error
}

func (s *countingStarter) StartDueAudits(context.Context) (int, error) { return s.n, s.err }

func TestRunAuditTick(t *testing.T) {
	assert.Equal(t, 2, runAuditTick(context.Background(), &countingStarter{n: 2}))
	assert.Equal(t, 0, runAuditTick(context.Background(), &countingStarter{err: errors.New("db down")}))
}

func TestPoolRegisterDeduplicatesQueues(t *testing.T) {
	p := NewPool(nil)
	p.Register(QueueEmail, JobTypeEmail, NewEmailWorker(&fakeMailer{}, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))))
	p.Register(QueueEmail, "digest", NewEmailWorker(&fakeMailer{}, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))))
	assert.Equal(t, []string{QueueEmail}, p.queues)
	assert.Len(t, p.handlers, 2)
}

func TestWorkerBacksOffWhileRedisIsDown(t *testing.T) {
	p := NewPool(nil)
	p.queues = []string{QueueEmail}
	p.backoff = 40 * time.Millisecond

	var calls atomic.Int32
	p.pop = func(context.Context, time.Duration, ...string) ([]string, error) {
		calls.Add(1)
		return nil, errors.New("dial tcp: connection refused")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		p.run(ctx, 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
	assert.LessOrEqual(t, calls.Load(), int32(5), "worker must pause between failed pops")
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestWorkerTreatsPopTimeoutAsIdle(t *testing.T) {
	p := NewPool(nil)
	p.queues = []string{QueueEmail}
	p.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	p.pop = func(context.Context, time.Duration, ...string) ([]string, error) {
		if calls.Add(1) == 3 {
			cancel()
		}
		return nil, redis.Nil
	}

	done := make(chan struct{})
	go func() {
		p.run(ctx, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("a BRPOP timeout must not trigger the error backoff")
	}
	assert.Equal(t, int32(3), calls.Load())
}
