package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrOpen is returned without calling the wrapped function while the
// breaker is open or half-open with no free probe slots.
var ErrOpen = errors.New("circuit breaker is open")

type Settings struct {
	Name                string
	ConsecutiveFailures uint32        // trips after this many failures in a row
	OpenTimeout         time.Duration // time spent open before probing again
	HalfOpenRequests    uint32
	Interval            time.Duration // cyclic reset of counts while closed, 0 disables
}

type Breaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

// New returns a breaker. isFailure decides which errors count against the
// backend; errors it rejects are passed through but recorded as successes.
func New(s Settings, isFailure func(error) bool) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	threshold := s.ConsecutiveFailures

	st := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenRequests,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isFailure == nil || !isFailure(err)
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[struct{}](st)}
}

func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}
