package resilience

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/kbukum/trustauth/clock"
)

// ErrCircuitOpen is returned without calling through while a breaker is open.
var ErrCircuitOpen = stderrors.New("circuit breaker is open")

// State is a breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// MaxFailures consecutive counted failures open the circuit.
	MaxFailures int `yaml:"max_failures" mapstructure:"max_failures"`
	// OpenFor is how long the circuit stays open before a trial call.
	OpenFor time.Duration `yaml:"open_for" mapstructure:"open_for"`
	// Counts decides which errors count as failures. Defaults to Retryable,
	// so a user's bad access token never opens the circuit.
	Counts func(error) bool `yaml:"-" mapstructure:"-"`
	// OnStateChange is called with the breaker lock held.
	OnStateChange func(from, to State) `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills unset fields.
func (c *BreakerConfig) ApplyDefaults() {
	if c.MaxFailures <= 0 {
		c.MaxFailures = 5
	}
	if c.OpenFor <= 0 {
		c.OpenFor = 30 * time.Second
	}
	if c.Counts == nil {
		c.Counts = Retryable
	}
}

// Breaker fails fast while a dependency keeps failing. After OpenFor it
// lets a single trial call through; success closes it, failure reopens it.
type Breaker struct {
	cfg   BreakerConfig
	clock clock.Clock

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	trial    bool
}

// NewBreaker creates a closed breaker. A nil clk uses the system clock.
func NewBreaker(cfg BreakerConfig, clk clock.Clock) *Breaker {
	cfg.ApplyDefaults()
	if clk == nil {
		clk = clock.System()
	}
	return &Breaker{cfg: cfg, clock: clk}
}

// Execute calls fn unless the circuit is open.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	b.record(err)
	return err
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.current() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.trial {
			return false
		}
		b.trial = true
		return true
	default:
		return false
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !b.cfg.Counts(err) {
		if b.state == StateHalfOpen {
			b.to(StateClosed)
		}
		b.failures = 0
		return
	}
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.cfg.MaxFailures {
		b.openedAt = b.clock.Now()
		b.to(StateOpen)
	}
}

// current moves an expired open circuit to half-open. Callers hold mu.
func (b *Breaker) current() State {
	if b.state == StateOpen && !b.clock.Now().Before(b.openedAt.Add(b.cfg.OpenFor)) {
		b.to(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) to(s State) {
	if b.state == s {
		return
	}
	from := b.state
	b.state = s
	b.trial = false
	if s != StateOpen {
		b.failures = 0
	}
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, s)
	}
}
