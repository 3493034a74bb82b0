package flashcard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// Response is the recall quality reported for a card.
type Response string

const (
	Again Response = "again"
	Hard  Response = "hard"
	Good  Response = "good"
	Easy  Response = "easy"
)

// displayOrder is the order options are offered to the user in.
var displayOrder = []Response{Again, Hard, Good, Easy}

// ParseResponse parses a grading token, ignoring case and surrounding space.
func ParseResponse(s string) (Response, error) {
	r := Response(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range displayOrder {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResponse, s)
}

const (
	minEase = 1.3
	maxEase = 5.0
)

type stepRule int

const (
	stepKeep stepRule = iota
	stepReset
	stepAdvance
	stepExhaust // jump past the end of the ladder
)

type intervalRule int

const (
	intervalClear  intervalRule = iota // unschedule
	intervalLadder                     // interval of the rung the card lands on
	intervalEasy                       // fixed easy interval
	intervalScale                      // previous interval * factor (* ease)
)

type floorRule int

const (
	floorNone floorRule = iota
	floorGraduating
	floorMastery
)

// transition describes the outcome of one (status, response) pair.
type transition struct {
	status    models.CardStatus
	step      stepRule
	interval  intervalRule
	factor    float64
	byEase    bool
	floor     floorRule
	promote   bool // becomes mastered once the interval reaches the mastery floor
	easeDelta float64
}

var transitions = map[models.CardStatus]map[Response]transition{
	models.StatusLearning: {
		Again: {status: models.StatusLearning, step: stepReset, interval: intervalClear},
		Hard:  {status: models.StatusLearning, step: stepKeep, interval: intervalLadder},
		Good:  {status: models.StatusLearning, step: stepAdvance, interval: intervalLadder},
		Easy:  {status: models.StatusReview, step: stepExhaust, interval: intervalEasy, easeDelta: 0.15},
	},
	models.StatusReview: {
		Again: {status: models.StatusLearning, step: stepReset, interval: intervalClear, easeDelta: -0.20},
		Hard:  {status: models.StatusReview, step: stepExhaust, interval: intervalScale, factor: 1.2, easeDelta: -0.15},
		Good:  {status: models.StatusReview, step: stepExhaust, interval: intervalScale, factor: 1, byEase: true, promote: true},
		Easy:  {status: models.StatusReview, step: stepExhaust, interval: intervalScale, factor: 1.3, byEase: true, promote: true, easeDelta: 0.15},
	},
	models.StatusMastered: {
		Again: {status: models.StatusLearning, step: stepReset, interval: intervalClear, easeDelta: -0.20},
		Hard:  {status: models.StatusReview, step: stepExhaust, interval: intervalScale, factor: 0.5, floor: floorGraduating, easeDelta: -0.15},
		Good:  {status: models.StatusMastered, step: stepExhaust, interval: intervalScale, factor: 1, byEase: true, floor: floorMastery},
		Easy:  {status: models.StatusMastered, step: stepExhaust, interval: intervalScale, factor: 1.3, byEase: true, floor: floorMastery, easeDelta: 0.15},
	},
}

// Scheduler computes the next scheduling state of a card from a grading
// response. It holds only configuration and is safe for concurrent use.
type Scheduler struct {
	learningSteps      []time.Duration
	graduatingInterval time.Duration
	easyInterval       time.Duration
	masteryInterval    time.Duration
	maximumInterval    time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLearningSteps sets the learning ladder. Non-positive steps are dropped.
func WithLearningSteps(steps ...time.Duration) Option {
	return func(s *Scheduler) {
		ladder := make([]time.Duration, 0, len(steps))
		for _, d := range steps {
			if d > 0 {
				ladder = append(ladder, d)
			}
		}
		s.learningSteps = ladder
	}
}

// WithGraduatingInterval sets the interval given when a card leaves the ladder.
func WithGraduatingInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.graduatingInterval = d
		}
	}
}

// WithEasyInterval sets the interval given when a learning card is graded easy.
func WithEasyInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.easyInterval = d
		}
	}
}

// WithMasteryInterval sets the interval at which review cards become mastered.
func WithMasteryInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.masteryInterval = d
		}
	}
}

// WithMaximumInterval caps every computed interval.
func WithMaximumInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.maximumInterval = d
		}
	}
}

// New creates a Scheduler with the default policy adjusted by opts.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		learningSteps:      []time.Duration{time.Minute, 10 * time.Minute},
		graduatingInterval: 24 * time.Hour,
		easyInterval:       4 * 24 * time.Hour,
		masteryInterval:    21 * 24 * time.Hour,
		maximumInterval:    36500 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScheduler = New()

// Default returns the scheduler with the default policy.
func Default() *Scheduler {
	return defaultScheduler
}

// MaxStep is the largest step value a card can hold.
func (s *Scheduler) MaxStep() int {
	return len(s.learningSteps)
}

// LearningSteps returns a copy of the learning ladder.
func (s *Scheduler) LearningSteps() []time.Duration {
	return append([]time.Duration(nil), s.learningSteps...)
}

// Options lists the responses accepted for a card in the given status.
func (s *Scheduler) Options(status models.CardStatus) []Response {
	table, ok := transitions[status]
	if !ok {
		return nil
	}
	out := make([]Response, 0, len(table))
	for _, r := range displayOrder {
		if _, ok := table[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Grade returns the card with its status, interval, ease and step updated for
// the response. LastReviewed is left for the caller to stamp.
func (s *Scheduler) Grade(card models.Card, r Response) (models.Card, error) {
	table, ok := transitions[card.Status]
	if !ok {
		return card, fmt.Errorf("%w: no options for status %q", ErrInvalidResponse, card.Status)
	}
	t, ok := table[r]
	if !ok {
		return card, fmt.Errorf("%w: %q is not an option for a %s card", ErrInvalidResponse, r, card.Status)
	}

	next := card
	next.Status = t.status
	next.Step = s.nextStep(card.Step, t.step)

	var interval *time.Duration
	switch t.interval {
	case intervalClear:
		interval = nil
	case intervalLadder:
		if next.Step >= len(s.learningSteps) {
			next.Status = models.StatusReview
			next.Step = len(s.learningSteps)
			interval = durationPtr(s.graduatingInterval)
		} else {
			interval = durationPtr(s.learningSteps[next.Step])
		}
	case intervalEasy:
		interval = durationPtr(s.easyInterval)
	case intervalScale:
		interval = durationPtr(s.scale(card, t))
	}
	next.Interval = interval

	if t.promote && interval != nil && *interval >= s.masteryInterval {
		next.Status = models.StatusMastered
	}

	next.Ease = clampEase(card.Ease + t.easeDelta)
	return next, nil
}

func (s *Scheduler) nextStep(step int, rule stepRule) int {
	last := len(s.learningSteps)
	if step < 0 {
		step = 0
	}
	if step > last {
		step = last
	}
	switch rule {
	case stepReset:
		return 0
	case stepAdvance:
		if step+1 > last {
			return last
		}
		return step + 1
	case stepExhaust:
		return last
	}
	return step
}

func (s *Scheduler) scale(card models.Card, t transition) time.Duration {
	base := s.graduatingInterval
	if card.Interval != nil && *card.Interval > 0 {
		base = *card.Interval
	}

	f := float64(base) * t.factor
	if t.byEase {
		f *= clampEase(card.Ease)
	}
	if f > float64(s.maximumInterval) {
		f = float64(s.maximumInterval)
	}
	d := time.Duration(math.Round(f/float64(time.Second))) * time.Second

	switch t.floor {
	case floorGraduating:
		if d < s.graduatingInterval {
			d = s.graduatingInterval
		}
	case floorMastery:
		if d < s.masteryInterval {
			d = s.masteryInterval
		}
	}
	if d > s.maximumInterval {
		d = s.maximumInterval
	}
	return d
}

func clampEase(e float64) float64 {
	if math.IsNaN(e) || e < minEase {
		return minEase
	}
	if e > maxEase {
		return maxEase
	}
	return e
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
