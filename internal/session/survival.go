package session

import (
	"time"

	"github.com/abhisek/stackprep/internal/bank"
)

// FeedbackDelay is how long a correct survival answer is shown before the
// streak grows and the next question appears.
const FeedbackDelay = 800 * time.Millisecond

// SurvivalPhase is the phase of a survival run.
type SurvivalPhase int

const (
	SurvivalPlaying  SurvivalPhase = iota // Waiting for an answer
	SurvivalFeedback                      // Correct answer shown, next question pending
	SurvivalOver                          // Wrong answer, run ended
)

// Survival is a streak run: questions cycle until the first wrong answer.
type Survival struct {
	order    []*bank.Question
	pos      int
	streak   int
	best     int
	phase    SurvivalPhase
	selected string
	shuffle  Shuffler
	gen      uint64
}

// NewSurvival starts a run over a shuffled copy of questions.
func NewSurvival(questions []*bank.Question, shuffle Shuffler) *Survival {
	if shuffle == nil {
		shuffle = bank.ShuffleQuestions
	}
	s := &Survival{shuffle: shuffle}
	s.order = shuffle(questions)
	return s
}

// Current returns the question on screen, nil when there are none.
func (s *Survival) Current() *bank.Question {
	if len(s.order) == 0 {
		return nil
	}
	return s.order[s.pos]
}

// Len returns the number of questions in the rotation.
func (s *Survival) Len() int { return len(s.order) }

// Streak returns the correct answers in a row in the current run.
func (s *Survival) Streak() int { return s.streak }

// Best returns the longest streak seen, carried across restarts.
func (s *Survival) Best() int { return s.best }

// Phase returns the run phase.
func (s *Survival) Phase() SurvivalPhase { return s.phase }

// Selected returns the key answered for the current question, if any.
func (s *Survival) Selected() string { return s.selected }

// Generation changes when a run ends or restarts. Feedback messages
// carrying an older value are stale.
func (s *Survival) Generation() uint64 { return s.gen }

// GameOver reports whether a wrong answer ended the run.
func (s *Survival) GameOver() bool { return s.phase == SurvivalOver }

// Answer submits key. It reports whether the answer was correct and false
// for ok when the answer was ignored (feedback pending, game over, no
// question or not an option).
func (s *Survival) Answer(key string) (correct, ok bool) {
	q := s.Current()
	if q == nil || s.phase != SurvivalPlaying {
		return false, false
	}
	if _, exists := q.Options[key]; !exists {
		return false, false
	}
	s.selected = key
	if q.IsCorrect(key) {
		s.phase = SurvivalFeedback
		return true, true
	}
	s.phase = SurvivalOver
	s.gen++
	return false, true
}

// Continue ends the feedback pause of generation gen: the streak grows and
// the next question comes up, wrapping around at the end.
func (s *Survival) Continue(gen uint64) bool {
	if gen != s.gen || s.phase != SurvivalFeedback {
		return false
	}
	s.streak++
	if s.streak > s.best {
		s.best = s.streak
	}
	s.pos = (s.pos + 1) % len(s.order)
	s.selected = ""
	s.phase = SurvivalPlaying
	return true
}

// Restart reshuffles and resets the streak. The best streak is kept.
func (s *Survival) Restart() {
	s.order = s.shuffle(s.order)
	s.pos = 0
	s.streak = 0
	s.selected = ""
	s.phase = SurvivalPlaying
	s.gen++
}
