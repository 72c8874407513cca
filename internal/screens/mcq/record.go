package mcq

import (
	"context"
	"time"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/report"
	sess "github.com/abhisek/stackprep/internal/session"
	"github.com/abhisek/stackprep/internal/store"
)

// snapshotKeep is how many preference snapshots survive a prune.
const snapshotKeep = 20

// History writes never block the session; failures are logged.

func (s *Screen) recordStart() {
	if s.started {
		return
	}
	s.started = true
	cur := s.Session()
	if s.events == nil || cur.Len() == 0 {
		return
	}
	err := s.events.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID: cur.ID(),
		Action:    store.ActionStart,
		Mode:      "mcqs",
		TimerMode: cur.Mode().String(),
		Questions: cur.Len(),
	})
	if err != nil {
		s.logger.Warn("record session start", "session", cur.ID(), "err", err)
	}
}

func (s *Screen) record(q *bank.Question, status sess.Status, key string) {
	if s.recorded[q.ID] {
		return
	}
	s.recorded[q.ID] = true
	if s.events == nil {
		return
	}
	err := s.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:   s.Session().ID(),
		QuestionID:  q.ID,
		Stack:       bank.CanonicalStack(q.Stack),
		Topic:       q.Topic,
		Difficulty:  string(q.Difficulty),
		SelectedKey: key,
		Status:      status.String(),
		TimeMs:      s.answerMs[q.ID],
	})
	if err != nil {
		s.logger.Warn("record answer", "question", q.ID, "err", err)
	}
}

// recordEnd writes the skipped questions the player never answered and
// the session end event.
func (s *Screen) recordEnd() {
	cur := s.Session()
	for _, q := range cur.Questions() {
		if e, ok := cur.Ledger().Get(q.ID); ok && e.Status == sess.StatusSkipped {
			s.record(q, e.Status, "")
		}
	}
	if s.events == nil {
		return
	}

	r := report.Build(cur.Ledger(), cur.Questions(), s.practice.Filter().TechStacks)
	tally := cur.Tally()
	err := s.events.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:    cur.ID(),
		Action:       store.ActionEnd,
		Mode:         "mcqs",
		TimerMode:    cur.Mode().String(),
		Questions:    cur.Len(),
		Correct:      tally.Correct,
		Incorrect:    tally.Incorrect,
		Skipped:      tally.Skipped,
		Score:        r.Overall().Score,
		DurationSecs: int(cur.Elapsed().Seconds()),
		Stacks:       stackScores(r),
	})
	if err != nil {
		s.logger.Warn("record session end", "session", cur.ID(), "err", err)
	}
}

// saveSnapshot keeps the practice setup for the next launch.
func (s *Screen) saveSnapshot(ctx context.Context) {
	if s.snaps == nil {
		return
	}
	data := store.SnapshotData{Version: 1}
	if prev, err := s.snaps.Latest(ctx); err == nil && prev != nil {
		data = prev.Data
	}
	f := s.practice.Filter()
	data.Mode = "mcqs"
	data.TimerMode = s.practice.Mode().String()
	data.Difficulties = f.Difficulties
	data.TechStacks = f.TechStacks
	data.Topics = f.Topics

	if err := s.snaps.Save(ctx, &store.Snapshot{Timestamp: time.Now(), Data: data}); err != nil {
		s.logger.Warn("save snapshot", "err", err)
		return
	}
	if err := s.snaps.Prune(ctx, snapshotKeep); err != nil {
		s.logger.Warn("prune snapshots", "err", err)
	}
}

func stackScores(r report.Report) []store.StackScore {
	out := make([]store.StackScore, 0, len(r.Stacks))
	for _, sr := range r.Stacks {
		sc := store.StackScore{
			Stack:     sr.Stack,
			Total:     sr.Total,
			Attempted: sr.Attempted,
			Correct:   sr.Correct,
			Score:     sr.Score,
		}
		for _, t := range sr.Strongest {
			sc.Strongest = append(sc.Strongest, t.Topic)
		}
		for _, t := range sr.Weakest {
			sc.Weakest = append(sc.Weakest, t.Topic)
		}
		out = append(out, sc)
	}
	return out
}
