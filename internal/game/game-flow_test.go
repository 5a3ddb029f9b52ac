package game

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/scythe504/bluffr-backend/internal"
)

func submitLies(t *testing.T, h *harness, code string, lies map[string]string, order ...string) {
	t.Helper()
	for _, conn := range order {
		if err := h.m.SubmitLie(conn, code, lies[conn]); err != nil {
			t.Fatalf("SubmitLie(%s): %v", conn, err)
		}
	}
}

func TestFullRoundScoring(t *testing.T) {
	h := newHarness(t)
	code := h.started(t, "A", "B", "C", "D")

	submitLies(t, h, code, map[string]string{
		"A": "wallet", "B": "pizza", "C": "bailar", "D": "passport",
	}, "A", "B", "C", "D")

	progress := h.rec.all(internal.EventLiesProgress)
	if len(progress) != 4 {
		t.Fatalf("lies_progress events = %d, want 4", len(progress))
	}
	for i, p := range progress {
		data := p.Event.Data.(internal.LiesProgressData)
		if p.Conn != "host" || p.Room != "" || data.Submitted != i+1 || data.Total != 4 {
			t.Fatalf("lies_progress[%d] = %+v", i, p)
		}
	}

	voting := h.rec.last(t, internal.EventVotingStarted).Event.Data.(internal.VotingStartedData)
	wantAnswers := []string{"wallet", "pizza", "bailar", "passport", "phone charger"}
	if voting.Phase != internal.PhaseVoting || !slices.Equal(voting.Answers, wantAnswers) {
		t.Fatalf("voting_started = %+v", voting)
	}
	if got := h.rec.lastRemaining(); got != internal.VotingSeconds {
		t.Fatalf("vote countdown started at %d, want %d", got, internal.VotingSeconds)
	}

	votes := map[string]string{"A": "phone charger", "B": "bailar", "C": "pizza", "D": "phone charger"}
	for _, conn := range []string{"A", "B", "C", "D"} {
		if err := h.m.SubmitVote(conn, code, votes[conn]); err != nil {
			t.Fatalf("SubmitVote(%s): %v", conn, err)
		}
	}
	if n := h.rec.count(internal.EventVotesProgress); n != 4 {
		t.Fatalf("votes_progress events = %d, want 4", n)
	}

	results := h.rec.last(t, internal.EventResultsReady).Event.Data.(internal.ResultsReadyData)
	if results.Phase != internal.PhaseResults || results.CorrectAnswer != "phone charger" {
		t.Fatalf("results_ready = %+v", results)
	}

	scores := make(map[string]int)
	for _, p := range results.CurrentScores {
		scores[p.Nickname] = p.Score
	}
	want := map[string]int{"A": 1000, "B": 500, "C": 500, "D": 1000}
	for nick, score := range want {
		if scores[nick] != score {
			t.Errorf("score[%s] = %d, want %d", nick, scores[nick], score)
		}
	}
	gotOrder := make([]string, 0, len(results.CurrentScores))
	for _, p := range results.CurrentScores {
		gotOrder = append(gotOrder, p.Nickname)
	}
	if !slices.Equal(gotOrder, []string{"A", "D", "B", "C"}) {
		t.Fatalf("currentScores order = %v", gotOrder)
	}

	for _, r := range results.AnswerResults {
		switch r.Answer {
		case "phone charger":
			if !r.IsCorrect || r.Votes != 2 || r.Author != nil {
				t.Errorf("truth result = %+v", r)
			}
		case "pizza":
			if r.IsCorrect || r.Votes != 1 || r.Author == nil || *r.Author != "B" {
				t.Errorf("pizza result = %+v", r)
			}
		case "wallet":
			if r.Votes != 0 || r.Author == nil || *r.Author != "A" {
				t.Errorf("wallet result = %+v", r)
			}
		}
	}
}

func TestSubmitLieValidation(t *testing.T) {
	h := newHarness(t)
	code := h.started(t, "A", "B", "C")

	if err := h.m.SubmitLie("A", code, "  pizza  "); err != nil {
		t.Fatalf("SubmitLie: %v", err)
	}

	tests := []struct {
		name    string
		conn    string
		lie     string
		wantErr error
	}{
		{name: "empty after trim", conn: "B", lie: "   ", wantErr: ErrEmptyLie},
		{name: "equals truth", conn: "B", lie: "Phone Charger", wantErr: ErrDuplicateLie},
		{name: "equals another lie", conn: "B", lie: "PIZZA", wantErr: ErrDuplicateLie},
		{name: "not a player", conn: "host", lie: "sushi", wantErr: ErrNotAPlayer},
		{name: "unknown room", conn: "B", lie: "sushi", wantErr: ErrRoomNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := code
			if tt.wantErr == ErrRoomNotFound {
				room = "0000"
			}
			if err := h.m.SubmitLie(tt.conn, room, tt.lie); !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitLie = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Resubmitting replaces, and a player may repeat their own lie.
	if err := h.m.SubmitLie("A", code, "pizza"); err != nil {
		t.Fatalf("resubmit same lie: %v", err)
	}
	if err := h.m.SubmitLie("A", code, "sushi"); err != nil {
		t.Fatalf("resubmit new lie: %v", err)
	}
	room, _ := h.m.store.Get(code)
	if v, _ := room.CurrentLies.Get("A"); v != "sushi" || room.CurrentLies.Len() != 1 {
		t.Fatalf("lies = %v", room.CurrentLies.Entries())
	}
	if err := h.m.SubmitLie("B", code, "pizza"); err != nil {
		t.Fatalf("freed lie rejected: %v", err)
	}

	if err := h.m.SubmitVote("A", code, "sushi"); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("SubmitVote in submit_lies = %v, want ErrInvalidPhase", err)
	}
}

func TestSubmitVoteValidation(t *testing.T) {
	h := newHarness(t)
	code := h.started(t, "A", "B")
	submitLies(t, h, code, map[string]string{"A": "wallet", "B": "pizza"}, "A", "B")

	if err := h.m.SubmitLie("A", code, "late"); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("SubmitLie in voting = %v, want ErrInvalidPhase", err)
	}
	if err := h.m.SubmitVote("A", code, "not offered"); !errors.Is(err, ErrUnknownAnswer) {
		t.Fatalf("SubmitVote unknown = %v, want ErrUnknownAnswer", err)
	}
	if err := h.m.SubmitVote("host", code, "pizza"); !errors.Is(err, ErrNotAPlayer) {
		t.Fatalf("SubmitVote by host = %v, want ErrNotAPlayer", err)
	}

	if err := h.m.SubmitVote("A", code, "pizza"); err != nil {
		t.Fatal(err)
	}
	if err := h.m.SubmitVote("A", code, "phone charger"); err != nil {
		t.Fatalf("revote: %v", err)
	}
	if h.phase(t, code) != internal.PhaseVoting {
		t.Fatal("revote counted as a second voter")
	}
	if err := h.m.SubmitVote("B", code, "wallet"); err != nil {
		t.Fatal(err)
	}

	results := h.rec.last(t, internal.EventResultsReady).Event.Data.(internal.ResultsReadyData)
	scores := map[string]int{}
	for _, p := range results.CurrentScores {
		scores[p.Nickname] = p.Score
	}
	if scores["A"] != 1500 || scores["B"] != 0 {
		t.Fatalf("scores = %v, want A=1500 B=0", scores)
	}
}

func TestTimersDriveTheRound(t *testing.T) {
	h := newHarness(t)
	code := h.started(t, "A", "B")

	if err := h.m.SubmitLie("A", code, "wallet"); err != nil {
		t.Fatal(err)
	}
	h.runDown(t, internal.LieSubmissionSeconds)

	waitFor(t, "voting", func() bool { return h.rec.count(internal.EventVotingStarted) == 1 })
	voting := h.rec.last(t, internal.EventVotingStarted).Event.Data.(internal.VotingStartedData)
	if !slices.Equal(voting.Answers, []string{"wallet", "phone charger"}) {
		t.Fatalf("answers = %v", voting.Answers)
	}

	ticks := h.rec.all(internal.EventTimerUpdate)
	if len(ticks) != internal.LieSubmissionSeconds+2 {
		t.Fatalf("timer_update count = %d, want %d", len(ticks), internal.LieSubmissionSeconds+2)
	}
	for i := 0; i <= internal.LieSubmissionSeconds; i++ {
		if got := ticks[i].Event.Data.(internal.TimerUpdateData).Remaining; got != internal.LieSubmissionSeconds-i {
			t.Fatalf("tick %d remaining = %d", i, got)
		}
	}

	if err := h.m.SubmitVote("B", code, "wallet"); err != nil {
		t.Fatal(err)
	}
	h.runDown(t, internal.VotingSeconds)
	waitFor(t, "results", func() bool { return h.rec.count(internal.EventResultsReady) == 1 })

	results := h.rec.last(t, internal.EventResultsReady).Event.Data.(internal.ResultsReadyData)
	if results.CurrentScores[0].Nickname != "A" || results.CurrentScores[0].Score != 500 {
		t.Fatalf("currentScores = %+v", results.CurrentScores)
	}

	// No countdown runs on the results screen.
	before := len(h.rec.all(internal.EventTimerUpdate))
	h.clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if after := len(h.rec.all(internal.EventTimerUpdate)); after != before {
		t.Fatalf("timer kept ticking in results: %d -> %d", before, after)
	}
}

func TestEarlyAdvanceCancelsCountdown(t *testing.T) {
	h := newHarness(t)
	code := h.started(t, "A")

	if err := h.m.SubmitLie("A", code, "wallet"); err != nil {
		t.Fatal(err)
	}
	if h.phase(t, code) != internal.PhaseVoting {
		t.Fatal("single player submitting did not advance to voting")
	}

	// Only the vote countdown may tick from here on.
	h.clock.Advance(time.Second)
	waitFor(t, "vote tick", func() bool { return h.rec.lastRemaining() == internal.VotingSeconds-1 })
	time.Sleep(20 * time.Millisecond)

	if n := h.rec.count(internal.EventVotingStarted); n != 1 {
		t.Fatalf("voting_started = %d, want 1", n)
	}
	ticks := h.rec.all(internal.EventTimerUpdate)
	last := ticks[len(ticks)-2:]
	if last[0].Event.Data.(internal.TimerUpdateData).Remaining != internal.VotingSeconds {
		t.Fatalf("unexpected ticks %+v", last)
	}
}

func TestConcurrentSubmissionsAdvanceOnce(t *testing.T) {
	h := newHarness(t)
	players := []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"}
	code := h.started(t, players...)

	var wg sync.WaitGroup
	for i, p := range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.m.SubmitLie(p, code, "lie-"+string(rune('a'+i))); err != nil {
				t.Errorf("SubmitLie(%s): %v", p, err)
			}
		}()
	}
	wg.Wait()

	if n := h.rec.count(internal.EventVotingStarted); n != 1 {
		t.Fatalf("voting_started = %d, want exactly 1", n)
	}
	answers := h.rec.last(t, internal.EventVotingStarted).Event.Data.(internal.VotingStartedData).Answers
	if len(answers) != len(players)+1 {
		t.Fatalf("answers = %v", answers)
	}

	for _, p := range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.m.SubmitVote(p, code, "phone charger"); err != nil {
				t.Errorf("SubmitVote(%s): %v", p, err)
			}
		}()
	}
	wg.Wait()

	if n := h.rec.count(internal.EventResultsReady); n != 1 {
		t.Fatalf("results_ready = %d, want exactly 1", n)
	}
}

func TestNextQuestionAndPodium(t *testing.T) {
	h := newHarness(t)
	code := h.started(t, "A", "B")

	if _, err := h.m.NextQuestion("host", code); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("NextQuestion in submit_lies = %v, want ErrInvalidPhase", err)
	}

	submitLies(t, h, code, map[string]string{"A": "wallet", "B": "keys"}, "A", "B")
	for conn, vote := range map[string]string{"A": "keys", "B": "phone charger"} {
		if err := h.m.SubmitVote(conn, code, vote); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := h.m.NextQuestion("A", code); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("NextQuestion by player = %v, want ErrUnauthorized", err)
	}
	gameOver, err := h.m.NextQuestion("host", code)
	if err != nil || gameOver {
		t.Fatalf("NextQuestion = %v, %v; want false, nil", gameOver, err)
	}

	next := h.rec.last(t, internal.EventNextQuestionStarted).Event.Data.(internal.QuestionStartedData)
	if next.QuestionNumber != 2 || next.Question.ID != 2 || next.Phase != internal.PhaseSubmitLies {
		t.Fatalf("next_question_started = %+v", next)
	}
	room, _ := h.m.store.Get(code)
	room.Mu.Lock()
	if room.CurrentLies.Len() != 0 || room.CurrentVotes.Len() != 0 || room.Round != nil {
		t.Error("round state not cleared for the new question")
	}
	room.Mu.Unlock()

	submitLies(t, h, code, map[string]string{"A": "ham", "B": "olives"}, "A", "B")
	for conn, vote := range map[string]string{"A": "pineapple", "B": "pineapple"} {
		if err := h.m.SubmitVote(conn, code, vote); err != nil {
			t.Fatal(err)
		}
	}

	gameOver, err = h.m.NextQuestion("host", code)
	if err != nil || !gameOver {
		t.Fatalf("final NextQuestion = %v, %v; want true, nil", gameOver, err)
	}

	podium := h.rec.last(t, internal.EventFinalPodium).Event.Data.(internal.FinalPodiumData)
	if podium.Phase != internal.PhaseFinalPodium || len(podium.FinalScores) != 2 {
		t.Fatalf("final_podium = %+v", podium)
	}
	// A: 1000; B: 500 (keys fooled A) + 1000 + 1000.
	if podium.FinalScores[0].Nickname != "B" || podium.FinalScores[0].Score != 2500 ||
		podium.FinalScores[1].Nickname != "A" || podium.FinalScores[1].Score != 1000 {
		t.Fatalf("finalScores = %+v", podium.FinalScores)
	}

	if _, err := h.m.NextQuestion("host", code); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("NextQuestion after podium = %v, want ErrInvalidPhase", err)
	}
}
