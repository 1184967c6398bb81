package lunch

import "testing"

func votesFor(tally Tally) []VoteEntry {
	var votes []VoteEntry
	id := uint(1)
	for i := 0; i < tally.Want; i++ {
		votes = append(votes, VoteEntry{UserID: id, Category: VoteWant})
		id++
	}
	for i := 0; i < tally.Unsure; i++ {
		votes = append(votes, VoteEntry{UserID: id, Category: VoteUnsure})
		id++
	}
	for i := 0; i < tally.WTF; i++ {
		votes = append(votes, VoteEntry{UserID: id, Category: VoteWTF})
		id++
	}
	return votes
}

func TestTallyVotes(t *testing.T) {
	tally := TallyVotes(votesFor(Tally{Want: 2, Unsure: 3, WTF: 1}))
	if tally.Want != 2 || tally.Unsure != 3 || tally.WTF != 1 {
		t.Fatalf("expected tally {2 3 1}, got %+v", tally)
	}
}

func TestScoreIgnoresUnsure(t *testing.T) {
	base := Score(Tally{Want: 3, WTF: 1})
	withUnsure := Score(Tally{Want: 3, Unsure: 5, WTF: 1})
	if base != 5 {
		t.Fatalf("expected score 5, got %d", base)
	}
	if withUnsure != base {
		t.Fatalf("expected unsure votes not to move the score, got %d vs %d", withUnsure, base)
	}
}

func TestWinnerTieBreakPicksFirstSubmission(t *testing.T) {
	recs := []RecommendationEntry{
		{ID: 1, Votes: votesFor(Tally{Want: 2})},
		{ID: 2, Votes: votesFor(Tally{Want: 2})},
	}
	if idx := winnerIndex(recs); idx != 0 {
		t.Fatalf("expected tie to go to the first submission, got index %d", idx)
	}
}

func TestWinnerIndexPicksHighestScore(t *testing.T) {
	recs := []RecommendationEntry{
		{ID: 1, Votes: votesFor(Tally{Want: 1, WTF: 2})},
		{ID: 2, Votes: votesFor(Tally{Want: 3, WTF: 1})},
		{ID: 3, Votes: votesFor(Tally{Want: 2})},
	}
	if idx := winnerIndex(recs); idx != 1 {
		t.Fatalf("expected index 1 to win with score 5, got %d", idx)
	}
}

func TestWinnerIndexEmptyRound(t *testing.T) {
	if idx := winnerIndex(nil); idx != -1 {
		t.Fatalf("expected -1 for an empty round, got %d", idx)
	}
}

func TestWinnerIndexAllZeroScores(t *testing.T) {
	recs := []RecommendationEntry{
		{ID: 1},
		{ID: 2, Votes: votesFor(Tally{Unsure: 4})},
	}
	if idx := winnerIndex(recs); idx != 0 {
		t.Fatalf("expected first submission to win an all-zero round, got %d", idx)
	}
}

func TestViewerVote(t *testing.T) {
	rec := RecommendationEntry{Votes: []VoteEntry{
		{UserID: 7, Category: VoteWant},
		{UserID: 8, Category: VoteWTF},
	}}
	if got := rec.VoteBy(8); got != VoteWTF {
		t.Fatalf("expected wtf, got %q", got)
	}
	if got := rec.VoteBy(9); got != "" {
		t.Fatalf("expected no vote for user 9, got %q", got)
	}
	if got := rec.VoteBy(0); got != "" {
		t.Fatalf("expected anonymous viewer to have no vote, got %q", got)
	}
}
