package lunch

// TallyVotes counts each vote category for one recommendation.
func TallyVotes(votes []VoteEntry) Tally {
	var tally Tally
	for _, vote := range votes {
		switch vote.Category {
		case VoteWant:
			tally.Want++
		case VoteUnsure:
			tally.Unsure++
		case VoteWTF:
			tally.WTF++
		}
	}
	return tally
}

// Score ranks a recommendation: two points per "want", minus one per
// "wtf". "unsure" never moves the score.
func Score(tally Tally) int {
	return 2*tally.Want - tally.WTF
}

// winnerIndex picks the recommendation with the highest score. The scan
// replaces the candidate only on a strictly greater score, so ties go to
// the earliest submission. Returns -1 when the round has no entries.
func winnerIndex(recs []RecommendationEntry) int {
	winner := -1
	best := 0
	for i := range recs {
		s := Score(TallyVotes(recs[i].Votes))
		if winner == -1 || s > best {
			winner = i
			best = s
		}
	}
	return winner
}

// VoteBy returns the category the viewer has cast on this
// recommendation, or "" when they have not voted.
func (r RecommendationEntry) VoteBy(viewerID uint) string {
	if viewerID == 0 {
		return ""
	}
	for _, vote := range r.Votes {
		if vote.UserID == viewerID {
			return vote.Category
		}
	}
	return ""
}
