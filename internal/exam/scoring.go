package exam

// PassThresholdPercent is the minimum pass rate for an on-time manual
// submission. A time-expired finalize fails regardless of the raw score.
const PassThresholdPercent = 85.0

// CorrectCount counts answered questions whose chosen canonical position
// matches the question's correct position. A nil chosen never counts.
func CorrectCount(questions []ShuffledQuestion, details []AnswerDetail) int {
	n := 0
	for i, q := range questions {
		if i >= len(details) {
			break
		}
		if c := details[i].Chosen; c != nil && *c == q.Correct {
			n++
		}
	}
	return n
}

// Verdict maps a completed answer set to its terminal status. Lateness
// disqualifies: ReasonTimeExpired fails even at 100% correct.
func Verdict(correct, total int, reason FinalizeReason) Status {
	if reason == ReasonTimeExpired {
		return StatusFailed
	}
	if total <= 0 {
		return StatusFailed
	}
	passRate := float64(correct) / float64(total) * 100
	if passRate >= PassThresholdPercent {
		return StatusPassed
	}
	return StatusFailed
}
