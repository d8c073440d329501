package tracker

// ComputeStreaks derives the completion count, the trailing run of done days
// and the longest run of done days anywhere in the sequence.
func ComputeStreaks(days []Day) (total, current, runBest int) {
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i].Done {
			break
		}
		current++
	}

	run := 0
	for _, d := range days {
		if !d.Done {
			run = 0
			continue
		}
		total++
		run++
		if run > runBest {
			runBest = run
		}
	}
	return total, current, runBest
}
