package demand

// RegionalDemand tallies how many of the given jobs require each skill and
// converts the count to a percentage of len(jobs). Each element of jobs is the
// required skill list of one nearby recent job.
func RegionalDemand(jobs [][]string) map[string]float64 {
	out := map[string]float64{}
	if len(jobs) == 0 {
		return out
	}

	freq := map[string]int{}
	for _, skills := range jobs {
		seen := make(map[string]struct{}, len(skills))
		for _, s := range skills {
			if s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			freq[s]++
		}
	}

	total := float64(len(jobs))
	for name, n := range freq {
		out[name] = float64(n) / total * 100
	}
	return out
}
