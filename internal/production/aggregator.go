package production

// TotalWorkUnits суммирует уже посчитанные результаты; дубликаты не отбрасываются.
func TotalWorkUnits(results []WorkUnitResult) float64 {
	var total float64
	for _, r := range results {
		total += r.WorkUnits
	}
	return total
}

// TotalForEntries считает каждую смену на лету и суммирует.
func (c *Calculator) TotalForEntries(entries []ShiftEntry) float64 {
	var total float64
	for _, e := range entries {
		total += c.Calculate(e).WorkUnits
	}
	return total
}
