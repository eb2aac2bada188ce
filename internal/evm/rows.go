package evm

import lo "github.com/samber/lo"

// BuildRows derives one CostRow per qualifying work item. Items whose
// type is outside subtaskTypes and duplicate keys (the same item listed
// through overlapping sprint windows) are silently dropped.
func BuildRows(items []WorkItem, rates RateTable, subtaskTypes []string) []CostRow {
	if subtaskTypes == nil {
		subtaskTypes = SubtaskTypes
	}
	allowed := lo.SliceToMap(subtaskTypes, func(s string) (string, struct{}) { return s, struct{}{} })

	rows := make([]CostRow, 0, len(items))
	seen := map[string]struct{}{}
	for _, item := range items {
		if _, dup := seen[item.Key]; dup {
			continue
		}
		if _, ok := allowed[item.Type]; !ok {
			continue
		}
		seen[item.Key] = struct{}{}

		rate := rates.Rate(item.Role)
		pv := secondsToHours(item.EstimateSeconds) * rate
		ev := 0.0
		if item.Done {
			ev = pv
		}
		rows = append(rows, CostRow{
			PV: pv,
			EV: ev,
			AC: secondsToHours(item.SpentSeconds) * rate,
		})
	}
	return rows
}

func secondsToHours(seconds int64) float64 {
	return float64(seconds) / 3600.0
}
