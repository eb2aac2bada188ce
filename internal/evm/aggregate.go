package evm

import "math"

// Aggregate computes a full metric snapshot over a set of cost rows.
// elapsedDays is an explicit input so callers can express either the
// project-start-to-today mode or the per-sprint re-based mode.
//
// Every ratio with a zero denominator is defined as zero: CPI, SPI and
// BurnRate directly, and the (BAC-EV)/CPI term of EAC as well as
// plannedDays/SPI for TEAC. A project with nothing earned therefore
// reports EAC = AC and TEAC = 0 rather than failing.
func Aggregate(rows []CostRow, bac float64, plannedDays int, elapsedDays float64) Metrics {
	var pv, ev, ac float64
	for _, r := range rows {
		pv += r.PV
		ev += r.EV
		ac += r.AC
	}

	cpi := safeDiv(ev, ac)
	spi := safeDiv(ev, pv)
	eac := ac + safeDiv(bac-ev, cpi)

	return Metrics{
		PV:       pv,
		EV:       ev,
		AC:       ac,
		CPI:      cpi,
		SPI:      spi,
		EAC:      eac,
		ETC:      eac - ac,
		TEAC:     safeDiv(float64(plannedDays), spi),
		BurnRate: safeDiv(ac, elapsedDays),
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Round2 rounds a monetary or index value for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
