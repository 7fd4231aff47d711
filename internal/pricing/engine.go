package pricing

// Base toll by NETC vehicle class code. The table is fixed tariff data, not
// configuration.
var basePrices = map[string]float64{
	"VC4":  50,
	"VC5":  60,
	"VC7":  75,
	"VC9":  90,
	"VC10": 110,
	"VC11": 130,
	"VC12": 150,
	"VC13": 170,
	"VC20": 200,
}

// fallbackBasePrice is the lowest tariff tier, charged for vehicle classes
// missing from the table.
const fallbackBasePrice = 50

// BasePrice looks up the base toll for a vehicle class.
func BasePrice(vehicleClass string) float64 {
	if p, ok := basePrices[vehicleClass]; ok {
		return p
	}
	return fallbackBasePrice
}

// VehicleClasses returns the known class codes in ascending tariff order.
func VehicleClasses() []string {
	return []string{"VC4", "VC5", "VC7", "VC9", "VC10", "VC11", "VC12", "VC13", "VC20"}
}

// Price applies the congestion pricing rules to a base toll. Rules are
// evaluated in order, first match wins:
//
//	level 5        -> free, to drain peak congestion
//	level 3 or 4   -> base * surge
//	level 1 or 2   -> base
//
// The function is pure; identical inputs always produce identical quotes.
func Price(basePrice float64, trafficLevel int, surgeMultiplier float64) float64 {
	switch {
	case trafficLevel == 5:
		return 0
	case trafficLevel >= 3:
		return basePrice * surgeMultiplier
	default:
		return basePrice
	}
}
