// Package units converts between troy ounces and grams for precious-metal
// pricing.
package units

// GramsPerOunce is the number of grams in one troy ounce.
const GramsPerOunce = 31.1035

// OunceToGram converts a per-ounce price to a per-gram price.
func OunceToGram(pricePerOunce float64) float64 {
	return pricePerOunce / GramsPerOunce
}

// GramToOunce converts a per-gram price to a per-ounce price.
func GramToOunce(pricePerGram float64) float64 {
	return pricePerGram * GramsPerOunce
}
