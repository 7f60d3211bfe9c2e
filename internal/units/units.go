// Package units provides conversions between the distance units that show
// up in OpenAir airspace data: feet, meters, nautical miles, statute miles
// and kilometers.
package units

// Conversion factors
const (
	METERS_PER_NM   = 1852.0   // Meters per nautical mile
	METERS_PER_FOOT = 0.3048   // Meters per foot
	METERS_PER_SM   = 1609.344 // Meters per statute mile
	METERS_PER_KM   = 1000.0   // Meters per kilometer
)

// FeetToMeters converts feet to meters
func FeetToMeters(feet float64) float64 {
	return feet * METERS_PER_FOOT
}

// MetersToFeet converts meters to feet
func MetersToFeet(meters float64) float64 {
	return meters / METERS_PER_FOOT
}

// NMToMeters converts nautical miles to meters
func NMToMeters(nm float64) float64 {
	return nm * METERS_PER_NM
}

// MetersToNM converts meters to nautical miles
func MetersToNM(meters float64) float64 {
	return meters / METERS_PER_NM
}

// StatuteMilesToMeters converts statute miles to meters
func StatuteMilesToMeters(miles float64) float64 {
	return miles * METERS_PER_SM
}

// MetersToStatuteMiles converts meters to statute miles
func MetersToStatuteMiles(meters float64) float64 {
	return meters / METERS_PER_SM
}

// KilometersToMeters converts kilometers to meters
func KilometersToMeters(km float64) float64 {
	return km * METERS_PER_KM
}

// MetersToKilometers converts meters to kilometers
func MetersToKilometers(meters float64) float64 {
	return meters / METERS_PER_KM
}
