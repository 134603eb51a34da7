// Package scenario provides the built-in capital table and YAML scenario
// loading.
package scenario

import "github.com/avelinek/tradewinds/internal/world"

// DefaultCapitals returns the built-in capital table used when no scenario
// file is given.
func DefaultCapitals() []world.CapitalRow {
	return []world.CapitalRow{
		{Country: "United Kingdom", Capital: "London", Lat: 51.5074, Lon: -0.1278},
		{Country: "France", Capital: "Paris", Lat: 48.8566, Lon: 2.3522},
		{Country: "Germany", Capital: "Berlin", Lat: 52.5200, Lon: 13.4050},
		{Country: "Spain", Capital: "Madrid", Lat: 40.4168, Lon: -3.7038},
		{Country: "Italy", Capital: "Rome", Lat: 41.9028, Lon: 12.4964},
		{Country: "Austria", Capital: "Vienna", Lat: 48.2082, Lon: 16.3738},
		{Country: "Poland", Capital: "Warsaw", Lat: 52.2297, Lon: 21.0122},
		{Country: "Greece", Capital: "Athens", Lat: 37.9838, Lon: 23.7275},
		{Country: "Sweden", Capital: "Stockholm", Lat: 59.3293, Lon: 18.0686},
		{Country: "Portugal", Capital: "Lisbon", Lat: 38.7223, Lon: -9.1393},
		{Country: "Russia", Capital: "Moscow", Lat: 55.7558, Lon: 37.6173},
		{Country: "Turkey", Capital: "Ankara", Lat: 39.9334, Lon: 32.8597},
		{Country: "Egypt", Capital: "Cairo", Lat: 30.0444, Lon: 31.2357},
		{Country: "Kenya", Capital: "Nairobi", Lat: -1.2921, Lon: 36.8219},
		{Country: "Nigeria", Capital: "Abuja", Lat: 9.0765, Lon: 7.3986},
		{Country: "South Africa", Capital: "Pretoria", Lat: -25.7479, Lon: 28.2293},
		{Country: "India", Capital: "New Delhi", Lat: 28.6139, Lon: 77.2090},
		{Country: "China", Capital: "Beijing", Lat: 39.9042, Lon: 116.4074},
		{Country: "Japan", Capital: "Tokyo", Lat: 35.6762, Lon: 139.6503},
		{Country: "South Korea", Capital: "Seoul", Lat: 37.5665, Lon: 126.9780},
		{Country: "Thailand", Capital: "Bangkok", Lat: 13.7563, Lon: 100.5018},
		{Country: "Indonesia", Capital: "Jakarta", Lat: -6.2088, Lon: 106.8456},
		{Country: "United States", Capital: "Washington", Lat: 38.9072, Lon: -77.0369},
		{Country: "Canada", Capital: "Ottawa", Lat: 45.4215, Lon: -75.6972},
		{Country: "Mexico", Capital: "Mexico City", Lat: 19.4326, Lon: -99.1332},
		{Country: "Brazil", Capital: "Brasília", Lat: -15.7939, Lon: -47.8828},
		{Country: "Argentina", Capital: "Buenos Aires", Lat: -34.6037, Lon: -58.3816},
		{Country: "Peru", Capital: "Lima", Lat: -12.0464, Lon: -77.0428},
		{Country: "Australia", Capital: "Canberra", Lat: -35.2809, Lon: 149.1300},
		{Country: "New Zealand", Capital: "Wellington", Lat: -41.2866, Lon: 174.7756},
	}
}
