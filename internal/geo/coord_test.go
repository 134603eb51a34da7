package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKnownPairs(t *testing.T) {
	london := Coord{Lat: 51.5074, Lon: -0.1278}
	paris := Coord{Lat: 48.8566, Lon: 2.3522}
	tokyo := Coord{Lat: 35.6762, Lon: 139.6503}

	assert.InDelta(t, 344, Distance(london, paris), 5)
	assert.InDelta(t, 9560, Distance(london, tokyo), 50)
}

func TestDistanceOneDegreeAtEquator(t *testing.T) {
	a := Coord{Lat: 0, Lon: 0}
	b := Coord{Lat: 0, Lon: 1}
	assert.InDelta(t, 111.19, Distance(a, b), 0.1)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Coord{Lat: -33.4489, Lon: -70.6693}
	b := Coord{Lat: 55.7558, Lon: 37.6173}
	assert.Equal(t, Distance(a, b), Distance(b, a))
}

func TestDistanceZero(t *testing.T) {
	c := Coord{Lat: 12.34, Lon: 56.78}
	assert.Equal(t, 0.0, Distance(c, c))
}
