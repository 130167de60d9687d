// Package generator produces synthetic farm data: weather-station
// readings with realistic daily and seasonal behavior, and demo
// records for every entity kind.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Station is a synthetic weather station attached to one farm.
type Station struct {
	StationID string  `fake:"{uuid}"`
	Firmware  string  `fake:"{appversion}"`
	Latitude  float64 `fake:"{latitude}"`
	Longitude float64 `fake:"{longitude}"`
	FarmID    string
}

// StationReading is the wire format a station publishes to the queue.
type StationReading struct {
	StationID   string    `json:"station_id"`
	FarmID      string    `json:"farm_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Rainfall    float64   `json:"rainfall"`
	WindSpeed   float64   `json:"wind_speed"`
}

// NewStation fabricates a station for the given farm.
func NewStation(farmID string) *Station {
	var station Station
	if err := gofakeit.Struct(&station); err != nil {
		return nil
	}
	station.FarmID = farmID
	return &station
}

// WeatherGenerator produces correlated readings for one station.
// Temperature follows a daily and a seasonal cycle, humidity is
// inversely correlated with temperature, rainfall spikes push
// humidity up, and wind gusts occasionally.
type WeatherGenerator struct {
	station          *Station
	baselineTemp     float64
	baselineHumidity float64
	baselineWind     float64
	noise            float64
	rainSpell        int // readings of rain left in the current spell
}

// NewWeatherGenerator seeds per-station baselines.
func NewWeatherGenerator(station *Station) *WeatherGenerator {
	return &WeatherGenerator{
		station:          station,
		baselineTemp:     14.0 + rand.Float64()*10, // 14-24 C
		baselineHumidity: 50.0 + rand.Float64()*20, // 50-70%
		baselineWind:     5.0 + rand.Float64()*10,  // 5-15 km/h
		noise:            rand.Float64() * 2,
	}
}

// Temperature with daily (peak mid-afternoon) and seasonal cycles.
func (g *WeatherGenerator) Temperature(t time.Time) float64 {
	hour := float64(t.Hour())
	dailyCycle := 5 * math.Sin((hour-6)*math.Pi/12)

	dayOfYear := float64(t.YearDay())
	seasonalCycle := 8 * math.Sin((dayOfYear-80)*2*math.Pi/365)

	noise := (rand.Float64() - 0.5) * g.noise

	return g.baselineTemp + dailyCycle + seasonalCycle + noise
}

// Humidity with inverse temperature correlation, clamped to 20-100%.
func (g *WeatherGenerator) Humidity(t time.Time, temperature, rainfall float64) float64 {
	hour := float64(t.Hour())
	dailyCycle := -3 * math.Sin((hour-6)*math.Pi/12)

	tempEffect := -(temperature - g.baselineTemp) * 1.2

	rainEffect := 0.0
	if rainfall > 0 {
		rainEffect = 15 + rainfall*2
	}

	noise := (rand.Float64() - 0.5) * g.noise * 0.5

	humidity := g.baselineHumidity + dailyCycle + tempEffect + rainEffect + noise
	return math.Max(20, math.Min(100, humidity))
}

// Rainfall in millimeters. Rain arrives in multi-reading spells:
// a spell starts with 8% probability and lasts 2-6 readings.
func (g *WeatherGenerator) Rainfall(t time.Time) float64 {
	if g.rainSpell == 0 {
		if rand.Float64() < 0.08 {
			g.rainSpell = 2 + rand.Intn(5)
		} else {
			return 0
		}
	}
	g.rainSpell--

	// Heavier rain in the wetter half of the year.
	dayOfYear := float64(t.YearDay())
	seasonalFactor := 1 + 0.5*math.Sin((dayOfYear-172)*2*math.Pi/365)

	return rand.Float64() * 8 * seasonalFactor
}

// WindSpeed in km/h; storms gust at 5% probability.
func (g *WeatherGenerator) WindSpeed(t time.Time) float64 {
	hour := float64(t.Hour())
	dailyCycle := 2 * math.Sin((hour-12)*math.Pi/12)

	gust := 0.0
	if rand.Float64() < 0.05 {
		gust = rand.Float64() * 25
	}

	wind := g.baselineWind + dailyCycle + (rand.Float64()-0.5)*g.noise + gust
	return math.Max(0, wind)
}

// Reading generates one correlated reading for the given instant.
func (g *WeatherGenerator) Reading(t time.Time) *StationReading {
	temperature := g.Temperature(t)
	rainfall := g.Rainfall(t)
	humidity := g.Humidity(t, temperature, rainfall)
	wind := g.WindSpeed(t)

	return &StationReading{
		StationID:   g.station.StationID,
		FarmID:      g.station.FarmID,
		RecordedAt:  t,
		Temperature: math.Round(temperature*100) / 100,
		Humidity:    math.Round(humidity*100) / 100,
		Rainfall:    math.Round(rainfall*100) / 100,
		WindSpeed:   math.Round(wind*10) / 10,
	}
}
