// Package weather produces city weather readings and feeds them into the
// observer room through robots.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DemoAPIKey disables the remote API and serves simulated readings.
const DemoAPIKey = "demo_key_for_testing"

// ErrUnknownCity is returned for a city missing from the catalogue.
var ErrUnknownCity = errors.New("unknown city")

// Colombia is the time zone readings are rendered in.
var Colombia = time.FixedZone("COT", -5*60*60)

// City describes a place robots report on.
type City struct {
	Key      string
	Name     string
	Emoji    string
	Lat      float64
	Lon      float64
	Altitude int
	// typical range, for display
	AvgTempRange string
	// simulated ranges, inclusive
	TempMin, TempMax         int
	HumidityMin, HumidityMax int
}

// Cities is the catalogue of known cities keyed by City.Key.
var Cities = map[string]City{
	"bogota": {
		Key: "bogota", Name: "Bogotá", Emoji: "🏔️",
		Lat: 4.7110, Lon: -74.0721, Altitude: 2640, AvgTempRange: "14-20°C",
		TempMin: 14, TempMax: 22, HumidityMin: 60, HumidityMax: 85,
	},
	"medellin": {
		Key: "medellin", Name: "Medellín", Emoji: "🌺",
		Lat: 6.2442, Lon: -75.5812, Altitude: 1495, AvgTempRange: "20-28°C",
		TempMin: 20, TempMax: 30, HumidityMin: 55, HumidityMax: 75,
	},
}

// Reading is one weather observation.
type Reading struct {
	City        string    `json:"city"`
	Name        string    `json:"name"`
	Temperature int       `json:"temperature"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Simulated   bool      `json:"is_simulated"`
	Source      string    `json:"source"`
	Emoji       string    `json:"emoji"`
	Altitude    int       `json:"altitude"`
}

// Source returns the current reading for a city.
type Source interface {
	GetCurrentReading(ctx context.Context, city string) (Reading, error)
}

// Simulated draws readings at random within each city's usual range.
type Simulated struct {
	now func() time.Time
}

// NewSimulated creates a Simulated source.
func NewSimulated() *Simulated {
	return &Simulated{now: time.Now}
}

// GetCurrentReading implements Source.
func (s *Simulated) GetCurrentReading(_ context.Context, city string) (Reading, error) {
	c, ok := Cities[city]
	if !ok {
		return Reading{}, fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}
	return Reading{
		City:        c.Key,
		Name:        c.Name,
		Temperature: between(c.TempMin, c.TempMax),
		Humidity:    between(c.HumidityMin, c.HumidityMax),
		Description: "Parcialmente nublado",
		Timestamp:   s.now().In(Colombia),
		Simulated:   true,
		Source:      "Datos simulados",
		Emoji:       c.Emoji,
		Altitude:    c.Altitude,
	}, nil
}

func between(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}

// OpenWeather reads from the OpenWeatherMap current weather API and falls back
// to simulated data when the key is the demo key or the call fails.
type OpenWeather struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	fallback Source
	log      *slog.Logger
}

// NewOpenWeather creates an OpenWeather source.
func NewOpenWeather(apiKey string, log *slog.Logger) *OpenWeather {
	if log == nil {
		log = slog.Default()
	}
	return &OpenWeather{
		apiKey:   apiKey,
		baseURL:  "https://api.openweathermap.org/data/2.5/weather",
		client:   &http.Client{Timeout: 10 * time.Second},
		fallback: NewSimulated(),
		log:      log,
	}
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// GetCurrentReading implements Source.
func (o *OpenWeather) GetCurrentReading(ctx context.Context, city string) (Reading, error) {
	c, ok := Cities[city]
	if !ok {
		return Reading{}, fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}
	if o.apiKey == "" || o.apiKey == DemoAPIKey {
		return o.fallback.GetCurrentReading(ctx, city)
	}

	reading, err := o.fetch(ctx, c)
	if err != nil {
		o.log.Error("Weather API failed, using simulated data", "city", city, "err", err)
		return o.fallback.GetCurrentReading(ctx, city)
	}
	return reading, nil
}

func (o *OpenWeather) fetch(ctx context.Context, c City) (Reading, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", c.Lat))
	q.Set("lon", fmt.Sprintf("%.4f", c.Lon))
	q.Set("appid", o.apiKey)
	q.Set("units", "metric")
	q.Set("lang", "es")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return Reading{}, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return Reading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Reading{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Reading{}, fmt.Errorf("decode response: %w", err)
	}

	description := ""
	if len(body.Weather) > 0 {
		description = titleCase(body.Weather[0].Description)
	}
	return Reading{
		City:        c.Key,
		Name:        c.Name,
		Temperature: int(math.Round(body.Main.Temp)),
		Humidity:    body.Main.Humidity,
		Description: description,
		Timestamp:   time.Now().In(Colombia),
		Source:      "OpenWeatherMap API",
		Emoji:       c.Emoji,
		Altitude:    c.Altitude,
	}, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
