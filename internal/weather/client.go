package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// DefaultEndpoint is the Open-Meteo forecast API, which needs no key.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// Forecast is the summary the dashboard map shows for a farm location.
type Forecast struct {
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Temperature   float64   `json:"temperature"`
	WindSpeed     float64   `json:"wind_speed"`
	WeatherCode   int       `json:"weather_code"`
	Precipitation []float64 `json:"precipitation"`
}

// Client wraps the forecast API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a forecast client. WEATHER_ENDPOINT overrides the default
// API host; WEATHER_DISABLED=1 turns the proxy off (returns nil, nil).
func NewClient() (*Client, error) {
	if os.Getenv("WEATHER_DISABLED") == "1" {
		return nil, nil
	}
	endpoint := os.Getenv("WEATHER_ENDPOINT")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Precipitation []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// GetForecast fetches current conditions and daily precipitation for a
// coordinate.
func (c *Client) GetForecast(ctx context.Context, lat, lng float64) (*Forecast, error) {
	u := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=temperature_2m,wind_speed_10m,weather_code&daily=precipitation_sum&forecast_days=7",
		c.endpoint, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast API returned HTTP %d", resp.StatusCode)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("decoding forecast response: %w", err)
	}

	return &Forecast{
		Latitude:      fr.Latitude,
		Longitude:     fr.Longitude,
		Temperature:   fr.Current.Temperature,
		WindSpeed:     fr.Current.WindSpeed,
		WeatherCode:   fr.Current.WeatherCode,
		Precipitation: fr.Daily.Precipitation,
	}, nil
}
