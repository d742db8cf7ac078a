package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Place is a nearby emergency service (police station or hospital).
type Place struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"` // police or hospital
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKM float64 `json:"distance_km"`
}

// Client queries an Overpass-compatible POI API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Nearest returns police stations and hospitals within radius meters,
// closest first.
func (c *Client) Nearest(ctx context.Context, lat, lng float64, radius int) ([]Place, error) {
	query := fmt.Sprintf(`[out:json][timeout:10];(
		node["amenity"="police"](around:%d,%f,%f);
		node["amenity"="hospital"](around:%d,%f,%f);
	);out body;`, radius, lat, lng, radius, lat, lng)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build POI request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POI request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("POI API status %d: %s", resp.StatusCode, snippet)
	}

	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode POI response: %w", err)
	}

	places := make([]Place, 0, len(out.Elements))
	for _, el := range out.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		places = append(places, Place{
			Name:       name,
			Kind:       el.Tags["amenity"],
			Lat:        el.Lat,
			Lng:        el.Lon,
			DistanceKM: haversineKM(lat, lng, el.Lat, el.Lon),
		})
	}

	sort.Slice(places, func(i, j int) bool {
		return places[i].DistanceKM < places[j].DistanceKM
	})

	return places, nil
}

func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKM = 6371.0

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
