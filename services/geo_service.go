package services

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/adityapachauri0/pan-sub000/models"
)

// GeoEnricher maps an origin address to coarse location data via an external
// IP-geolocation service. Failures degrade to a placeholder; it never blocks
// beyond a single lookup timeout and never returns an error.
type GeoEnricher struct {
	Client  *http.Client
	BaseURL string
}

func NewGeoEnricher() *GeoEnricher {
	return &GeoEnricher{
		Client:  &http.Client{Timeout: lookupTimeout},
		BaseURL: "http://ip-api.com/json",
	}
}

type geoPayload struct {
	Status     string  `json:"status"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Enrich looks up the location for address. Local (loopback or private),
// empty, and unknown origins short-circuit without a network call.
func (g *GeoEnricher) Enrich(address string) models.Location {
	// Fallback-resolved origins carry the dev marker but are real public IPs.
	addr := strings.TrimSpace(strings.TrimSuffix(address, DevOriginSuffix))

	if addr == "" || strings.EqualFold(addr, "unknown") || isLocal(addr) {
		return models.LocalLocation()
	}

	resp, err := g.Client.Get(g.BaseURL + "/" + addr)
	if err != nil {
		log.Printf("Geo lookup for %s failed: %v", addr, err)
		return models.UnknownLocation()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Geo lookup for %s returned status %d", addr, resp.StatusCode)
		return models.UnknownLocation()
	}

	var payload geoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("Geo lookup for %s returned malformed response: %v", addr, err)
		return models.UnknownLocation()
	}
	if payload.Status != "" && payload.Status != "success" {
		return models.UnknownLocation()
	}

	loc := models.Location{
		City:    payload.City,
		Region:  payload.RegionName,
		Country: payload.Country,
		Lat:     payload.Lat,
		Lng:     payload.Lon,
	}
	if loc.City == "" {
		loc.City = "Unknown"
	}
	if loc.Region == "" {
		loc.Region = "Unknown"
	}
	if loc.Country == "" {
		loc.Country = "Unknown"
	}
	return loc
}
