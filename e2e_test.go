package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/go-city-info-api/config"
	"github.com/FACorreiaa/go-city-info-api/internal/api"
	"github.com/FACorreiaa/go-city-info-api/internal/container"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// E2ETestSuite drives the full server stack over HTTP against the in-memory store.
type E2ETestSuite struct {
	suite.Suite
	container *container.Container
	server    *httptest.Server
	client    *http.Client
	baseURL   string
}

func (suite *E2ETestSuite) SetupTest() {
	var cfg config.Config
	cfg.Mode = config.ModeDevelopment
	cfg.Storage.Driver = config.StorageMemory
	cfg.Cache.CitiesTTL = time.Minute
	cfg.Mail.Timeout = time.Second

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := container.NewContainer(context.Background(), &cfg, logger, nil)
	suite.Require().NoError(err)
	suite.container = c

	suite.server = httptest.NewServer(newHTTPHandler(c, logger, 5*time.Second))
	suite.baseURL = suite.server.URL
	suite.client = &http.Client{Timeout: 10 * time.Second}
}

func (suite *E2ETestSuite) TearDownTest() {
	suite.server.Close()
	suite.container.Close()
}

func (suite *E2ETestSuite) makeRequest(method, path, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	suite.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (suite *E2ETestSuite) decode(resp *http.Response, v any) {
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (suite *E2ETestSuite) TestPointOfInterestLifecycle() {
	// Step 1: create under New York City; ids continue from the global max.
	resp := suite.makeRequest(http.MethodPost, "/cities/1/pointsofinterest",
		`{"name":"Statue of Liberty","description":"Copper lady"}`)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get("Location")
	suite.Equal("/cities/1/pointsofinterest/3", location)

	var created types.PointOfInterestDto
	suite.decode(resp, &created)
	suite.Equal(types.PointOfInterestDto{ID: 3, Name: "Statue of Liberty", Description: "Copper lady"}, created)

	// Step 2: the Location header resolves.
	resp = suite.makeRequest(http.MethodGet, location, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	// Step 3: patch the description.
	resp = suite.makeRequest(http.MethodPatch, location,
		`[{"op":"replace","path":"/description","value":"Torch bearer"}]`)
	suite.Require().Equal(http.StatusNoContent, resp.StatusCode)

	var patched types.PointOfInterestDto
	suite.decode(suite.makeRequest(http.MethodGet, location, ""), &patched)
	suite.Equal("Torch bearer", patched.Description)
	suite.Equal("Statue of Liberty", patched.Name)

	// Step 4: full replace.
	resp = suite.makeRequest(http.MethodPut, location, `{"name":"Lady Liberty","description":"On Liberty Island"}`)
	suite.Require().Equal(http.StatusNoContent, resp.StatusCode)

	var city types.CityDto
	resp = suite.makeRequest(http.MethodGet, "/cities/1?includePointsOfInterest=true", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.decode(resp, &city)
	suite.Equal(3, city.NumberOfPointsOfInterest)
	suite.Contains(city.PointsOfInterest, types.PointOfInterestDto{ID: 3, Name: "Lady Liberty", Description: "On Liberty Island"})

	// Step 5: delete, then it is gone.
	resp = suite.makeRequest(http.MethodDelete, location, "")
	suite.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp = suite.makeRequest(http.MethodGet, location, "")
	suite.Equal(http.StatusNotFound, resp.StatusCode)
}

func (suite *E2ETestSuite) TestValidationErrors() {
	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"create without name", http.MethodPost, "/cities/2/pointsofinterest", `{"description":"x"}`, "name"},
		{"update with description equal to name", http.MethodPut, "/cities/2/pointsofinterest/1", `{"name":"Same","description":"Same"}`, "description"},
		{"patch clearing the name", http.MethodPatch, "/cities/2/pointsofinterest/1", `[{"op":"remove","path":"/name"}]`, "name"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			resp := suite.makeRequest(tc.method, tc.path, tc.body)
			suite.Require().Equal(http.StatusBadRequest, resp.StatusCode)

			var body api.ValidationResponse
			suite.decode(resp, &body)
			suite.False(body.Success)
			suite.NotEmpty(body.RequestID)
			suite.Contains(body.Fields, tc.field)
		})
	}

	// Nothing above reached the store.
	var poi types.PointOfInterestDto
	suite.decode(suite.makeRequest(http.MethodGet, "/cities/2/pointsofinterest/1", ""), &poi)
	suite.Equal("Uneven Cathedral", poi.Name)
}

func (suite *E2ETestSuite) TestNotFoundRoutes() {
	paths := []string{
		"/cities/99",
		"/cities/abc",
		"/cities/99/pointsofinterest",
		"/cities/1/pointsofinterest/99",
		"/cities/99999999999999999999",
		"/nowhere",
	}
	for _, path := range paths {
		resp := suite.makeRequest(http.MethodGet, path, "")
		suite.Equal(http.StatusNotFound, resp.StatusCode, path)
	}
}

func (suite *E2ETestSuite) TestTrailingSlashIsStripped() {
	resp := suite.makeRequest(http.MethodGet, "/cities/", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var cities []types.CityWithoutPointsOfInterestDto
	suite.decode(resp, &cities)
	suite.Len(cities, 3)
}

func (suite *E2ETestSuite) TestResponsesAreCompressed() {
	req, err := http.NewRequest(http.MethodGet, suite.baseURL+"/cities", nil)
	suite.Require().NoError(err)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("gzip", resp.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(resp.Body)
	suite.Require().NoError(err)
	var cities []types.CityWithoutPointsOfInterestDto
	suite.Require().NoError(json.NewDecoder(zr).Decode(&cities))
	suite.Equal("Antwerp", cities[0].Name)
}

func (suite *E2ETestSuite) TestCORSPreflight() {
	req, err := http.NewRequest(http.MethodOptions, suite.baseURL+"/cities/1/pointsofinterest/1", nil)
	suite.Require().NoError(err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal("http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	suite.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
