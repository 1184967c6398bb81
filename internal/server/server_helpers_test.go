package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"anisbee/internal/config"
	"anisbee/internal/lunch"
)

// 09:30 KST on 2024-03-10, halfway through an open round.
var testMorning = time.Date(2024, 3, 10, 0, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, at time.Time) (*httptest.Server, *time.Time) {
	t.Helper()
	return newTestServerWithConfig(t, at, config.Default())
}

func newTestServerWithConfig(t *testing.T, at time.Time, cfg config.Config) (*httptest.Server, *time.Time) {
	t.Helper()
	now := at
	engine := lunch.New(nil, cfg)
	engine.SetClock(func() time.Time { return now })
	srv := New(nil, engine, cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, &now
}

// newClient holds a cookie jar so one logical visitor keeps their
// session across requests.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doRequest(t *testing.T, client *http.Client, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func claimName(t *testing.T, client *http.Client, ts *httptest.Server, name string) {
	t.Helper()
	resp := doRequest(t, client, ts, http.MethodPost, "/api/profile", map[string]string{
		"anon_name": name,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim name %q: expected status %d, got %d", name, http.StatusOK, resp.StatusCode)
	}
}

func submitRecommendation(t *testing.T, client *http.Client, ts *httptest.Server, restaurant, reason string) int {
	t.Helper()
	resp := doRequest(t, client, ts, http.MethodPost, "/api/lunch/recommendations", map[string]string{
		"restaurant_name": restaurant,
		"one_line_reason": reason,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit %q: expected status %d, got %d", restaurant, http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["id"].(float64))
}
