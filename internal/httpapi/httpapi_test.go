package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tankmon/internal/config"
	"tankmon/internal/metrics"
	"tankmon/internal/telemetry"
)

type fakeSource struct {
	connected bool
}

func (f *fakeSource) IsConnected() bool { return f.connected }

func newTestServer(t *testing.T, source ConnectionChecker) *httptest.Server {
	t.Helper()

	srv := NewServer(config.Config{HTTPAddr: ":0"}, NewMux(source, metrics.New()))
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(ts.Close)
	return ts
}

func mustGetJSON[T any](t *testing.T, client *http.Client, url string, out *T) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}

	t.Cleanup(func() { _ = resp.Body.Close() })

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}

	return resp
}

func TestHealthz(t *testing.T) {
	t.Run("connected source reports ok", func(t *testing.T) {
		ts := newTestServer(t, &fakeSource{connected: true})

		var body map[string]string
		resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
		}
		if body["status"] != "ok" {
			t.Fatalf("body.status=%q want=%q", body["status"], "ok")
		}
	})

	t.Run("disconnected source reports unavailable", func(t *testing.T) {
		ts := newTestServer(t, &fakeSource{connected: false})

		var body map[string]any
		resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)

		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusServiceUnavailable)
		}
		if body["error"] != http.StatusText(http.StatusServiceUnavailable) {
			t.Fatalf("body.error=%q want=%q", body["error"], http.StatusText(http.StatusServiceUnavailable))
		}
	})
}

func TestDecode(t *testing.T) {
	ts := newTestServer(t, &fakeSource{connected: true})

	t.Run("all-ones word decodes with four alarms", func(t *testing.T) {
		var body decodeResponse
		resp := mustGetJSON(t, ts.Client(), ts.URL+"/v1/decode/FFFFFFFF", &body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
		}
		if body.Word != "0xFFFFFFFF" {
			t.Errorf("word=%q want=%q", body.Word, "0xFFFFFFFF")
		}
		if body.Value != 0xFFFFFFFF {
			t.Errorf("value=%d want=%d", body.Value, uint32(0xFFFFFFFF))
		}
		want := telemetry.Reading{Temperature: 235, Pressure: 1137, Humidity: 0xF, FluidLevel: 8191}
		if body.Reading != want {
			t.Errorf("reading=%+v want=%+v", body.Reading, want)
		}
		if len(body.Alarms) != 4 {
			t.Fatalf("got %d alarms, want 4", len(body.Alarms))
		}
		if body.Alarms[0].Rule != telemetry.RuleHighTemperature {
			t.Errorf("first alarm rule=%q want=%q", body.Alarms[0].Rule, telemetry.RuleHighTemperature)
		}
	})

	t.Run("lowercase word normalizes", func(t *testing.T) {
		var body decodeResponse
		resp := mustGetJSON(t, ts.Client(), ts.URL+"/v1/decode/beef", &body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
		}
		if body.Word != "0x0000BEEF" {
			t.Errorf("word=%q want=%q", body.Word, "0x0000BEEF")
		}
	})

	t.Run("nominal word returns empty alarm list", func(t *testing.T) {
		var body decodeResponse
		resp := mustGetJSON(t, ts.Client(), ts.URL+"/v1/decode/7D028A2D", &body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
		}
		if body.Alarms == nil || len(body.Alarms) != 0 {
			t.Errorf("alarms=%v want an empty list", body.Alarms)
		}
	})

	t.Run("non-hex word rejected", func(t *testing.T) {
		var body map[string]any
		resp := mustGetJSON(t, ts.Client(), ts.URL+"/v1/decode/12G4", &body)

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("sentinel is not a word", func(t *testing.T) {
		var body map[string]any
		resp := mustGetJSON(t, ts.Client(), ts.URL+"/v1/decode/END", &body)

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, &fakeSource{connected: true})

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(b), "tankmon_frames_received_total 0") {
		t.Errorf("metrics output missing the frames counter:\n%s", b)
	}
}
