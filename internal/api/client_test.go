package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestGetEvent(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/events/abc-123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"event": map[string]any{
				"event_id":              "abc-123",
				"run_number":            1,
				"event_number":          7,
				"num_particles":         2,
				"center_of_mass_energy": 13000.0,
				"particles": map[string]any{
					"pdg_id": []int{13, -13},
					"px":     []float64{30, -30},
					"py":     []float64{40, -40},
					"pz":     []float64{20, -15},
					"energy": []float64{54, 52},
					"charge": []float64{-1, 1},
					"mass":   []float64{0.106, 0.106},
				},
			},
			"kinematics": map[string]any{
				"event_id":       "abc-123",
				"invariant_mass": 91.3,
			},
		})
	}))
	defer srv.Close()

	detail, err := client.GetEvent(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if detail.Event.EventID != "abc-123" {
		t.Errorf("event_id = %q", detail.Event.EventID)
	}
	if detail.Event.Particles.Len() != 2 {
		t.Errorf("particles = %d, want 2", detail.Event.Particles.Len())
	}
	if detail.Kinematics == nil || detail.Kinematics.InvariantMass == nil {
		t.Fatal("kinematics missing")
	}
	if *detail.Kinematics.InvariantMass != 91.3 {
		t.Errorf("invariant_mass = %v", *detail.Kinematics.InvariantMass)
	}
	if detail.Kinematics.MissingET != nil {
		t.Error("absent missing_et decoded as non-nil")
	}
}

func TestListEventsPagination(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "3" || q.Get("page_size") != "25" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(EventList{
			Events:   []EventDetail{{Event: Event{EventID: "e1"}}},
			Total:    120,
			Page:     3,
			PageSize: 25,
		})
	}))
	defer srv.Close()

	list, err := client.ListEvents(context.Background(), 3, 25)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if list.Total != 120 || len(list.Events) != 1 {
		t.Errorf("list = %+v", list)
	}
}

func TestHistogramRequestBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/analysis/histogram" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var req HistogramRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Variable != "invariant_mass" || req.Bins != 50 {
			t.Errorf("request = %+v", req)
		}
		if req.RangeMin != nil {
			t.Error("absent range_min was sent")
		}

		bins := make([]float64, 51)
		values := make([]int, 50)
		json.NewEncoder(w).Encode(HistogramResult{
			Variable:  req.Variable,
			Bins:      bins,
			Values:    values,
			NumEvents: 120,
		})
	}))
	defer srv.Close()

	res, err := client.Histogram(context.Background(), HistogramRequest{
		Variable: "invariant_mass",
		Bins:     50,
	})
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	if len(res.Bins) != 51 || len(res.Values) != 50 || res.NumEvents != 120 {
		t.Errorf("result shape: bins=%d values=%d events=%d", len(res.Bins), len(res.Values), res.NumEvents)
	}
}

func TestGenerateEvents(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["event_type"] != "dilepton" || body["num_events"] != float64(10) {
			t.Errorf("body = %+v", body)
		}
		json.NewEncoder(w).Encode(GenerateAck{Message: "triggered", NumEvents: 10})
	}))
	defer srv.Close()

	ack, err := client.GenerateEvents(context.Background(), "dilepton", 10)
	if err != nil {
		t.Fatalf("GenerateEvents failed: %v", err)
	}
	if ack.NumEvents != 10 {
		t.Errorf("ack = %+v", ack)
	}
}

func TestDetectorConfigs(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/config/detector" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]DetectorConfig{
			{ID: "1", Name: "default", IsActive: true, MagneticField: 2.0},
		})
	}))
	defer srv.Close()

	configs, err := client.DetectorConfigs(context.Background())
	if err != nil {
		t.Fatalf("DetectorConfigs failed: %v", err)
	}
	if len(configs) != 1 || !configs[0].IsActive {
		t.Errorf("configs = %+v", configs)
	}
}

func TestServerError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Event not found"})
	}))
	defer srv.Close()

	_, err := client.GetEvent(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error")
	}

	se, ok := IsServerError(err)
	if !ok {
		t.Fatalf("got %T, want *ServerError", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", se.StatusCode)
	}
	if se.Message != "Event not found" {
		t.Errorf("message = %q", se.Message)
	}
}

func TestServerErrorNonJSONBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.Statistics(context.Background())
	se, ok := IsServerError(err)
	if !ok {
		t.Fatalf("got %T, want *ServerError", err)
	}
	if se.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", se.StatusCode)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listening anymore

	client := New(url, time.Second)
	_, err := client.Statistics(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %T, want *TransportError", err)
	}
}
