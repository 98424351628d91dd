package state

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/collidoscope/internal/api"
)

func TestLoadLatestEventFetchesDetail(t *testing.T) {
	var detailCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/events":
			json.NewEncoder(w).Encode(api.EventList{
				Events: []api.EventDetail{{Event: api.Event{EventID: "newest"}}},
				Total:  1,
			})
		case strings.HasPrefix(r.URL.Path, "/api/v1/events/"):
			detailCalls.Add(1)
			json.NewEncoder(w).Encode(api.EventDetail{Event: api.Event{EventID: "newest"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a := Actions{Client: api.New(srv.URL, time.Second)}
	msg := a.LoadLatestEvent()()

	loaded, ok := msg.(EventLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want EventLoadedMsg", msg)
	}
	if loaded.Err != nil {
		t.Fatalf("unexpected error: %v", loaded.Err)
	}
	if loaded.Detail == nil || loaded.Detail.Event.EventID != "newest" {
		t.Errorf("detail = %+v", loaded.Detail)
	}
	if detailCalls.Load() != 1 {
		t.Errorf("detail calls = %d, want 1", detailCalls.Load())
	}
}

// An empty event list resolves the action with no event and, crucially,
// no second request.
func TestLoadLatestEventEmptyList(t *testing.T) {
	var detailCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v1/events/") {
			detailCalls.Add(1)
		}
		json.NewEncoder(w).Encode(api.EventList{Events: nil, Total: 0})
	}))
	defer srv.Close()

	a := Actions{Client: api.New(srv.URL, time.Second)}
	msg := a.LoadLatestEvent()()

	loaded, ok := msg.(EventLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want EventLoadedMsg", msg)
	}
	if loaded.Err != nil || loaded.Detail != nil {
		t.Errorf("expected empty result, got %+v", loaded)
	}
	if detailCalls.Load() != 0 {
		t.Errorf("detail calls = %d, want 0", detailCalls.Load())
	}
}

func TestLoadLatestEventListError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "db down"})
	}))
	defer srv.Close()

	a := Actions{Client: api.New(srv.URL, time.Second)}
	msg := a.LoadLatestEvent()()

	loaded := msg.(EventLoadedMsg)
	if loaded.Err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := api.IsServerError(loaded.Err); !ok {
		t.Errorf("got %T, want *api.ServerError", loaded.Err)
	}
}

func TestGenerateThrottled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(api.GenerateAck{Message: "ok", NumEvents: 10})
	}))
	defer srv.Close()

	a := Actions{
		Client:          api.New(srv.URL, time.Second),
		GenerateLimiter: rate.NewLimiter(rate.Every(time.Hour), 1),
	}

	first := a.Generate("dilepton", 10)().(GenerateDoneMsg)
	if first.Err != nil {
		t.Fatalf("first generate failed: %v", first.Err)
	}

	second := a.Generate("dilepton", 10)().(GenerateDoneMsg)
	if second.Err != ErrGenerateThrottled {
		t.Errorf("second err = %v, want ErrGenerateThrottled", second.Err)
	}
	if calls.Load() != 1 {
		t.Errorf("backend calls = %d, want 1", calls.Load())
	}
}

func TestGenerateUnthrottledWithNilLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.GenerateAck{Message: "ok", NumEvents: 5})
	}))
	defer srv.Close()

	a := Actions{Client: api.New(srv.URL, time.Second)}
	for i := 0; i < 3; i++ {
		msg := a.Generate("qcd", 5)().(GenerateDoneMsg)
		if msg.Err != nil {
			t.Fatalf("generate %d failed: %v", i, msg.Err)
		}
	}
}

func TestFetchHistogramCarriesVariable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.HistogramResult{
			Variable: "missing_et",
			Bins:     []float64{0, 50, 100},
			Values:   []int{3, 1},
		})
	}))
	defer srv.Close()

	a := Actions{Client: api.New(srv.URL, time.Second)}
	msg := a.FetchHistogram("missing_et", 50, nil, nil)().(HistogramLoadedMsg)
	if msg.Err != nil {
		t.Fatalf("histogram failed: %v", msg.Err)
	}
	if msg.Variable != "missing_et" {
		t.Errorf("variable = %q", msg.Variable)
	}
}
