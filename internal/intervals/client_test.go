package intervals_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/ridecoach/internal/intervals"
	"github.com/myrjola/ridecoach/internal/testhelpers"
	"github.com/myrjola/ridecoach/internal/training"
)

func newTestClient(t *testing.T, handler http.Handler) *intervals.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	return intervals.NewClient(srv.URL, "secret", "i42", srv.Client(), logger)
}

func requireAuth(t *testing.T, r *http.Request) {
	t.Helper()
	user, pass, ok := r.BasicAuth()
	if !ok || user != "API_KEY" || pass != "secret" {
		t.Errorf("basic auth = %q, %q, %v", user, pass, ok)
	}
}

func TestClient_Activities(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		if r.URL.Path != "/api/v1/athlete/i42/activities" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("oldest"); got != "2025-06-01" {
			t.Errorf("oldest = %q", got)
		}
		_, _ = w.Write([]byte(`[
			{"id": "i1", "type": "Ride", "start_date_local": "2025-06-02T07:30:00", "icu_training_load": 80},
			{"id": "i2", "type": "Run", "start_date_local": "2025-06-03T07:30:00"},
			{"id": "i3", "type": "Ride", "start_date_local": "2025-06-04T07:30:00", "icu_ctl": 51.5}
		]`))
	}))

	got, err := client.Activities(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Activities() error = %v", err)
	}
	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	if diff := cmp.Diff([]string{"i1", "i3"}, ids); diff != "" {
		t.Errorf("Activities() ids mismatch (-want +got):\n%s", diff)
	}
	if got[1].Fitness == nil || *got[1].Fitness != 51.5 {
		t.Errorf("fitness = %v, want 51.5", got[1].Fitness)
	}
}

func TestClient_Wellness(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		_, _ = w.Write([]byte(`[{"id": "2025-06-02", "ctl": 50, "atl": 60, "rampRate": 1.5, "restingHR": 48}]`))
	}))

	got, err := client.Wellness(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Wellness() error = %v", err)
	}
	want := []intervals.Wellness{{ID: "2025-06-02", Fitness: 50, Fatigue: 60, RampRate: 1.5, RestingHR: 48}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Wellness() mismatch (-want +got):\n%s", diff)
	}
	if form := got[0].ToWellness().Form(); form != -10 {
		t.Errorf("Form() = %v, want -10", form)
	}
}

func TestClient_UpdateWellness(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/v1/athlete/i42/wellness/2025-06-02" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var update intervals.WellnessUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(intervals.Wellness{ID: "2025-06-02", RestingHR: update.RestingHR})
	}))

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got, err := client.UpdateWellness(context.Background(), day, intervals.WellnessUpdate{RestingHR: 47})
	if err != nil {
		t.Fatalf("UpdateWellness() error = %v", err)
	}
	if got.RestingHR != 47 {
		t.Errorf("RestingHR = %d, want 47", got.RestingHR)
	}
}

func TestClient_PowerCurve(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query(); q.Get("curves") != "42d" || q.Get("type") != "Ride" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"list": [{"secs": [1, 60, 1200], "values": [800, 350, 230]}]}`))
	}))

	got, err := client.PowerCurve(context.Background())
	if err != nil {
		t.Fatalf("PowerCurve() error = %v", err)
	}
	want := training.PowerCurve{Seconds: []float64{1, 60, 1200}, Watts: []float64{800, 350, 230}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PowerCurve() mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "bad key", http.StatusUnauthorized)
			},
			wantErr: intervals.ErrUnexpectedStatus,
		},
		{
			name: "empty power curve list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"list": []}`))
			},
			wantErr: training.ErrEmptyPowerCurve,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.PowerCurve(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PowerCurve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
