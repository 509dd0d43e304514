package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shotserver/internal/domain"
)

func TestSubmitSuccess(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs" {
			t.Fatalf("path = %q, want /jobs", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"job_id":"wk-42"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	res, err := client.Submit(context.Background(), json.RawMessage(`{"model_name":"wan_2_2_i2v_a14b"}`))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if res.JobID != "wk-42" {
		t.Fatalf("JobID = %q, want wk-42", res.JobID)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if string(gotBody) != `{"model_name":"wan_2_2_i2v_a14b"}` {
		t.Fatalf("payload forwarded with modification: %s", gotBody)
	}
}

func TestSubmitWorkerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"phase config rejected"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second)
	_, err := client.Submit(context.Background(), json.RawMessage(`{}`))
	if !errors.Is(err, domain.ErrWorkerFailure) {
		t.Fatalf("err = %v, want ErrWorkerFailure", err)
	}
}

func TestSubmitHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second)
	_, err := client.Submit(context.Background(), json.RawMessage(`{}`))
	if !errors.Is(err, domain.ErrWorkerFailure) {
		t.Fatalf("err = %v, want ErrWorkerFailure", err)
	}
}
