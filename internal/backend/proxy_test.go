package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spec-kit/staff-policy-service/internal/domain"
)

func TestProxyListDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/lic-records" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"records": []domain.PolicyRecord{{ID: 1, StaffID: "E1", PolicyNo: "LIC001"}},
			"count":   1,
		})
	}))
	defer srv.Close()

	be := NewProxy(srv.URL, nil)
	res := be.List(context.Background())
	if !res.OK {
		t.Fatalf("list failed: %s", res.Err)
	}
	if len(res.Records) != 1 || res.Records[0].PolicyNo != "LIC001" {
		t.Fatalf("unexpected records: %+v", res.Records)
	}
	if res.Count != 1 {
		t.Fatalf("count = %d, want 1", res.Count)
	}
}

func TestProxyCreatePostsPolicies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/lic-records" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Policies []domain.PolicyRecord `json:"policies"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		for i := range payload.Policies {
			payload.Policies[i].ID = int64(i + 1)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"records": payload.Policies,
		})
	}))
	defer srv.Close()

	be := NewProxy(srv.URL, nil)
	res := be.Create(context.Background(), []domain.PolicyRecord{
		{StaffID: "E1", PolicyNo: "LIC100"},
	})
	if !res.OK {
		t.Fatalf("create failed: %s", res.Err)
	}
	if len(res.Records) != 1 || res.Records[0].ID != 1 {
		t.Fatalf("server ids not surfaced: %+v", res.Records)
	}
}

func TestProxyMapsStatusToCode(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, "UNAUTHORIZED"},
		{http.StatusNotFound, "NOT_FOUND"},
		{http.StatusBadRequest, "VALIDATION_FAILED"},
		{http.StatusInternalServerError, "REMOTE_FAILURE"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "nope",
			})
		}))
		be := NewProxy(srv.URL, nil)
		res := be.Delete(context.Background(), 9)
		srv.Close()

		if res.OK {
			t.Fatalf("status %d: expected failure", tc.status)
		}
		if res.Code != tc.code {
			t.Fatalf("status %d mapped to %q, want %q", tc.status, res.Code, tc.code)
		}
		if res.Err != "nope" {
			t.Fatalf("status %d: message %q", tc.status, res.Err)
		}
	}
}

func TestProxyUnreachableServerIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	be := NewProxy(srv.URL, nil)
	res := be.List(context.Background())
	if res.OK || res.Code != "NETWORK_ERROR" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestProxyRestoreSendsEmptySliceForNilData(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "count": 0})
	}))
	defer srv.Close()

	be := NewProxy(srv.URL, nil)
	if res := be.BulkReplace(context.Background(), nil); !res.OK {
		t.Fatalf("replace failed: %s", res.Err)
	}
	if string(body["data"]) != "[]" {
		t.Fatalf("data field = %s, want []", body["data"])
	}
}
