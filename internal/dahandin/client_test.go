package dahandin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetStudentTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get/student/total" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "key-1" {
			t.Fatalf("missing api key header")
		}
		if r.URL.Query().Get("code") != "S01" {
			t.Fatalf("missing code query")
		}
		w.Write([]byte(`{"result":true,"message":"ok","data":{
			"code":"S01","name":"Jiho","cookie":120,"totalCookie":106,
			"badges":{"reader":{"title":"Bookworm","hasBadge":true}}
		}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	st, err := c.GetStudentTotal(context.Background(), "key-1", "S01")
	if err != nil {
		t.Fatalf("GetStudentTotal: %v", err)
	}
	if st.Name != "Jiho" || st.EarnedLifetime() != 120 || st.EarnedTotal() != 106 {
		t.Fatalf("unexpected student total: %+v", st)
	}
	if !st.HasBadge("Bookworm") {
		t.Fatal("expected Bookworm badge")
	}
	if st.HasBadge("Runner") {
		t.Fatal("unexpected badge")
	}
}

func TestGetStudentTotal_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.GetStudentTotal(context.Background(), "bad-key", "S01")
	upstream, ok := err.(*ErrUpstream)
	if !ok {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if upstream.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d; want 403", upstream.StatusCode)
	}
}

func TestGetStudentTotal_RejectedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":false,"message":"unknown student"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.GetStudentTotal(context.Background(), "key", "NOPE"); err == nil {
		t.Fatal("expected error for rejected envelope")
	}
}

func TestGetStudentList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get/student/list" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "key-1" {
			t.Fatalf("missing api key header")
		}
		w.Write([]byte(`{"result":true,"message":"ok","data":[
			{"code":"S01","number":1,"name":"Jiho","cookie":120,"totalCookie":106},
			{"code":"S02","number":2,"name":"Mina","cookie":40,"totalCookie":40}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	list, err := c.GetStudentList(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("GetStudentList: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d students, want 2", len(list))
	}
	if list[0].Code != "S01" || list[0].Number != 1 || list[1].Name != "Mina" {
		t.Fatalf("unexpected roster: %+v", list)
	}
}

func TestGetClassList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get/class/list" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"result":true,"message":"ok","data":[
			{"code":"ABC123","name":"3-2","totalCookies":900,"cookies":700,"usedCookies":200}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	list, err := c.GetClassList(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("GetClassList: %v", err)
	}
	if len(list) != 1 || list[0].Code != "ABC123" || list[0].UsedCookies != 200 {
		t.Fatalf("unexpected class list: %+v", list)
	}
}

func TestForward_PassesStatusThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "code=S01" {
			t.Fatalf("query not forwarded: %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"down"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	status, body, err := c.Forward(context.Background(), "key", "get/student/total", "code=S01")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if status != http.StatusBadGateway {
		t.Fatalf("status = %d; want 502", status)
	}
	if string(body) != `{"error":"down"}` {
		t.Fatalf("unexpected body %q", body)
	}
}
