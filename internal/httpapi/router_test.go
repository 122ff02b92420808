package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRouter
// ---------------------------------------------------------------------------

func TestRouter(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeMedia{captionOut: []byte("png")})
	srv := httptest.NewServer(NewRouter(a))
	t.Cleanup(srv.Close)

	t.Run("status on root", func(t *testing.T) {
		t.Parallel()

		resp, err := srv.Client().Get(srv.URL + "/")
		if err != nil {
			t.Fatalf("GET /: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding status: %v", err)
		}
		if body["message"] == "" {
			t.Errorf("status body = %v, want a message", body)
		}
		status, ok := body["status"].(map[string]any)
		if !ok {
			t.Fatalf("status section = %v, want an object", body["status"])
		}
		for _, key := range []string{"goroutines", "heapAlloc", "diskUsage"} {
			if _, present := status[key]; !present {
				t.Errorf("status section missing %q", key)
			}
		}
	})

	t.Run("unsupported method gets the envelope", func(t *testing.T) {
		t.Parallel()

		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/topdf", nil)
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("DELETE /topdf: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", resp.StatusCode)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding envelope: %v", err)
		}
		if body["success"] != false || body["message"] != "Method Not Allowed" {
			t.Errorf("envelope = %v, want success:false Method Not Allowed", body)
		}
	})

	t.Run("yt and youtube are aliases", func(t *testing.T) {
		t.Parallel()

		for _, path := range []string{"/yt/search", "/youtube/search"} {
			resp, err := srv.Client().Get(srv.URL + path)
			if err != nil {
				t.Fatalf("GET %s: %v", path, err)
			}
			resp.Body.Close()
			// Missing query, but the route itself resolves.
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("GET %s status = %d, want 400", path, resp.StatusCode)
			}
		}
	})

	t.Run("artifacts served under /file", func(t *testing.T) {
		t.Parallel()

		name, _, err := a.Store.Allocate("txt")
		if err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
		if err := a.Store.Write(name, []byte("served")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		resp, err := srv.Client().Get(srv.URL + "/file/" + name)
		if err != nil {
			t.Fatalf("GET /file/%s: %v", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "served" {
			t.Errorf("body = %q, want the artifact bytes", body)
		}
	})

	t.Run("pipeline route end to end", func(t *testing.T) {
		t.Parallel()

		resp, err := srv.Client().Get(srv.URL + "/brat?text=hi&json=true")
		if err != nil {
			t.Fatalf("GET /brat: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding envelope: %v", err)
		}
		if body["success"] != true {
			t.Errorf("envelope = %v, want success:true", body)
		}
	})
}
