package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/usegalaxy-eu/jcaas/destination"
	"github.com/usegalaxy-eu/jcaas/gateway"
	"github.com/usegalaxy-eu/jcaas/logger"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

type testCatalog struct{}

func (testCatalog) BackendTemplate(name string) destination.Template {
	if name == "sge" {
		return destination.Template{
			Params: map[string]string{"nativeSpecification": "-q all.q -p -{PRIORITY}"},
		}
	}
	return destination.Template{}
}

func (testCatalog) ToolOverride(shortID string) (destination.ToolSpec, bool) {
	return destination.ToolSpec{}, false
}

type testAffinity struct{}

func (testAffinity) Exclude(permissible []string) string              { return "" }
func (testAffinity) Prefer(identifiers []string, group string) string { return "" }

type testStatus struct {
	sge    bool
	condor bool
}

func (s testStatus) SGEAvailable() bool    { return s.sge }
func (s testStatus) CondorAvailable() bool { return s.condor }

func newTestServer(status testStatus) *Server {
	return &Server{
		HTTPPort: "8090",
		Resolver: &destination.Resolver{
			Catalog:         testCatalog{},
			Affinity:        testAffinity{},
			Status:          status,
			AuthorizedEmail: "admin@example.org",
		},
	}
}

func post(t *testing.T, handler http.Handler, req gateway.Request) *httptest.ResponseRecorder {
	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/", bytes.NewReader(payload)))
	return w
}

func TestHandleResolve(t *testing.T) {
	srv := newTestServer(testStatus{sge: true, condor: true})

	w := post(t, srv.Handler(), gateway.Request{
		ToolID: "some_tool",
		Email:  "u@example.org",
	})
	if w.Code != http.StatusOK {
		t.Fatal("unexpected status", w.Code, w.Body.String())
	}

	resp := gateway.Response{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Runner != "drmaa" {
		t.Error("unexpected runner", resp.Runner)
	}
	if resp.Spec.DestinationID() != "4G_memory" {
		t.Error("unexpected destination", resp.Spec.DestinationID())
	}
	if resp.Params["nativeSpecification"] != "-q all.q -p -128" {
		t.Error("unexpected params", resp.Params)
	}
}

func TestHandleResolveUnauthorized(t *testing.T) {
	srv := newTestServer(testStatus{sge: true, condor: true})

	w := post(t, srv.Handler(), gateway.Request{
		ToolID: "echo_main_env",
		Email:  "u@example.org",
	})
	if w.Code != http.StatusForbidden {
		t.Error("unexpected status", w.Code)
	}

	w = post(t, srv.Handler(), gateway.Request{
		ToolID: "echo_main_env",
		Email:  "admin@example.org",
	})
	if w.Code != http.StatusOK {
		t.Error("unexpected status", w.Code, w.Body.String())
	}
}

func TestHandleResolveBothDown(t *testing.T) {
	srv := newTestServer(testStatus{})

	w := post(t, srv.Handler(), gateway.Request{ToolID: "some_tool"})
	if w.Code != http.StatusServiceUnavailable {
		t.Error("unexpected status", w.Code)
	}
}

func TestHandleResolveBadPayload(t *testing.T) {
	srv := newTestServer(testStatus{sge: true, condor: true})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/", bytes.NewReader([]byte("{"))))
	if w.Code != http.StatusBadRequest {
		t.Error("unexpected status", w.Code)
	}
}

func TestHandleResolveMethod(t *testing.T) {
	srv := newTestServer(testStatus{sge: true, condor: true})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Error("unexpected status", w.Code)
	}
}
