package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/natigahub/natiga/internal/adapters/http/api"
	repository "github.com/natigahub/natiga/internal/adapters/repository"
	app "github.com/natigahub/natiga/internal/app"
	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// faultyStore fails every query.
type faultyStore struct{}

func (faultyStore) FindByNamePattern(context.Context, string, int) ([]model.ResultRecord, error) {
	return nil, repository.ErrStore
}

func (faultyStore) ListGradedByCategory(context.Context, int64) ([]model.ResultRecord, error) {
	return nil, repository.ErrStore
}

func (faultyStore) Count(context.Context) int { return 0 }

func newTestMux(ctx context.Context, t *testing.T, store repository.Store) *http.ServeMux {
	t.Helper()
	svc := app.New(store)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

func seededMux(ctx context.Context, t *testing.T) *http.ServeMux {
	t.Helper()
	store := repository.NewMemoryStore(repository.WithRecords([]model.ResultRecord{
		{Name: "Ahmed Mohamed Ali", SeatNo: 1001, Category: model.Int64Ptr(5), Grade: model.Float64Ptr(95)},
		{Name: "Sara Ahmed Hassan", SeatNo: 1002, Category: model.Int64Ptr(5), Grade: model.Float64Ptr(90)},
	}))
	return newTestMux(ctx, t, store)
}

func doJSON(mux *http.ServeMux, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestGetSearch(t *testing.T) {
	Convey("Given the API over a seeded store", t, func() {
		ctx := context.Background()
		mux := seededMux(ctx, t)

		Convey("When searching a stored name", func() {
			w, body := doJSON(mux, http.MethodGet, "/search?name=Ahmed+Mohamed+Ali", "")

			Convey("Then the ranked record is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["found"], ShouldEqual, true)
				record := body["record"].(map[string]any)
				So(record["name"], ShouldEqual, "Ahmed Mohamed Ali")
				So(body["computed_rank"], ShouldEqual, 1)
			})
		})

		Convey("When searching a name needing the wildcard fallback", func() {
			w, body := doJSON(mux, http.MethodGet, "/search?name=Ahmed+Ali", "")

			Convey("Then the row is still found", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["found"], ShouldEqual, true)
			})
		})

		Convey("When no record matches", func() {
			w, body := doJSON(mux, http.MethodGet, "/search?name=Nobody+Known", "")

			Convey("Then found is false with 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["found"], ShouldEqual, false)
				So(body["record"], ShouldBeNil)
			})
		})

		Convey("When the term is a single token", func() {
			w, body := doJSON(mux, http.MethodGet, "/search?name=X", "")

			Convey("Then a 422 carries the literal validation message", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(body["code"], ShouldEqual, "validation")
				So(body["message"], ShouldEqual, "at least two name tokens required")
			})
		})

		Convey("When the name parameter is missing", func() {
			w, body := doJSON(mux, http.MethodGet, "/search", "")

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When the method is unsupported", func() {
			w, _ := doJSON(mux, http.MethodDelete, "/search", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given the API over a failing store", t, func() {
		ctx := context.Background()
		mux := newTestMux(ctx, t, faultyStore{})

		Convey("When searching", func() {
			w, body := doJSON(mux, http.MethodGet, "/search?name=Sara+Ahmed", "")

			Convey("Then the store fault maps to 502", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(body["code"], ShouldEqual, "store_error")
			})
		})
	})
}

func TestPostSearchAndState(t *testing.T) {
	Convey("Given the API over a seeded store", t, func() {
		ctx := context.Background()
		mux := seededMux(ctx, t)

		Convey("When posting a term without the requested flag", func() {
			w, body := doJSON(mux, http.MethodPost, "/search", `{"name":"Sara Ahmed Hassan","requested":false}`)

			Convey("Then the machine stays idle", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["state"], ShouldEqual, "idle")
			})
		})

		Convey("When posting an invalid body", func() {
			w, body := doJSON(mux, http.MethodPost, "/search", `{nope`)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When posting a single-token term", func() {
			w, body := doJSON(mux, http.MethodPost, "/search", `{"name":"X","requested":true}`)

			Convey("Then the machine reports the validation failure", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["state"], ShouldEqual, "failed")
				So(body["error"], ShouldEqual, "at least two name tokens required")
				So(body["error_kind"], ShouldEqual, "validation")
			})
		})

		Convey("When posting a searchable term", func() {
			w, body := doJSON(mux, http.MethodPost, "/search", `{"name":"Sara Ahmed Hassan","requested":true}`)

			Convey("Then the submission is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(body["state"], ShouldEqual, "searching")
				So(body["term"], ShouldEqual, "Sara Ahmed Hassan")
			})

			Convey("And the state endpoint eventually reports success", func() {
				deadline := time.Now().Add(3 * time.Second)
				var state map[string]any
				for time.Now().Before(deadline) {
					_, state = doJSON(mux, http.MethodGet, "/search/state", "")
					if state["state"] == "succeeded" {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}
				So(state["state"], ShouldEqual, "succeeded")
				So(state["found"], ShouldEqual, true)
				record := state["record"].(map[string]any)
				So(record["name"], ShouldEqual, "Sara Ahmed Hassan")
				So(state["computed_rank"], ShouldEqual, 2)
			})
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the API over a seeded store", t, func() {
		ctx := context.Background()
		mux := seededMux(ctx, t)

		Convey("When hitting the health endpoint", func() {
			w, _ := doJSON(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When hitting the stats endpoint", func() {
			w, body := doJSON(mux, http.MethodGet, "/stats", "")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(body["started"], ShouldEqual, true)
			So(body["records"], ShouldEqual, 2)
		})
	})
}
