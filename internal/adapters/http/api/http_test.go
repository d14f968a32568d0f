package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/venturelens/pulse/internal/adapters/http/api"
	"github.com/venturelens/pulse/internal/app"
	"github.com/venturelens/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockEngine implements api.Dependencies with recordable behavior.
type mockEngine struct {
	report    model.Report
	reportErr error
	reloadErr error
	profiles  []model.ClusterKey

	lastSnapshot  model.Snapshot
	lastSnapshots []model.Snapshot
}

func (m *mockEngine) GenerateReport(_ context.Context, snapshot model.Snapshot) (model.Report, error) {
	m.lastSnapshot = snapshot
	if m.reportErr != nil {
		return model.Report{}, m.reportErr
	}
	rep := m.report
	rep.SnapshotID = snapshot.ID
	return rep, nil
}

func (m *mockEngine) GenerateBatch(_ context.Context, snapshots []model.Snapshot) ([]model.Report, error) {
	m.lastSnapshots = snapshots
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	reports := make([]model.Report, len(snapshots))
	for i, s := range snapshots {
		reports[i] = model.Report{SnapshotID: s.ID}
	}
	return reports, nil
}

func (m *mockEngine) Reload(_ context.Context) error {
	return m.reloadErr
}

func (m *mockEngine) Profiles(_ context.Context) []model.ClusterKey {
	return m.profiles
}

func newMux(deps api.Dependencies, opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

const validBody = `{
	"snapshot_id": "snap-1",
	"segment": "saas",
	"stage": "seed",
	"responses": [{"kpi_id": "team_health_score", "value": 62}]
}`

func TestHandlePostReport(t *testing.T) {
	Convey("Given the reports endpoint", t, func() {
		engine := &mockEngine{}
		mux := newMux(engine)

		post := func(body string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(body))
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When posting a valid snapshot", func() {
			rec := post(validBody)

			Convey("Then the report comes back as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var rep model.Report
				So(json.Unmarshal(rec.Body.Bytes(), &rep), ShouldBeNil)
				So(rep.SnapshotID, ShouldEqual, "snap-1")
			})

			Convey("Then the engine received the converted snapshot", func() {
				So(engine.lastSnapshot.Cluster, ShouldResemble, model.ClusterKey{Segment: "saas", Stage: "seed"})
				So(engine.lastSnapshot.Responses, ShouldHaveLength, 1)
			})
		})

		Convey("When the snapshot ID is omitted", func() {
			rec := post(`{"segment":"saas","stage":"seed","responses":[{"kpi_id":"a","value":1}]}`)

			Convey("Then the handler mints one", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(engine.lastSnapshot.ID, ShouldNotBeEmpty)
			})
		})

		Convey("When the body is not JSON", func() {
			rec := post("{nope")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When required fields are missing", func() {
			Convey("Then a missing segment is a 400", func() {
				rec := post(`{"stage":"seed","responses":[{"kpi_id":"a","value":1}]}`)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
			Convey("Then empty responses are a 400", func() {
				rec := post(`{"segment":"saas","stage":"seed","responses":[]}`)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
			Convey("Then a blank kpi_id is a 400", func() {
				rec := post(`{"segment":"saas","stage":"seed","responses":[{"kpi_id":" ","value":1}]}`)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the engine rejects the snapshot", func() {
			engine.reportErr = app.ErrEmptySnapshot
			rec := post(validBody)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the engine has not started", func() {
			engine.reportErr = app.ErrNotStarted
			rec := post(validBody)
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the engine fails unexpectedly", func() {
			engine.reportErr = errors.New("boom")
			rec := post(validBody)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)

			var body map[string]string
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["code"], ShouldEqual, "internal_error")
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reports", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandlePostBatch(t *testing.T) {
	Convey("Given the batch endpoint capped at 2", t, func() {
		engine := &mockEngine{}
		mux := newMux(engine, api.WithMaxBatchSize(2))

		post := func(body string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/reports/batch", strings.NewReader(body))
			mux.ServeHTTP(rec, req)
			return rec
		}

		item := `{"segment":"saas","stage":"seed","responses":[{"kpi_id":"a","value":1}]}`

		Convey("When posting a batch within the cap", func() {
			rec := post("[" + item + "," + item + "]")

			Convey("Then every snapshot is processed in order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(engine.lastSnapshots, ShouldHaveLength, 2)

				var reports []model.Report
				So(json.Unmarshal(rec.Body.Bytes(), &reports), ShouldBeNil)
				So(reports, ShouldHaveLength, 2)
			})
		})

		Convey("When the batch exceeds the cap", func() {
			rec := post("[" + item + "," + item + "," + item + "]")
			So(rec.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("When the batch is empty", func() {
			rec := post("[]")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When one entry is invalid", func() {
			rec := post("[" + item + `,{"segment":"","stage":"seed","responses":[]}]`)

			Convey("Then the whole batch is rejected with its index", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "snapshot 1")
			})
		})
	})
}

func TestHandleKnowledge(t *testing.T) {
	Convey("Given the knowledge endpoints", t, func() {
		engine := &mockEngine{
			profiles: []model.ClusterKey{model.GeneralKey(), {Segment: "saas", Stage: "seed"}},
		}
		mux := newMux(engine)

		Convey("When reloading succeeds", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/knowledge/reload", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "reloaded")
		})

		Convey("When the new knowledge base is invalid", func() {
			engine.reloadErr = errors.New("anchors not monotonic")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/knowledge/reload", nil))

			Convey("Then the reload reports 422, old data stays live", func() {
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(rec.Body.String(), ShouldContainSubstring, "invalid_knowledge_base")
			})
		})

		Convey("When listing profiles", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body struct {
				Profiles []model.ClusterKey `json:"profiles"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Profiles, ShouldHaveLength, 2)
		})

		Convey("When using wrong methods", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/knowledge/reload", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)

			rec = httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/profiles", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleHealth(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := newMux(&mockEngine{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		Convey("Then it reports ok", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"ok"`)
		})
	})
}
