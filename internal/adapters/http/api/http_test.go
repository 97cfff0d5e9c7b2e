package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/arena/internal/adapters/http/api"
	service "github.com/okian/arena/internal/app"
	"github.com/smartystreets/goconvey/convey"
)

var testClock = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestServer starts a full service behind an httptest server.
func newTestServer(ctx context.Context) (*httptest.Server, *service.Service) {
	svc := service.New(
		service.WithClock(func() time.Time { return testClock }),
		service.WithContestWindow(testClock.Add(-time.Hour), testClock.Add(time.Hour)),
	)
	_ = svc.Start(ctx)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 100).Register(ctx, mux)
	return httptest.NewServer(mux), svc
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAPIEndToEnd(t *testing.T) {
	convey.Convey("Given a running contest behind the HTTP API", t, func() {
		ctx := context.Background()
		srv, svc := newTestServer(ctx)
		defer srv.Close()
		defer svc.Stop()

		var teamID string
		resp := postJSON(t, srv.URL+"/api/teams", map[string]any{
			"name": "Alpha", "qualified": true, "email_confirmed": true,
		})
		convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)
		var created map[string]string
		decodeBody(t, resp, &created)
		teamID = created["id"]
		convey.So(teamID, convey.ShouldNotBeEmpty)

		resp = postJSON(t, srv.URL+"/api/tasks", map[string]any{
			"title": "Warmup", "answers": []string{"flag{42}"}, "value": 100,
		})
		convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)
		var taskCreated map[string]string
		decodeBody(t, resp, &taskCreated)
		taskID := taskCreated["id"]

		convey.Convey("When updating the task material over HTTP", func() {
			raw, _ := json.Marshal(map[string]any{
				"description": "try harder", "hints": []string{"read the headers"},
			})
			req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/tasks/"+taskID, bytes.NewReader(raw))
			resp, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			resp.Body.Close()

			convey.Convey("Then the unopened task still hides the material from listings", func() {
				resp, err := http.Get(srv.URL + "/api/tasks")
				convey.So(err, convey.ShouldBeNil)
				var views []api.TaskView
				decodeBody(t, resp, &views)
				convey.So(len(views), convey.ShouldEqual, 1)
				convey.So(views[0].Description, convey.ShouldBeEmpty)
				convey.So(views[0].Hints, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When submitting before the task opens", func() {
			resp := postJSON(t, srv.URL+"/api/submissions", map[string]string{
				"team_id": teamID, "task_id": taskID, "answer": "flag{42}",
			})
			defer resp.Body.Close()

			convey.Convey("Then the rejection carries the task_not_opened code", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusConflict)
			})
		})

		convey.Convey("When requesting stats before the task opens", func() {
			resp, err := http.Get(srv.URL + "/api/tasks/" + taskID + "/stats")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the stats are withheld with the task_not_available code", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusForbidden)
				var body map[string]string
				decodeBody(t, resp, &body)
				convey.So(body["code"], convey.ShouldEqual, "task_not_available")
			})
		})

		convey.Convey("When the task is opened and solved over HTTP", func() {
			resp := postJSON(t, srv.URL+"/api/tasks/"+taskID+"/open", nil)
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			resp.Body.Close()

			wrong := postJSON(t, srv.URL+"/api/submissions", map[string]string{
				"team_id": teamID, "task_id": taskID, "answer": "nope",
			})
			convey.So(wrong.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
			wrong.Body.Close()

			right := postJSON(t, srv.URL+"/api/submissions", map[string]string{
				"team_id": teamID, "task_id": taskID, "answer": "flag{42}",
			})
			convey.So(right.StatusCode, convey.ShouldEqual, http.StatusCreated)
			var solve map[string]any
			decodeBody(t, right, &solve)
			convey.So(solve["points"], convey.ShouldEqual, 100)

			convey.Convey("Then the leaderboard lists the solver", func() {
				resp, err := http.Get(srv.URL + "/api/leaderboard?limit=10")
				convey.So(err, convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var standings []api.Standing
				decodeBody(t, resp, &standings)
				convey.So(len(standings), convey.ShouldEqual, 1)
				convey.So(standings[0].TotalScore, convey.ShouldEqual, 100)
				convey.So(standings[0].Rank, convey.ShouldEqual, 1)
			})

			convey.Convey("And a duplicate solve maps to 409 already_solved", func() {
				again := postJSON(t, srv.URL+"/api/submissions", map[string]string{
					"team_id": teamID, "task_id": taskID, "answer": "flag{42}",
				})
				convey.So(again.StatusCode, convey.ShouldEqual, http.StatusConflict)
				var body map[string]string
				decodeBody(t, again, &body)
				convey.So(body["code"], convey.ShouldEqual, "already_solved")
			})

			convey.Convey("And the task stats endpoint reflects the activity", func() {
				resp, err := http.Get(srv.URL + "/api/tasks/" + taskID + "/stats")
				convey.So(err, convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var stats map[string]any
				decodeBody(t, resp, &stats)
				convey.So(stats["attempt_count"], convey.ShouldEqual, 2)
				convey.So(stats["solve_count"], convey.ShouldEqual, 1)
			})

			convey.Convey("And a review posts and rejects duplicates", func() {
				first := postJSON(t, srv.URL+"/api/reviews", map[string]any{
					"team_id": teamID, "task_id": taskID, "rating": 5, "comment": "fun",
				})
				convey.So(first.StatusCode, convey.ShouldEqual, http.StatusCreated)
				first.Body.Close()

				second := postJSON(t, srv.URL+"/api/reviews", map[string]any{
					"team_id": teamID, "task_id": taskID, "rating": 4,
				})
				convey.So(second.StatusCode, convey.ShouldEqual, http.StatusConflict)
				second.Body.Close()
			})
		})

		convey.Convey("When pausing the contest over HTTP", func() {
			resp := postJSON(t, srv.URL+"/api/contest/pause", nil)
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			var view api.ContestView
			decodeBody(t, resp, &view)
			convey.So(view.State, convey.ShouldEqual, "paused")

			convey.Convey("Then submissions map to 403 contest_paused", func() {
				resp := postJSON(t, srv.URL+"/api/submissions", map[string]string{
					"team_id": teamID, "task_id": taskID, "answer": "flag{42}",
				})
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusForbidden)
				var body map[string]string
				decodeBody(t, resp, &body)
				convey.So(body["code"], convey.ShouldEqual, "contest_paused")
			})
		})

		convey.Convey("When fetching the contest descriptor", func() {
			resp, err := http.Get(srv.URL + "/api/contest")
			convey.So(err, convey.ShouldBeNil)
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			var view api.ContestView
			decodeBody(t, resp, &view)
			convey.So(view.State, convey.ShouldEqual, "running")
		})

		convey.Convey("When managing categories", func() {
			resp := postJSON(t, srv.URL+"/api/categories", map[string]string{"title": "web"})
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)
			var cat map[string]string
			decodeBody(t, resp, &cat)

			dup := postJSON(t, srv.URL+"/api/categories", map[string]string{"title": "web"})
			convey.So(dup.StatusCode, convey.ShouldEqual, http.StatusConflict)
			dup.Body.Close()

			req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/categories/"+cat["id"], nil)
			del, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			convey.So(del.StatusCode, convey.ShouldEqual, http.StatusOK)
			del.Body.Close()
		})

		convey.Convey("When requesting an oversized leaderboard page", func() {
			resp, err := http.Get(srv.URL + "/api/leaderboard?limit=101")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When probing stats and health", func() {
			for _, path := range []string{"/stats", "/healthz"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				resp.Body.Close()
			}
		})
	})
}

func TestAPIStream(t *testing.T) {
	convey.Convey("Given a guest attached to the SSE stream", t, func() {
		ctx := context.Background()
		srv, svc := newTestServer(ctx)
		defer srv.Close()
		defer svc.Stop()

		streamCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, srv.URL+"/api/stream?scope=guests", nil)
		convey.So(err, convey.ShouldBeNil)
		resp, err := http.DefaultClient.Do(req)
		convey.So(err, convey.ShouldBeNil)
		defer resp.Body.Close()
		convey.So(resp.Header.Get("Content-Type"), convey.ShouldEqual, "text/event-stream")

		convey.Convey("When a task opens", func() {
			open := postJSON(t, srv.URL+"/api/tasks", map[string]any{
				"title": "Live", "answers": []string{"x"}, "value": 50,
			})
			var created map[string]string
			decodeBody(t, open, &created)
			opened := postJSON(t, srv.URL+"/api/tasks/"+created["id"]+"/open", nil)
			opened.Body.Close()

			convey.Convey("Then the stream carries a taskOpened frame", func() {
				buf := make([]byte, 4096)
				var got string
				for {
					n, rerr := resp.Body.Read(buf)
					got += string(buf[:n])
					if rerr != nil || containsEvent(got, "taskOpened") {
						break
					}
				}
				convey.So(containsEvent(got, "taskOpened"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When requesting an unknown scope", func() {
			resp, err := http.Get(srv.URL + "/api/stream?scope=nobody")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func containsEvent(body, event string) bool {
	return bytes.Contains([]byte(body), []byte(fmt.Sprintf("event: %s", event)))
}
