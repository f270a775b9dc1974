package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/wordtracker/internal/config"
	"github.com/okian/wordtracker/pkg/logger"
	"github.com/okian/wordtracker/pkg/metrics"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestServerAssembly(t *testing.T) {
	convey.Convey("Given a configuration pointing at a fake backend", t, func() {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"leaderboard":[{"display_name":"Alice","wins":6}],"recent_matches":[]}`)
		}))
		defer api.Close()

		cfg := config.New()
		cfg.BackendURL = api.URL
		cfg.AssetsDir = t.TempDir()

		convey.Convey("When the HTTP server is built", func() {
			srv, err := newHTTPServer(cfg, logger.Get())

			convey.Convey("Then it uses the configured address and timeouts", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(srv.Addr, convey.ShouldEqual, cfg.Addr)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, 3*30*time.Second+writeTimeoutSlack)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})

			convey.Convey("And it renders the home page from the backend", func() {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "Alice")
				convey.So(w.Body.String(), convey.ShouldNotContainSubstring, "main.wasm")
			})
		})

		convey.Convey("When the per-attempt timeout is disabled", func() {
			cfg.RequestTimeoutMS = 0
			convey.So(writeTimeout(cfg), convey.ShouldEqual, time.Duration(0))
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given a server on a free port", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		addr := ln.Addr().String()
		convey.So(ln.Close(), convey.ShouldBeNil)

		srv := &http.Server{Addr: addr, Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- serve(ctx, srv, logger.Get()) }()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then the server shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("server did not stop")
				}
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		updateSystemMetrics()

		convey.Convey("Then the goroutine gauge is set", func() {
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)

			var found bool
			for _, f := range families {
				if f.GetName() == "wordtracker_web_system_goroutine_count" {
					found = f.GetMetric()[0].GetGauge().GetValue() > 0
				}
			}
			convey.So(found, convey.ShouldBeTrue)
		})

		convey.Convey("And it stops with its context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			stopped := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-time.After(time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}
