// Package statsserver exposes a running Engine's configuration and
// stats over HTTP: a JSON snapshot endpoint, a bounded history endpoint,
// and a live server-sent-events stream for dashboards.
package statsserver

import (
	"bufio"
	"context"
	"encoding/json"
	"sync"
	"time"

	fiber "github.com/gofiber/fiber/v3"
	recovermiddleware "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/history"
)

const sseBufSize = 4

// Server encapsulates the Fiber app, the polled engine, the SSE client
// registry, and the history store. Safe for concurrent use.
type Server struct {
	app    *fiber.App
	engine *dscd.Engine

	statsMu sync.RWMutex
	stats   dscd.Stats

	ssesMu  sync.Mutex
	clients map[chan []byte]struct{}

	pollInterval time.Duration
	history      *history.Store
}

// New builds a Server polling engine every interval, retaining histCap
// samples of history.
func New(engine *dscd.Engine, interval time.Duration, histCap int) *Server {
	s := &Server{
		engine:       engine,
		clients:      make(map[chan []byte]struct{}),
		pollInterval: interval,
		history:      history.NewStore(histCap),
	}

	app := fiber.New(fiber.Config{
		ServerHeader: "dscdctl",
	})
	app.Use(recovermiddleware.New())

	app.Get("/api/stats", s.handleAPIStats)
	app.Get("/api/history", s.handleAPIHistory)
	app.Get("/events", s.handleSSE)

	s.app = app
	return s
}

// Run polls the engine in the background and serves HTTP on addr until
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.forcePoll()
	go s.runPoller(ctx)
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()
	logrus.WithField("addr", addr).WithField("interval", s.pollInterval).Info("dscdctl: stats server listening")
	return s.app.Listen(addr)
}

func (s *Server) forcePoll() {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("dscdctl: poller recovered")
		}
	}()
	st := s.engine.DumpStats()
	s.history.Record(time.Now().Unix(), st)
	s.statsMu.Lock()
	s.stats = st
	s.statsMu.Unlock()
	s.broadcast(st)
}

func (s *Server) runPoller(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.forcePoll()
		}
	}
}

func (s *Server) broadcast(st dscd.Stats) {
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	event := buildSSEEvent(payload)

	s.ssesMu.Lock()
	defer s.ssesMu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

var sseBufPool = sync.Pool{New: func() any { b := make([]byte, 0, 1024); return &b }}

func buildSSEEvent(payload []byte) []byte {
	buf := sseBufPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	*buf = append(*buf, "retry: 2000\ndata: "...)
	*buf = append(*buf, payload...)
	*buf = append(*buf, "\n\n"...)
	out := make([]byte, len(*buf))
	copy(out, *buf)
	sseBufPool.Put(buf)
	return out
}

func (s *Server) handleAPIStats(c fiber.Ctx) error {
	s.statsMu.RLock()
	snapshot := s.stats
	s.statsMu.RUnlock()
	c.Set("Content-Type", "application/json; charset=utf-8")
	b, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.Send(b)
}

func (s *Server) handleAPIHistory(c fiber.Ctx) error {
	snap := s.history.Snapshot()
	c.Set("Content-Type", "application/json; charset=utf-8")
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.Send(b)
}

func (s *Server) handleSSE(c fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ch := make(chan []byte, sseBufSize)

	s.ssesMu.Lock()
	s.clients[ch] = struct{}{}
	s.ssesMu.Unlock()

	s.statsMu.RLock()
	snapshot := s.stats
	s.statsMu.RUnlock()

	c.RequestCtx().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			s.ssesMu.Lock()
			delete(s.clients, ch)
			s.ssesMu.Unlock()
		}()

		if payload, err := json.Marshal(snapshot); err == nil {
			if _, err = w.Write(buildSSEEvent(payload)); err != nil {
				return
			}
			_ = w.Flush()
		}

		for event := range ch {
			if _, err := w.Write(event); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
