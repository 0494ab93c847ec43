// Package rest serves the explorer's JSON endpoints.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/lightningnetwork/lnd/ticker"

	chainApp "github.com/fd1az/chain-explorer/business/chain/app"
	"github.com/fd1az/chain-explorer/business/chain/domain"
	supplyDomain "github.com/fd1az/chain-explorer/business/supply/domain"
	"github.com/fd1az/chain-explorer/internal/apm"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/logger"
	"github.com/fd1az/chain-explorer/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/chain-explorer/business/api/infra/rest"

	limiterPruneInterval = 5 * time.Minute
	limiterIdle          = 10 * time.Minute
)

// Explorer answers chain queries.
type Explorer interface {
	Network() domain.Network
	GenesisDigest() domain.Digest
	Tip(ctx context.Context) (domain.BlockHeight, error)
	BlockInfo(ctx context.Context, sel domain.BlockSelector) (domain.BlockInfo, error)
	BlockDigest(ctx context.Context, sel domain.BlockSelector) (domain.Digest, error)
	UtxoDigest(ctx context.Context, leafIndex uint64) (domain.Digest, error)
	Utxo(ctx context.Context, leafIndex uint64) (chainApp.UtxoView, error)
	Announcement(ctx context.Context, sel domain.AnnouncementSelector) (chainApp.AnnouncementView, error)
}

// Supply reports supply at the current tip.
type Supply interface {
	Current(ctx context.Context) (supplyDomain.Report, error)
}

// Server is the HTTP front-end.
type Server struct {
	cfg      config.ServerConfig
	explorer Explorer
	supply   Supply
	log      logger.LoggerInterface
	tracer   apm.Tracer
	limiter  *ratelimit.KeyedLimiter
	pruner   ticker.Ticker

	router *mux.Router
	srv    *http.Server

	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewServer wires the routes. now may be nil.
func NewServer(cfg config.ServerConfig, explorer Explorer, supply Supply, log logger.LoggerInterface, now func() time.Time) *Server {
	s := &Server{
		cfg:      cfg,
		explorer: explorer,
		supply:   supply,
		log:      log,
		tracer:   apm.NewTracer(tracerName),
		limiter:  ratelimit.NewKeyed(cfg.RateLimitPerMinute, now),
		pruner:   ticker.New(limiterPruneInterval),
		quit:     make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.traceRequests, s.logRequests)
	if s.cfg.RateLimitPerMinute > 0 {
		r.Use(s.limitRequests)
	}

	rpc := r.PathPrefix("/rpc").Methods(http.MethodGet).Subrouter()
	rpc.HandleFunc("/network", s.handleNetwork)
	rpc.HandleFunc("/block_info/{selector:.+}", s.handleBlockInfo)
	rpc.HandleFunc("/block_digest/{selector:.+}", s.handleBlockDigest)
	rpc.HandleFunc("/utxo_digest/{index}", s.handleUtxoDigest)
	rpc.HandleFunc("/utxo/{index}", s.handleUtxo)
	rpc.HandleFunc("/announcement/{selector:.+}", s.handleAnnouncement)
	rpc.HandleFunc("/circulating_supply", s.handleCirculatingSupply)
	rpc.HandleFunc("/total_supply", s.handleTotalSupply)
	rpc.HandleFunc("/supply", s.handleSupply)

	r.HandleFunc("/rqs", s.handleRedirectQuery).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port and begins pruning idle limiter
// entries.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(context.Background(), "api server stopped", "error", err)
		}
	}()
	go s.pruneLimiter()

	s.log.Info(context.Background(), "api server listening", "port", s.cfg.Port)
	return nil
}

func (s *Server) pruneLimiter() {
	defer s.wg.Done()

	s.pruner.Resume()
	for {
		select {
		case <-s.pruner.Ticks():
			if n := s.limiter.Prune(limiterIdle); n > 0 {
				s.log.Debug(context.Background(), "pruned rate limiter entries", "count", n)
			}
		case <-s.quit:
			return
		}
	}
}

// Stop shuts the listener down and waits for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.srv != nil {
			err = s.srv.Shutdown(ctx)
		}
		s.wg.Wait()
		s.pruner.Stop()
	})
	return err
}
