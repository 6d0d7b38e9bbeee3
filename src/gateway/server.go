package gateway

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/warp-contracts/minter/src/deploy"
	"github.com/warp-contracts/minter/src/utils/config"
	"github.com/warp-contracts/minter/src/utils/host"
	"github.com/warp-contracts/minter/src/utils/monitoring"
	"github.com/warp-contracts/minter/src/utils/task"
)

func stateCacheKey(height int64) string {
	return "state/" + strconv.FormatInt(height, 10)
}

// REST API in front of the host: mints, queries and monitoring
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	monitor monitoring.Monitor
	metrics http.Handler
	client  *deploy.Client
	host    *host.Host

	// Result of the state query, flushed on every commit
	cache *cache.Cache

	// Throttles requests that execute transactions
	limiter *rate.Limiter
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "gateway").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	self.cache = cache.New(config.Gateway.StateCacheTTL, 2*config.Gateway.StateCacheTTL)

	limit := rate.Inf
	if config.Gateway.ExecuteRateLimit > 0 {
		limit = rate.Limit(config.Gateway.ExecuteRateLimit)
	}
	self.limiter = rate.NewLimiter(limit, config.Gateway.ExecuteBurst)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	self.Router = gin.New()
	self.Router.Use(gin.Recovery(), self.count)
	self.routes()

	self.httpServer = &http.Server{
		Addr:              config.Gateway.RESTListenAddress,
		Handler:           self.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor

	registry := prometheus.NewRegistry()
	registry.MustRegister(monitor.GetPrometheusCollector())
	self.metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return self
}

func (self *Server) WithClient(client *deploy.Client, h *host.Host) *Server {
	self.client = client
	self.host = h
	return self
}

// Host hook, entries of older heights are unreachable after a commit
func (self *Server) OnCommit(result *host.TxResult) {
	self.cache.Flush()
}

func (self *Server) routes() {
	v1 := self.Router.Group("v1")
	{
		v1.GET("state", self.onGetState)
		v1.GET("tokens", self.onGetTokens)
		v1.GET("balance", self.onGetBalance)
		v1.POST("mint", self.throttle, self.onMint)
		v1.POST("token/send", self.throttle, self.onSend)
		v1.GET("health", func(c *gin.Context) { self.monitor.OnGetHealth(c) })
		v1.GET("monitor", func(c *gin.Context) { self.monitor.OnGetState(c) })

		if self.Config.IsDevelopment {
			v1.POST("faucet", self.throttle, self.onFaucet)
		}
	}

	self.Router.GET("metrics", func(c *gin.Context) { self.metrics.ServeHTTP(c.Writer, c.Request) })

	if self.Config.Profiler.Enabled {
		runtime.SetBlockProfileRate(self.Config.Profiler.BlockProfileRate)
		runtime.SetMutexProfileFraction(self.Config.Profiler.MutexProfileFraction)
		pprof.Register(self.Router)
	}
}

func (self *Server) count(c *gin.Context) {
	c.Next()
	if self.monitor != nil {
		self.monitor.GetReport().Gateway.State.RequestsServed.Inc()
	}
}

func (self *Server) throttle(c *gin.Context) {
	if self.limiter.Allow() {
		c.Next()
		return
	}
	self.monitor.GetReport().Gateway.Errors.RateLimited.Inc()
	c.AbortWithStatus(http.StatusTooManyRequests)
}

func (self *Server) run() (err error) {
	self.Log.WithField("address", self.httpServer.Addr).Info("Starting REST server")
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}
