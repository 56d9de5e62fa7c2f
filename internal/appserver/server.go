package appserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hpowernl/wafcli/internal/parser"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	isoLayout        = "2006-01-02T15:04:05.000000"
	healthChecker    = "ELB-HealthChecker"
	userAgentDisplay = 50
	shutdownTimeout  = 10 * time.Second
)

// HealthResponse is returned by /health
type HealthResponse struct {
	Status     string       `json:"status"`
	Timestamp  string       `json:"timestamp"`
	InstanceID string       `json:"instance_id"`
	Checks     HealthChecks `json:"checks"`
}

type HealthChecks struct {
	DiskSpace          string `json:"disk_space"`
	Memory             string `json:"memory"`
	DatabaseConnection string `json:"database_connection"`
}

// InstanceInfo is returned by /api/info
type InstanceInfo struct {
	InstanceID       string `json:"instance_id"`
	InstanceType     string `json:"instance_type"`
	PrivateIP        string `json:"private_ip"`
	PublicIP         string `json:"public_ip"`
	AvailabilityZone string `json:"availability_zone"`
	Region           string `json:"region"`
	Hostname         string `json:"hostname"`
	Uptime           string `json:"uptime"`
	Timestamp        string `json:"timestamp"`
}

// DatabaseInfo is returned by /api/database. The values are simulated.
type DatabaseInfo struct {
	Status           string `json:"status"`
	Type             string `json:"type"`
	MultiAZ          bool   `json:"multi_az"`
	BackupRetention  string `json:"backup_retention"`
	EngineVersion    string `json:"engine_version"`
	StorageType      string `json:"storage_type"`
	AllocatedStorage string `json:"allocated_storage"`
	ConnectionCount  int    `json:"connection_count"`
	LastBackup       string `json:"last_backup"`
	Timestamp        string `json:"timestamp"`
}

// Options configures a Server
type Options struct {
	StaticDir string
	Metadata  *MetadataClient
	Probe     SystemProbe
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Server is the demo application tier web server
type Server struct {
	echo     *echo.Echo
	metadata *MetadataClient
	probe    SystemProbe
	logger   zerolog.Logger
	now      func() time.Time
	requests *prometheus.CounterVec
}

// New builds the echo server and registers routes
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appserver_requests_total",
		Help: "HTTP requests served by route and status code",
	}, []string{"route", "code"})
	registry.MustRegister(requests)

	s := &Server{
		echo:     e,
		metadata: opts.Metadata,
		probe:    opts.Probe,
		logger:   opts.Logger,
		now:      opts.Now,
		requests: requests,
	}

	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:    true,
			LogURI:       true,
			LogStatus:    true,
			LogLatency:   true,
			LogRemoteIP:  true,
			LogRequestID: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				s.logger.Info().
					Str("request_id", v.RequestID).
					Str("remote_ip", v.RemoteIP).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
				return nil
			},
		}),
		s.countRequests,
	)

	e.GET("/", s.handleMain)
	e.GET("/health", s.handleHealth)
	e.GET("/api/info", s.handleInfo)
	e.GET("/api/database", s.handleDatabase)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	if opts.StaticDir != "" {
		e.Static("/static", opts.StaticDir)
	}

	return s
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		code := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
		return err
	}
}

func (s *Server) handleMain(c echo.Context) error {
	ctx := c.Request().Context()
	ua := c.Request().UserAgent()

	uaInfo := parser.ParseUserAgent(ua)
	display := ua
	if display == "" {
		display = "Unknown"
	}
	if len(display) > userAgentDisplay {
		display = display[:userAgentDisplay]
	}

	lb := "Direct"
	if strings.Contains(ua, healthChecker) {
		lb = "Yes"
	}

	data := PageData{
		InstanceID:       s.metadata.Get(ctx, "instance-id"),
		InstanceType:     s.metadata.Get(ctx, "instance-type"),
		PrivateIP:        s.metadata.Get(ctx, "local-ipv4"),
		AvailabilityZone: s.metadata.Get(ctx, "placement/availability-zone"),
		ClientIP:         c.RealIP(),
		UserAgent:        display + "...",
		Browser:          uaInfo.Browser,
		OS:               uaInfo.OS,
		Timestamp:        s.now().Format("2006-01-02 15:04:05") + " UTC",
		LoadBalancer:     lb,
	}

	var buf bytes.Buffer
	if err := mainPage.Execute(&buf, data); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error: "+err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSONPretty(http.StatusOK, HealthResponse{
		Status:     "healthy",
		Timestamp:  s.now().Format(isoLayout),
		InstanceID: s.metadata.Get(ctx, "instance-id"),
		Checks: HealthChecks{
			DiskSpace:          s.probe.DiskFree(ctx),
			Memory:             s.probe.MemoryAvailable(ctx),
			DatabaseConnection: "simulated_ok",
		},
	}, "  ")
}

func (s *Server) handleInfo(c echo.Context) error {
	ctx := c.Request().Context()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = unknown
	}

	return c.JSONPretty(http.StatusOK, InstanceInfo{
		InstanceID:       s.metadata.Get(ctx, "instance-id"),
		InstanceType:     s.metadata.Get(ctx, "instance-type"),
		PrivateIP:        s.metadata.Get(ctx, "local-ipv4"),
		PublicIP:         s.metadata.Get(ctx, "public-ipv4"),
		AvailabilityZone: s.metadata.Get(ctx, "placement/availability-zone"),
		Region:           s.metadata.Get(ctx, "placement/region"),
		Hostname:         hostname,
		Uptime:           s.probe.Uptime(ctx),
		Timestamp:        s.now().Format(isoLayout),
	}, "  ")
}

func (s *Server) handleDatabase(c echo.Context) error {
	now := s.now()
	lastBackup := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, now.Nanosecond(), now.Location())

	return c.JSONPretty(http.StatusOK, DatabaseInfo{
		Status:           "connected",
		Type:             "MySQL RDS",
		MultiAZ:          true,
		BackupRetention:  "7 days",
		EngineVersion:    "8.0.35",
		StorageType:      "gp2",
		AllocatedStorage: "20 GB",
		ConnectionCount:  5,
		LastBackup:       lastBackup.Format(isoLayout),
		Timestamp:        now.Format(isoLayout),
	}, "  ")
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("Shutting down the server")
		return s.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
