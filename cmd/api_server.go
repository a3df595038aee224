package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/fastblur/fastblur"
	"github.com/rm-hull/fastblur/internal"
	models "github.com/rm-hull/fastblur/models/blur"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

const defaultRadius = "5"

type ServerOptions struct {
	MaxUploadBytes   int64
	CompressionLevel int
	Debug            bool
	Metrics          bool
}

func ApiServer(cfg *internal.Config, debug bool) error {
	internal.ShowVersion()
	internal.EnvironmentVars()

	r, err := NewRouter(ServerOptions{
		MaxUploadBytes:   cfg.MaxUploadBytes,
		CompressionLevel: cfg.CompressionLevel,
		Debug:            debug,
		Metrics:          true,
	})
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting HTTP API Server on port %d...", cfg.Port)
	if err := r.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %w", cfg.Port, err)
	}
	return nil
}

func NewRouter(opts ServerOptions) (*gin.Engine, error) {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
	)

	if opts.Metrics {
		prometheus := ginprom.New(
			ginprom.Engine(r),
			ginprom.Path("/metrics"),
			ginprom.Ignore("/healthz"),
		)
		r.Use(prometheus.Instrument())
	}

	if opts.Debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	if err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{}); err != nil {
		return nil, fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	r.POST("/v1/blur", blurHandler(opts.MaxUploadBytes, opts.CompressionLevel))
	return r, nil
}

func blurHandler(maxUploadBytes int64, compressionLevel int) gin.HandlerFunc {
	return func(c *gin.Context) {
		radius, err := fastblur.ParseRadius(c.DefaultQuery("radius", defaultRadius))
		if err != nil {
			abortWithError(c, err)
			return
		}
		mode, err := fastblur.ParseMode(c.Query("mode"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		intensity, err := fastblur.ParseIntensity(c.Query("intensity"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		data, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Kind:  "TooLarge",
					Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				})
				return
			}
			abortWithError(c, fmt.Errorf("%w: failed to read request body: %w", fastblur.ErrInvalidInputKind, err))
			return
		}

		out, err := fastblur.BlurSource(fastblur.FromBytes(data), radius, fastblur.Options{
			Mode:             mode,
			Intensity:        intensity,
			CompressionLevel: compressionLevel,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Header(models.HeaderRadius, strconv.Itoa(fastblur.NormalizeRadius(radius)))
		c.Header(models.HeaderMode, mode.String())
		c.Header(models.HeaderIntensity, intensity.String())
		c.Data(http.StatusOK, "image/png", out)
	}
}

func abortWithError(c *gin.Context, err error) {
	kind := fastblur.KindOf(err)
	c.AbortWithStatusJSON(statusFor(kind), models.ErrorResponse{Kind: kind, Error: err.Error()})
}

func statusFor(kind string) int {
	switch kind {
	case "ArgumentType", "InvalidArgument", "InvalidInputKind":
		return http.StatusBadRequest
	case "FormatError":
		return http.StatusUnprocessableEntity
	case "TooLarge":
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
