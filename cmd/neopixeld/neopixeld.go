package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"dev.acmcsuf.com/christmas/lib/csvutil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"libdb.so/hserve"
	"libdb.so/ledctl"

	"github.com/zachmoshe/neopixeld"
)

var (
	httpAddr        = "0.0.0.0:9000"
	httpAdminAddr   = "127.0.0.1:9002"
	devicesCSV      = "devices.csv"
	updateFrequency = float64(neopixeld.DefaultUpdateFrequency)
	intensityFactor = 0.25
	noHardware      = false
	verbose         = false
)

func init() {
	pflag.StringVarP(&httpAddr, "http-addr", "a", httpAddr, "HTTP server address")
	pflag.StringVarP(&httpAdminAddr, "http-admin-addr", "A", httpAdminAddr, "HTTP admin server address")
	pflag.StringVar(&devicesCSV, "devices", devicesCSV, "CSV file of devices (name, pixels, channels, gpio pin)")
	pflag.Float64Var(&updateFrequency, "update-frequency", updateFrequency, "effect update ticks per second")
	pflag.Float64Var(&intensityFactor, "intensity-factor", intensityFactor, "intensity applied before writing to hardware")
	pflag.BoolVar(&noHardware, "no-hardware", noHardware, "drive stream viewers only, skip WS281x output")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

var ws281xConfig = ledctl.WS281xConfig{
	ColorOrder:   ledctl.BGROrder,
	ColorModel:   ledctl.RGBModel,
	PWMFrequency: 800000,
	DMAChannel:   10,
}

// deviceRow is one line of the devices CSV.
type deviceRow struct {
	Name     string
	Pixels   int
	Channels int
	GPIOPin  int
}

func main() {
	log.SetFlags(0)
	pflag.Parse()

	logHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(),
		TimeFormat: "15:04:05 PM", // extended time.Kitchen
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})

	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	rows, err := csvutil.UnmarshalFile[deviceRow](devicesCSV)
	if err != nil {
		return fmt.Errorf("failed to unmarshal CSV file %q: %v", devicesCSV, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no devices defined in %q", devicesCSV)
	}

	devices := make(map[string]neopixeld.Device, len(rows))
	streams := make(map[string]*neopixeld.StreamServer, len(rows))

	for _, row := range rows {
		if _, ok := devices[row.Name]; ok {
			return fmt.Errorf("duplicate device name %q", row.Name)
		}

		stream, err := neopixeld.NewStreamServer(neopixeld.StreamServerOpts{
			Name:   row.Name,
			Shape:  neopixeld.Shape{Pixels: row.Pixels, Channels: row.Channels},
			Logger: logger.With("component", "stream", "device", row.Name),
		})
		if err != nil {
			return fmt.Errorf("failed to create stream for device %q: %v", row.Name, err)
		}
		streams[row.Name] = stream

		outputs := fanoutDevice{stream}
		if !noHardware {
			hw, err := newWS281xDevice(row, intensityFactor)
			if err != nil {
				return fmt.Errorf("failed to create WS281x output for device %q: %v", row.Name, err)
			}
			outputs = append(outputs, hw)
		}
		devices[row.Name] = outputs
	}

	controller := neopixeld.NewController(neopixeld.ControllerOpts{
		Devices:         devices,
		UpdateFrequency: updateFrequency,
		Logger:          logger.With("component", "controller"),
	})

	if err := controller.Start(); err != nil {
		return err
	}
	defer controller.Stop()

	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		httpLogger := httplog.NewLogger("neopixeld", httplog.Options{
			LogLevel: logLevel(),
			Concise:  true,
		})

		r := chi.NewRouter()
		r.Use(httplog.RequestLogger(httpLogger))

		r.Get("/ws/{device}", func(w http.ResponseWriter, r *http.Request) {
			stream, ok := streams[chi.URLParam(r, "device")]
			if !ok {
				http.Error(w, "unknown device", http.StatusNotFound)
				return
			}

			stream.ServeHTTP(w, r)
		})

		r.Get("/devices.csv", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", "attachment; filename=devices.csv")

			csvw := csv.NewWriter(w)
			csvutil.Marshal(csvw, rows)
		})

		logger.Info(
			"starting public HTTP server",
			"addr", httpAddr)

		return hserve.ListenAndServe(ctx, httpAddr, r)
	})

	errg.Go(func() error {
		admin := newAdminHandler(controller, streams, logger.With("component", "admin"))

		logger.Info(
			"starting admin HTTP server",
			"addr", httpAdminAddr)

		return hserve.ListenAndServe(ctx, httpAdminAddr, admin)
	})

	return errg.Wait()
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// fanoutDevice drives several same-shape outputs as one device, so a
// strip can go to the hardware and to stream viewers at once.
type fanoutDevice []neopixeld.Device

func (d fanoutDevice) Shape() neopixeld.Shape { return d[0].Shape() }

func (d fanoutDevice) Update(frame neopixeld.Frame) error {
	var errs []error
	for _, dev := range d {
		if err := dev.Update(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
