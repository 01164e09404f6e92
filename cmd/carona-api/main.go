// README: Entry point; loads config, wires providers, planner, trip and vehicle storage, starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	gmaps "googlemaps.github.io/maps"

	"carona/internal/config"
	httptransport "carona/internal/http"
	"carona/internal/infra"
	"carona/internal/logger"
	"carona/internal/maps"
	"carona/internal/modules/trip"
	"carona/internal/modules/vehicle"
	"carona/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("carona-api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	if err := infra.Migrate(ctx, dbPool); err != nil {
		return err
	}

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	geocoder, router, err := newProviders(cfg, zl)
	if err != nil {
		return err
	}
	planner := service.NewRoutePlanner(geocoder, router, zl.Named("planner"))

	originIndex := trip.NewGeoIndex(redisClient)
	tripSvc := trip.NewService(
		trip.NewStore(dbPool),
		originIndex,
		planner,
		zl.Named("trip"),
		trip.Options{NearbyRadiusKm: cfg.NearbyRadiusKm},
	)

	vehicleSvc := vehicle.NewService(vehicle.NewStore(dbPool), originIndex, zl.Named("vehicle"), nil)

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.ServerDeps{
		Planner:  planner,
		Trips:    tripSvc,
		Vehicles: vehicleSvc,
		Log:      zl.Named("http"),
	})
	return server.Run(ctx)
}

// newProviders builds the geocoder and router. All provider calls in the
// process share one throttle and one HTTP client.
func newProviders(cfg config.Config, zl *zap.Logger) (service.Geocoder, service.Router, error) {
	throttle := maps.NewThrottle(cfg.ThrottleInterval, nil)
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	var google *maps.GoogleProvider
	if cfg.Geocoder.Provider == config.ProviderGoogle || cfg.Router.Provider == config.ProviderGoogle {
		var err error
		google, err = maps.NewGoogleProvider(cfg.GoogleMapsAPIKey, cfg.Geocoder.Region, throttle,
			zl.Named("google"), gmaps.WithHTTPClient(httpClient))
		if err != nil {
			return nil, nil, err
		}
	}

	var geocoder service.Geocoder
	switch cfg.Geocoder.Provider {
	case config.ProviderOpenCage:
		geocoder = maps.NewOpenCageGeocoder(maps.OpenCageConfig{
			BaseURL:   cfg.Geocoder.URL,
			APIKey:    cfg.Geocoder.APIKey,
			Region:    cfg.Geocoder.Region,
			UserAgent: cfg.UserAgent,
		}, httpClient, throttle, zl.Named("opencage"))
	case config.ProviderGoogle:
		geocoder = google
	default:
		return nil, nil, fmt.Errorf("unknown geocoder provider %q", cfg.Geocoder.Provider)
	}

	var router service.Router
	switch cfg.Router.Provider {
	case config.ProviderOSRM:
		router = maps.NewOSRMRouter(maps.OSRMConfig{
			BaseURL:   cfg.Router.URL,
			UserAgent: cfg.UserAgent,
		}, httpClient, throttle, zl.Named("osrm"))
	case config.ProviderGoogle:
		router = google
	default:
		return nil, nil, fmt.Errorf("unknown router provider %q", cfg.Router.Provider)
	}

	zl.Info("map providers ready",
		zap.String("geocoder", cfg.Geocoder.Provider),
		zap.String("router", cfg.Router.Provider),
		zap.Duration("throttle", cfg.ThrottleInterval),
	)
	return geocoder, router, nil
}
