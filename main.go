// Command latra-gateway runs the LATRA telematics ingestion gateway: a TCP
// listener for Teltonika Codec 8/8E devices that classifies and forwards
// activity reports to the LATRA regulator endpoint.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/halidi-hamidu/latra-gateway/internal/audit"
	"github.com/halidi-hamidu/latra-gateway/internal/config"
	"github.com/halidi-hamidu/latra-gateway/internal/directory"
	"github.com/halidi-hamidu/latra-gateway/internal/payload"
	"github.com/halidi-hamidu/latra-gateway/internal/session"
	"github.com/halidi-hamidu/latra-gateway/internal/store"
	"github.com/halidi-hamidu/latra-gateway/internal/upstream"
)

// vehicleLookup adapts *store.DB to the directory package's narrower
// Persistence contract.
type vehicleLookup struct {
	db *store.DB
}

func (v vehicleLookup) FindVehicleByIMEI(imei string) (string, bool, error) {
	return v.db.FindVehicleRegistration(imei)
}

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.New(os.Stderr)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Error("configuration error", "err", err.Error())
		return 1
	}

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "err", err.Error())
		return 1
	}
	defer db.Close()

	dir := directory.NewWithTTL(vehicleLookup{db}, cfg.CacheTTL)
	builder := payload.New(payload.FallbackPoint{Latitude: cfg.FallbackLat, Longitude: cfg.FallbackLon})
	sender := upstream.New(cfg.LatraAPIURL, cfg.LatraAPIToken)
	sink := audit.New(db, logger)

	addr := fmt.Sprintf("%s:%d", cfg.ListenHost, cfg.ListenPort)
	orchestrator := session.New(addr, cfg.Workers, dir, builder, sender, sink, logger)

	if err := orchestrator.Start(); err != nil {
		logger.Error("failed to start orchestrator", "err", err.Error())
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	orchestrator.Stop()
	return 0
}
