package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fdmysterious/dstdsv/dstdsv"
	"go.uber.org/zap"
)

var version = "develop"

func isProduction() bool {
	return version != "develop"
}

func main() {
	// Setup logger
	var logger *zap.Logger
	if isProduction() {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	log := logger.Sugar()
	defer log.Sync()

	log.Infof("gauged Started")
	log.Info("-------------------------------------")
	log.Infof("%-15s: %s", "Version", version)
	log.Infof("%-15s: %v", "Production", isProduction())

	// Get server port from environment
	serverPort := os.Getenv("GAUGED_PORT")
	if serverPort == "" {
		serverPort = "8089"
	}

	// Device path from environment, discovery otherwise
	devicePath := os.Getenv("GAUGED_DEVICE")
	if devicePath == "" {
		gauges, err := dstdsv.FindGauges()
		if err != nil {
			log.Fatalf("Failed to enumerate ports: %s", err)
		}
		if len(gauges) == 0 {
			log.Fatal("No compatible gauge found")
		}
		devicePath = gauges[0].Path
	}

	log.Infof("%-15s: %s", "Server Port", serverPort)
	log.Infof("%-15s: %s", "Device", devicePath)
	log.Info("-------------------------------------")

	// Open the gauge
	dev, err := dstdsv.Open(devicePath, dstdsv.USBProfile, dstdsv.WithLogger(log))
	if err != nil {
		log.Fatalf("Failed to open gauge: %s", err)
	}
	defer dev.Close()

	// Create SSE handler and monitor
	sseHandler := NewSSEHandler(log)

	monitor := dstdsv.NewMonitor(dev.Protocol(),
		dstdsv.WithMonitorLogger(log),
		dstdsv.WithInterval(200*time.Millisecond),
	)
	monitor.AddHandler(sseHandler)

	if err := monitor.Start(); err != nil {
		log.Fatalf("Failed to start monitor: %s", err)
	}
	defer monitor.Stop()

	// Setup HTTP routes
	http.HandleFunc("/sse", sseHandler.HandleHTTP)
	http.HandleFunc("/", handleRoot)

	// Start HTTP server
	log.Infof("Starting HTTP server on port %s", serverPort)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", serverPort), nil); err != nil {
		log.Fatalf("Server stopped: %s", err)
	}
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "DST/DSV Gauge SSE Server\n\nConnect to /sse for the measurement stream")
}
