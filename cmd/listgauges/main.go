package main

import (
	"fmt"

	"github.com/fdmysterious/dstdsv/dstdsv"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewDevelopment()
	log := logger.Sugar()
	defer log.Sync()

	gauges, err := dstdsv.FindGauges()
	if err != nil {
		log.Fatalf("Failed to enumerate serial ports: %s", err)
	}

	if len(gauges) == 0 {
		fmt.Println("Found no compatible device.")
		return
	}

	fmt.Println("Found compatible devices:")
	for _, g := range gauges {
		fmt.Printf("- %s: %s\n", g.Path, g.Product)
	}
}
