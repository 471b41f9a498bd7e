package dstdsv

import (
	"strings"

	"go.bug.st/serial/enumerator"
)

// Imada DST/DSV series USB identifiers:
// VID 1412, PID 0200
const usbVID = "1412"

var usbPIDs = map[string]bool{
	"0200": true, // DST/DSV series
}

// PortInfo identifies a connected gauge
type PortInfo struct {
	Path    string
	Product string
}

// FindGauges filters the connected serial ports down to DST/DSV gauges,
// matching on the USB vendor and product identifiers.
func FindGauges() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	var found []PortInfo
	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		if !matchesGauge(port) {
			continue
		}

		found = append(found, PortInfo{
			Path:    port.Name,
			Product: port.Product,
		})
	}

	return found, nil
}

// matchesGauge returns true if a port carries the gauge's USB identifiers
func matchesGauge(port *enumerator.PortDetails) bool {
	if !strings.EqualFold(port.VID, usbVID) {
		return false
	}
	return usbPIDs[strings.ToLower(port.PID)]
}
