package provider

import (
	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/infrastructure/walletloader"
)

type addressProviderImpl struct {
	filePath string
	logger   port.Logger
}

// NewAddressProvider creates a port.AddressProvider that reads the tracked
// addresses from filePath on every call, so edits apply on the next cycle.
func NewAddressProvider(filePath string, logger port.Logger) port.AddressProvider {
	if filePath == "" {
		filePath = walletloader.DefaultAddressFilePath
	}
	return &addressProviderImpl{filePath: filePath, logger: logger}
}

// GetAddresses loads the tracked addresses from the configured file.
func (p *addressProviderImpl) GetAddresses() ([]string, error) {
	p.logger.Debug("Loading addresses from file", "path", p.filePath)
	addrs, err := walletloader.LoadAddresses(p.filePath, func(lineNum int, line string, err error) {
		p.logger.Warn("Skipping invalid address", "path", p.filePath, "line_number", lineNum, "address", line, "error", err)
	})
	if err != nil {
		p.logger.Error("Failed to load addresses", "path", p.filePath, "error", err)
		return nil, err
	}
	p.logger.Info("Addresses loaded successfully", "count", len(addrs), "path", p.filePath)
	return addrs, nil
}
