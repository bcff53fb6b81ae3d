package repository

import (
	"context"

	"github.com/RMahshie/rssifit/pkg/models"
)

// MeasurementRepository defines the interface for loading labeled measurements
type MeasurementRepository interface {
	// Load returns every labeled measurement the repository can see
	Load(ctx context.Context) (models.Dataset, error)
	// Sources lists the labeled inputs Load would read, with their distance
	Sources(ctx context.Context) ([]Source, error)
}

// Source is one labeled input file
type Source struct {
	Name     string
	Distance float64
}
