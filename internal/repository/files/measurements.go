package files

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/RMahshie/rssifit/internal/dataset"
	"github.com/RMahshie/rssifit/internal/repository"
	"github.com/RMahshie/rssifit/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultPattern matches the measurement files written by the capture app
const DefaultPattern = "data*.txt"

// FileMeasurementRepository implements MeasurementRepository over a directory
// of data<distance>m*.txt files
type FileMeasurementRepository struct {
	fsys    fs.FS
	pattern string
}

// NewFileMeasurementRepository creates a repository reading files matching
// pattern from fsys
func NewFileMeasurementRepository(fsys fs.FS, pattern string) (repository.MeasurementRepository, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &FileMeasurementRepository{fsys: fsys, pattern: pattern}, nil
}

// NewDirRepository is a convenience wrapper over os.DirFS
func NewDirRepository(dir, pattern string) (repository.MeasurementRepository, error) {
	return NewFileMeasurementRepository(os.DirFS(dir), pattern)
}

// Sources lists matching files that carry a distance label. Unlabeled files
// are skipped; a malformed label is an error.
func (r *FileMeasurementRepository) Sources(ctx context.Context) ([]repository.Source, error) {
	names, err := fs.Glob(r.fsys, r.pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", r.pattern, err)
	}

	sources := make([]repository.Source, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		distance, ok, err := dataset.ParseDistanceLabel(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug().Str("file", name).Msg("Skipping file without distance label")
			continue
		}
		sources = append(sources, repository.Source{Name: name, Distance: distance})
	}

	return sources, nil
}

// Load reads every labeled file and concatenates their measurements
func (r *FileMeasurementRepository) Load(ctx context.Context) (models.Dataset, error) {
	sources, err := r.Sources(ctx)
	if err != nil {
		return nil, err
	}

	var all models.Dataset
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ms, err := r.readSource(src)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("file", src.Name).
			Float64("distance", src.Distance).
			Int("samples", len(ms)).
			Msg("Read measurement file")
		all = append(all, ms...)
	}

	return all, nil
}

func (r *FileMeasurementRepository) readSource(src repository.Source) (models.Dataset, error) {
	f, err := r.fsys.Open(src.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer f.Close()

	return dataset.ReadMeasurements(f, src.Name, src.Distance)
}
