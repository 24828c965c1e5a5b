package zone

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"github.com/san-kum/soarsim/internal/dynamo"
)

var ErrBadZoneFile = errors.New("zone: malformed file")

// Thermal is a single convective updraft. The core drifts with the
// horizontal wind from the moment it is born.
type Thermal struct {
	Birth    float64 // s
	X, Y     float64 // m, position at birth
	WStar    float64 // convective velocity scale, m/s
	Zi       float64 // mixing layer height, m
	Lifetime float64 // s
}

func (th Thermal) Active(t float64) bool {
	return t >= th.Birth && t < th.Birth+th.Lifetime
}

func (th Thermal) Center(t, wx, wy float64) (float64, float64) {
	age := t - th.Birth
	return th.X + wx*age, th.Y + wy*age
}

// Updraft returns the vertical velocity at horizontal distance r and
// altitude z, using a Gaussian core sized from the mixing layer.
func (th Thermal) Updraft(r, z float64) float64 {
	if z <= 0 || z >= th.Zi {
		return 0
	}
	ratio := z / th.Zi
	core := th.WStar * math.Cbrt(ratio) * (1 - 1.1*ratio)
	radius := math.Max(10, 0.102*math.Cbrt(ratio)*(1-0.25*ratio)*th.Zi)
	return core * math.Exp(-(r*r)/(radius*radius))
}

// Bounds is the box the thermals are generated in.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

func (b Bounds) Contains(x, y, z float64) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY &&
		z >= b.MinZ && z <= b.MaxZ
}

// FlatThermal is a flat zone with drifting thermals and Gaussian noise on
// the vertical wind. Noise draws share one seeded source guarded by a
// mutex, so a zone can be queried from several goroutines.
type FlatThermal struct {
	bounds   Bounds
	wx, wy   float64
	thermals []Thermal
	noiseStd float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFlatThermal loads the zone configuration and the thermal scenario.
func NewFlatThermal(scenarioPath, configPath string, noiseStd float64, seed uint64) (*FlatThermal, error) {
	if noiseStd < 0 {
		return nil, fmt.Errorf("noise standard deviation %v: %w", noiseStd, dynamo.ErrParameterBounds)
	}
	cfg, err := readZoneConfig(configPath)
	if err != nil {
		return nil, err
	}
	thermals, err := readScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	z := &FlatThermal{
		thermals: thermals,
		noiseStd: noiseStd,
		rng:      rand.New(rand.NewSource(seed)),
	}
	z.wx = cfg["wx"]
	z.wy = cfg["wy"]
	z.bounds = Bounds{
		MinX: cfg["min_x"], MaxX: cfg["max_x"],
		MinY: cfg["min_y"], MaxY: cfg["max_y"],
		MinZ: cfg["min_z"], MaxZ: cfg["max_z"],
	}
	return z, nil
}

func (z *FlatThermal) Name() string        { return "flat_thermal_soaring_zone" }
func (z *FlatThermal) Bounds() Bounds      { return z.bounds }
func (z *FlatThermal) NoiseStd() float64   { return z.noiseStd }
func (z *FlatThermal) Thermals() []Thermal { return append([]Thermal(nil), z.thermals...) }

func (z *FlatThermal) Wind(x, y, alt, t float64) dynamo.Wind {
	w := dynamo.Wind{X: z.wx, Y: z.wy}
	if !z.bounds.Contains(x, y, alt) {
		return w
	}
	for _, th := range z.thermals {
		if !th.Active(t) {
			continue
		}
		cx, cy := th.Center(t, z.wx, z.wy)
		w.Z += th.Updraft(math.Hypot(x-cx, y-cy), alt)
	}
	if z.noiseStd > 0 {
		z.mu.Lock()
		w.Z += z.noiseStd * z.rng.NormFloat64()
		z.mu.Unlock()
	}
	return w
}

// WriteLog dumps the thermals active at t as CSV rows.
func (z *FlatThermal) WriteLog(w io.Writer, t float64) error {
	cw := csv.NewWriter(w)
	for i, th := range z.thermals {
		if !th.Active(t) {
			continue
		}
		cx, cy := th.Center(t, z.wx, z.wy)
		row := []string{
			strconv.FormatFloat(t, 'f', 3, 64),
			strconv.Itoa(i),
			strconv.FormatFloat(cx, 'f', 3, 64),
			strconv.FormatFloat(cy, 'f', 3, 64),
			strconv.FormatFloat(th.WStar, 'f', 3, 64),
			strconv.FormatFloat(th.Zi, 'f', 3, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var zoneConfigKeys = []string{"min_x", "max_x", "min_y", "max_y", "min_z", "max_z", "wx", "wy"}

func readZoneConfig(path string) (map[string]float64, error) {
	records, err := readCSV(path, 2)
	if err != nil {
		return nil, err
	}
	cfg := make(map[string]float64, len(records))
	for _, rec := range records {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: key %q: %w", path, rec[0], ErrBadZoneFile)
		}
		cfg[strings.TrimSpace(rec[0])] = v
	}
	missing := lo.Filter(zoneConfigKeys, func(k string, _ int) bool {
		_, ok := cfg[k]
		return !ok
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing %v: %w", path, missing, ErrBadZoneFile)
	}
	return cfg, nil
}

func readScenario(path string) ([]Thermal, error) {
	records, err := readCSV(path, 6)
	if err != nil {
		return nil, err
	}
	thermals := make([]Thermal, 0, len(records))
	for i, rec := range records {
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				if i == 0 {
					// header row
					vals = nil
					break
				}
				return nil, fmt.Errorf("%s: row %d: %w", path, i+1, ErrBadZoneFile)
			}
			vals[j] = v
		}
		if vals == nil {
			continue
		}
		th := Thermal{Birth: vals[0], X: vals[1], Y: vals[2], WStar: vals[3], Zi: vals[4], Lifetime: vals[5]}
		if th.Zi <= 0 || th.Lifetime <= 0 {
			return nil, fmt.Errorf("%s: row %d: non-positive z_i or lifetime: %w", path, i+1, ErrBadZoneFile)
		}
		thermals = append(thermals, th)
	}
	return thermals, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = fields
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, ErrBadZoneFile)
	}
	return records, nil
}
