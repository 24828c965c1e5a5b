package storage

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/soarsim/internal/flight"
)

var (
	stateColumns   = []string{"x", "y", "z", "V", "gamma", "khi", "alpha", "beta", "sigma"}
	controlColumns = []string{"dalpha", "dbeta", "dsigma"}
	windColumns    = []string{"wx", "wy", "wz"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteStateLog writes one row per recorded state: time, the nine state
// components, and the command and wind applied from that state. The final
// row carries zeros for the last two groups.
func WriteStateLog(path string, res *flight.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeStates(f, res); err != nil {
		return err
	}
	return f.Close()
}

func writeStates(out io.Writer, res *flight.Result) error {
	w := csv.NewWriter(out)

	header := append([]string{"time"}, stateColumns...)
	header = append(header, controlColumns...)
	header = append(header, windColumns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, x := range res.States {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(res.Times[i]))
		for _, v := range x {
			row = append(row, formatFloat(v))
		}
		for j := range controlColumns {
			v := 0.0
			if i < len(res.Controls) && j < len(res.Controls[i]) {
				v = res.Controls[i][j]
			}
			row = append(row, formatFloat(v))
		}
		if i < len(res.Winds) {
			wd := res.Winds[i]
			row = append(row, formatFloat(wd.X), formatFloat(wd.Y), formatFloat(wd.Z))
		} else {
			row = append(row, "0", "0", "0")
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ZoneLogger is implemented by zones that can dump their state at a time.
type ZoneLogger interface {
	WriteLog(w io.Writer, t float64) error
}

// WriteZoneLog dumps the zone at time t. Zones without a log format are
// skipped and report false.
func WriteZoneLog(path string, z any, t float64) (bool, error) {
	zl, ok := z.(ZoneLogger)
	if !ok {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	f, err := os.Create(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := zl.WriteLog(f, t); err != nil {
		return false, err
	}
	return true, f.Close()
}
