package schedule

import (
	"fmt"
	"os"

	"github.com/shiftcal/shiftcal/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultShiftMap returns the built-in shift code table. Deployments can
// override it with a shifts.yaml in the data directory.
func DefaultShiftMap() models.ShiftMap {
	return models.ShiftMap{
		"IV": "0600-1400",
		"A":  "0700-1500", "BH": "0700-1500", "C": "0700-1500",
		"D": "0700-1500", "HDmix": "0700-1500",
		"W": "0700-1500", "R": "0700-1500", "B": "0700-1500", "F": "0700-1500",
		"G": "0700-1500", "YC": "0700-1500",
		"2ed": "0800-1600",
		"CF":  "0800-1600",
		"6":   "0900-1700",
		"9":   "0900-2100",
		"E1":  "1300-2100",
		"E":   "1500-2300", "EC": "1500-2300", "EIV": "1500-2300",
		"ED": "1600-0000",
		"N":  "2100-0700",
		"13": "2300-0700",
		"5":  "0700-1700",
		"7":  "0700-1900",
		"IP": "0800-1600",
		"IH": "0800-1600",
		"T":  "0800-1400",
		"V":  models.OffShift,
		"-":  models.OffShift,
		"CL": "0800-1600",
		"HD": "0800-1600",
		"IM": "0800-1400",
		"PJ": "0700-1300",
	}
}

// shiftMapFile is the on-disk YAML shape.
type shiftMapFile struct {
	Shifts models.ShiftMap `yaml:"shifts"`
}

// LoadShiftMap reads a shift map from a YAML file and validates it.
func LoadShiftMap(path string) (models.ShiftMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file shiftMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing shift map: %w", err)
	}
	if len(file.Shifts) == 0 {
		return nil, fmt.Errorf("shift map %s contains no shifts", path)
	}
	if err := file.Shifts.Validate(); err != nil {
		return nil, fmt.Errorf("shift map %s: %w", path, err)
	}

	return file.Shifts, nil
}

// SaveShiftMap writes a shift map to a YAML file.
func SaveShiftMap(path string, m models.ShiftMap) error {
	data, err := yaml.Marshal(shiftMapFile{Shifts: m})
	if err != nil {
		return fmt.Errorf("encoding shift map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing shift map: %w", err)
	}
	return nil
}
