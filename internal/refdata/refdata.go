// Package refdata holds the read-only French reference tables the evaluator
// consults: appreciation by department and rent bands by postal code or
// region. Tables are loaded once and never mutated.
package refdata

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed france.yaml
var defaultTables []byte

// Band is a rent range in € per m² per month.
type Band struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// UnmarshalYAML decodes a band written as [min, max, median].
func (b *Band) UnmarshalYAML(node *yaml.Node) error {
	var v []float64
	if err := node.Decode(&v); err != nil {
		return eris.Wrapf(err, "refdata: band at line %d", node.Line)
	}
	if len(v) != 3 {
		return eris.Errorf("refdata: band at line %d needs [min, max, median], got %d values", node.Line, len(v))
	}
	if v[0] > v[1] || v[2] < v[0] || v[2] > v[1] {
		return eris.Errorf("refdata: band at line %d is not ordered min <= median <= max", node.Line)
	}
	*b = Band{Min: v[0], Max: v[1], Median: v[2]}
	return nil
}

type appreciationFile struct {
	ForwardAdjustmentPct float64            `yaml:"forward_adjustment_pct"`
	DefaultPct           float64            `yaml:"default_pct"`
	Departments          map[string]float64 `yaml:"departments"`
}

type tablesFile struct {
	Appreciation      appreciationFile  `yaml:"appreciation"`
	RentControl       map[string]Band   `yaml:"rent_control"`
	RegionalEstimates map[string]Band   `yaml:"regional_estimates"`
	DepartmentRegions map[string]string `yaml:"department_regions"`
	NationalAverage   Band              `yaml:"national_average"`
}

// Tables is an immutable snapshot of the reference data. The zero value is
// not usable; build one with Default, Load or Parse.
type Tables struct {
	data tablesFile
}

// Default returns the tables embedded in the binary.
func Default() (*Tables, error) {
	return Parse(defaultTables)
}

// Load reads tables from a YAML file. An empty path returns Default.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "refdata: read %s", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "refdata: load %s", path)
	}
	return t, nil
}

// Parse decodes tables from YAML bytes.
func Parse(data []byte) (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "refdata: parse tables")
	}
	if f.NationalAverage == (Band{}) {
		return nil, eris.New("refdata: national_average is required")
	}
	return &Tables{data: f}, nil
}

// Department returns the department code of a postal code: three digits for
// overseas (97x), 2A/2B for Corsica, otherwise the first two digits.
func Department(postalCode string) string {
	pc := strings.TrimSpace(postalCode)
	switch {
	case len(pc) < 2:
		return ""
	case strings.HasPrefix(pc, "97") && len(pc) == 5:
		return pc[:3]
	case strings.HasPrefix(pc, "20"):
		if len(pc) > 2 && strings.IndexByte("01234", pc[2]) < 0 {
			return "2B"
		}
		return "2A"
	default:
		return pc[:2]
	}
}

// AppreciationRate returns the annual appreciation for a postal code as a
// fraction. forward adds the stabilization adjustment. Unknown departments
// use the default rate.
func (t *Tables) AppreciationRate(postalCode string, forward bool) float64 {
	a := t.data.Appreciation
	pct, ok := a.Departments[appreciationKey(postalCode)]
	if !ok {
		pct = a.DefaultPct
	}
	if forward {
		pct += a.ForwardAdjustmentPct
	}
	return pct / 100
}

// appreciationKey keys appreciation rows by the first two characters of a
// full postal code.
func appreciationKey(postalCode string) string {
	pc := strings.TrimSpace(postalCode)
	if len(pc) == 5 {
		return pc[:2]
	}
	return pc
}

// RentBand returns the legal rent-control band for a postal code, if the
// code lies in a controlled zone.
func (t *Tables) RentBand(postalCode string) (Band, bool) {
	pc := strings.TrimSpace(postalCode)
	if len(pc) != 5 {
		return Band{}, false
	}
	b, ok := t.data.RentControl[pc]
	return b, ok
}

// Region returns the region of a postal code's department.
func (t *Tables) Region(postalCode string) (string, bool) {
	r, ok := t.data.DepartmentRegions[Department(postalCode)]
	return r, ok
}

// RegionalEstimate returns the typical market band for a postal code's
// region, falling back to the national average. ok is false only for
// postal codes too short to locate.
func (t *Tables) RegionalEstimate(postalCode string) (Band, bool) {
	if Department(postalCode) == "" {
		return Band{}, false
	}
	if region, ok := t.Region(postalCode); ok {
		if b, ok := t.data.RegionalEstimates[region]; ok {
			return b, true
		}
	}
	return t.data.NationalAverage, true
}

// RecommendedRent returns the controlled median rent for the surface.
func (t *Tables) RecommendedRent(postalCode string, surfaceM2 float64) (float64, bool) {
	b, ok := t.RentBand(postalCode)
	if !ok {
		return 0, false
	}
	return b.Median * surfaceM2, true
}
