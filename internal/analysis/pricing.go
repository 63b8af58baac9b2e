package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/egresswatch/egresswatch/internal/pkg/errors"
)

const bytesPerGB = 1e9

// Tier is one pricing band. UpperBytes of zero marks the unbounded
// final tier; bytes beyond a tier's bound spill into the next.
type Tier struct {
	UpperBytes  float64 `yaml:"upper_bytes"`
	RatePerByte float64 `yaml:"rate_per_byte"`
}

// PricingTable maps a region to its ordered tier list
type PricingTable map[string][]Tier

// DefaultRegion is the fallback key used for unknown regions
const DefaultRegion = "default"

// Validate checks the tier-ordering invariant for every region: bounds
// strictly increasing, exactly one unbounded final tier, non-negative
// rates. A violation is an operator mistake and is fatal at startup.
func (t PricingTable) Validate() error {
	if len(t) == 0 {
		return errors.ConfigurationError("pricing table is empty", nil)
	}
	if _, ok := t[DefaultRegion]; !ok {
		return errors.ConfigurationError("pricing table has no default region", nil)
	}
	for region, tiers := range t {
		if len(tiers) == 0 {
			return errors.ConfigurationError(fmt.Sprintf("region %s has no tiers", region), nil)
		}
		prev := 0.0
		for i, tier := range tiers {
			last := i == len(tiers)-1
			if tier.RatePerByte < 0 {
				return errors.ConfigurationError(
					fmt.Sprintf("region %s tier %d has negative rate", region, i), nil)
			}
			if last {
				if tier.UpperBytes != 0 {
					return errors.ConfigurationError(
						fmt.Sprintf("region %s final tier must be unbounded", region), nil)
				}
				continue
			}
			if tier.UpperBytes <= prev {
				return errors.ConfigurationError(
					fmt.Sprintf("region %s tier bounds must be strictly increasing at tier %d", region, i), nil)
			}
			prev = tier.UpperBytes
		}
	}
	return nil
}

// Tiers returns the tier list for a region, falling back to the default
// region. The second return reports whether the fallback was used.
func (t PricingTable) Tiers(region string) ([]Tier, bool) {
	if tiers, ok := t[region]; ok {
		return tiers, false
	}
	return t[DefaultRegion], true
}

// LoadPricingTable reads a YAML pricing table from disk and validates it
func LoadPricingTable(path string) (PricingTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigurationError("failed to read pricing table", err)
	}
	var table PricingTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.ConfigurationError("failed to parse pricing table", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// DefaultPricingTable returns the built-in egress pricing, modeled on
// public cloud internet-egress rate cards. Zone 1 covers the cheapest
// geographies and doubles as the default.
func DefaultPricingTable() PricingTable {
	zone1 := []Tier{
		{UpperBytes: 5 * bytesPerGB, RatePerByte: 0},
		{UpperBytes: 10000 * bytesPerGB, RatePerByte: 0.087 / bytesPerGB},
		{UpperBytes: 50000 * bytesPerGB, RatePerByte: 0.083 / bytesPerGB},
		{UpperBytes: 150000 * bytesPerGB, RatePerByte: 0.07 / bytesPerGB},
		{RatePerByte: 0.05 / bytesPerGB},
	}
	zone2 := []Tier{
		{UpperBytes: 5 * bytesPerGB, RatePerByte: 0},
		{UpperBytes: 10000 * bytesPerGB, RatePerByte: 0.12 / bytesPerGB},
		{UpperBytes: 50000 * bytesPerGB, RatePerByte: 0.085 / bytesPerGB},
		{UpperBytes: 150000 * bytesPerGB, RatePerByte: 0.08 / bytesPerGB},
		{RatePerByte: 0.076 / bytesPerGB},
	}
	zone3 := []Tier{
		{UpperBytes: 5 * bytesPerGB, RatePerByte: 0},
		{UpperBytes: 10000 * bytesPerGB, RatePerByte: 0.181 / bytesPerGB},
		{UpperBytes: 50000 * bytesPerGB, RatePerByte: 0.175 / bytesPerGB},
		{UpperBytes: 150000 * bytesPerGB, RatePerByte: 0.17 / bytesPerGB},
		{RatePerByte: 0.16 / bytesPerGB},
	}
	return PricingTable{
		"zone1":       zone1,
		"zone2":       zone2,
		"zone3":       zone3,
		DefaultRegion: zone1,
	}
}
