// Package config defines the simulation file structures and includes
// functions for loading, validating and exchanging them.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/omergulen/mortgage-simulator/pkg/comparison"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/spf13/viper"
)

// DefaultStrategy is used when a simulation file omits the strategy.
const DefaultStrategy = "none"

// Configuration holds a complete simulation: base loan offers, the option
// sets crossed with them and the market assumptions.
type Configuration struct {
	Logging       LoggingConfig      `json:"logging,omitempty" yaml:"logging,omitempty"`
	Output        OutputConfig       `json:"output,omitempty" yaml:"output,omitempty"`
	PropertyValue float64            `json:"propertyValue" yaml:"propertyValue"`
	ETFReturn     float64            `json:"etfReturn" yaml:"etfReturn"`
	InflationRate float64            `json:"inflationRate" yaml:"inflationRate"`
	HorizonYears  int                `json:"horizonYears" yaml:"horizonYears"`
	Strategy      string             `json:"strategy" yaml:"strategy"`
	Scenarios     []Scenario         `json:"scenarios" yaml:"scenarios"`
	Options       comparison.Options `json:"options" yaml:"options"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`         // json, console
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // pretty, csv
}

// Scenario is a named base loan offer.
type Scenario struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Loan Loan   `json:"loan" yaml:"loan"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML (or JSON) configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("horizonYears", constants.DefaultHorizonYears)
	v.SetDefault("strategy", DefaultStrategy)
	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.Normalize()
	return &configuration, nil
}

// Normalize fills in derived values: default horizon and strategy, missing
// scenario ids and monthly payments quoted as repayment rate or term.
func (c *Configuration) Normalize() {
	if c.HorizonYears == 0 {
		c.HorizonYears = constants.DefaultHorizonYears
	}
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))
	if c.Strategy == "" {
		c.Strategy = DefaultStrategy
	}
	for i := range c.Scenarios {
		c.Scenarios[i].normalize()
	}
}

func (s *Scenario) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" {
		s.ID = newID()
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	s.Loan.resolvePayment()
}
