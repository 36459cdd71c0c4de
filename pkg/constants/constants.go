// Package constants provides shared constants for the mortgage-simulator application.
package constants

// Calendar and rate conversion constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Amortization constants
const (
	// BalanceEpsilon is the balance below which a loan counts as paid off.
	BalanceEpsilon = 0.01

	// PayoffHorizonYears bounds the simulation used for payoff queries so a
	// loan whose payment never covers its interest still terminates.
	PayoffHorizonYears = 50

	// BalanceLookaheadYears is how far past a target year BalanceAtYear simulates.
	BalanceLookaheadYears = 5
)

// German capital gains regime (Teilfreistellung, Abgeltungsteuer incl.
// Solidaritätszuschlag, Sparer-Pauschbetrag).
const (
	// PartialExemption is the share of equity-fund gains that is tax exempt.
	PartialExemption = 0.30

	// TaxableFraction is the share of gains that is taxable.
	TaxableFraction = 1 - PartialExemption

	// CapitalGainsTaxRate is applied to the taxable fraction above the allowance.
	CapitalGainsTaxRate = 0.26375

	// TaxFreeAllowance is the yearly allowance on taxable gains.
	TaxFreeAllowance = 1000.0

	// HarvestCeiling is the largest gain that can be realized in one year
	// without exceeding the allowance (about 1428.57).
	HarvestCeiling = TaxFreeAllowance / TaxableFraction
)

// Comparison constants
var (
	// CheckpointYears are the horizons at which scenarios are snapshotted.
	CheckpointYears = []int{10, 20, 30}
)

const (
	// DefaultHorizonYears is used when a simulation file omits horizonYears.
	DefaultHorizonYears = 30

	// DefaultCompareWorkers bounds concurrent scenario evaluations.
	DefaultCompareWorkers = 8
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default simulation file name
	DefaultConfigFile = "simulation.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes every environment override (MORTGAGE_...).
	EnvPrefix = "MORTGAGE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultDatabasePath is where saved scenario sets live by default
	DefaultDatabasePath = "./data/mortgage-simulator.db"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
