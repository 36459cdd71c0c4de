package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfiguration() *Configuration {
	return &Configuration{
		PropertyValue: 450000,
		ETFReturn:     7,
		InflationRate: 2,
		HorizonYears:  30,
		Strategy:      "partial",
		Scenarios: []Scenario{
			{ID: "a", Name: "A", Loan: Loan{Principal: 300000, AnnualRate: 3.6, MonthlyPayment: 1400}},
			{ID: "b", Name: "B", Loan: Loan{Principal: 300000, AnnualRate: 3.4, MonthlyPayment: 1500, ExtraYearlyLimit: 5000}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Configuration)
		wantErr error
		path    string
	}{
		{
			name:   "valid",
			mutate: func(c *Configuration) {},
		},
		{
			name:    "no scenarios",
			mutate:  func(c *Configuration) { c.Scenarios = nil },
			wantErr: ErrMissingField,
			path:    "scenarios",
		},
		{
			name:    "missing principal",
			mutate:  func(c *Configuration) { c.Scenarios[1].Loan.Principal = 0 },
			wantErr: ErrMissingField,
			path:    "scenarios[1].loan.principal",
		},
		{
			name:    "negative principal",
			mutate:  func(c *Configuration) { c.Scenarios[0].Loan.Principal = -1 },
			wantErr: ErrInvalidValue,
			path:    "scenarios[0].loan.principal",
		},
		{
			name:    "missing payment",
			mutate:  func(c *Configuration) { c.Scenarios[0].Loan.MonthlyPayment = 0 },
			wantErr: ErrMissingField,
			path:    "scenarios[0].loan.monthlyPayment",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Configuration) { c.Scenarios[0].Loan.AnnualRate = -0.5 },
			wantErr: ErrInvalidValue,
			path:    "scenarios[0].loan.annualRate",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Configuration) { c.Strategy = "sometimes" },
			wantErr: ErrInvalidValue,
			path:    "strategy",
		},
		{
			name:    "zero horizon",
			mutate:  func(c *Configuration) { c.HorizonYears = 0 },
			wantErr: ErrInvalidValue,
			path:    "horizonYears",
		},
		{
			name:    "negative option",
			mutate:  func(c *Configuration) { c.Options.MonthlyETF = []float64{100, -5} },
			wantErr: ErrInvalidValue,
			path:    "options.monthlyEtf[1]",
		},
		{
			name:    "negative property value",
			mutate:  func(c *Configuration) { c.PropertyValue = -1 },
			wantErr: ErrInvalidValue,
			path:    "propertyValue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := validConfiguration()
			tt.mutate(conf)

			err := conf.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected a FieldError, got %T", err)
			}
			if fieldErr.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, fieldErr.Path)
			}
			if !strings.HasPrefix(err.Error(), tt.path+": ") {
				t.Errorf("message should start with the path: %q", err.Error())
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	conf := validConfiguration()
	conf.Scenarios[0].Loan.Principal = 0
	conf.Scenarios[1].Loan.MonthlyPayment = -10
	conf.Strategy = "?"

	err := conf.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, path := range []string{"strategy", "scenarios[0].loan.principal", "scenarios[1].loan.monthlyPayment"} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error does not mention %s: %v", path, err)
		}
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Configuration)
		want   []string
	}{
		{
			name:   "clean",
			mutate: func(c *Configuration) {},
		},
		{
			name:   "payment below interest",
			mutate: func(c *Configuration) { c.Scenarios[0].Loan.MonthlyPayment = 800 },
			want:   []string{"never amortizes"},
		},
		{
			name:   "duplicate id",
			mutate: func(c *Configuration) { c.Scenarios[1].ID = "a" },
			want:   []string{"used more than once"},
		},
		{
			name: "extra above every limit",
			mutate: func(c *Configuration) {
				c.Scenarios[0].Loan.ExtraYearlyLimit = 10000
				c.Options.ExtraYearly = []float64{0, 5000, 20000}
			},
			want: []string{"exceeds every scenario's limit"},
		},
		{
			name: "extra above one limit only",
			mutate: func(c *Configuration) {
				c.Options.ExtraYearly = []float64{0, 20000}
			},
		},
		{
			name:   "horizon off checkpoint",
			mutate: func(c *Configuration) { c.HorizonYears = 25 },
			want:   []string{"not a checkpoint year"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := validConfiguration()
			tt.mutate(conf)

			warnings := conf.Warnings()
			if len(warnings) != len(tt.want) {
				t.Fatalf("expected %d warnings, got %d: %v", len(tt.want), len(warnings), warnings)
			}
			for i, fragment := range tt.want {
				if !strings.Contains(warnings[i], fragment) {
					t.Errorf("warning %q does not mention %q", warnings[i], fragment)
				}
			}
		})
	}
}
