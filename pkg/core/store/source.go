package store

import (
	"context"
	"fmt"

	"gd_valuation/pkg/core/tariff"
)

// SourceOptions selects the tariff backends
type SourceOptions struct {
	DatabaseURL string
	CacheDir    string
	ANEELTable  string
}

// NewTariffSource assembles the tariff chain: stored rows (DB or file
// cache) first, then the built-in table with any ANEEL import applied.
// Backend failures are logged and the chain degrades to the built-in table.
func NewTariffSource(ctx context.Context, opts SourceOptions) tariff.ChainSource {
	var chain tariff.ChainSource

	if opts.DatabaseURL != "" {
		if err := InitDB(ctx, opts.DatabaseURL); err != nil {
			fmt.Printf("[WARNING] Tariff DB unavailable: %v\n", err)
		}
	}

	if GetPool() != nil || opts.CacheDir != "" {
		chain = append(chain, NewTariffRepo(GetPool(), opts.CacheDir))
	}

	static := tariff.NewStaticSource()
	if opts.ANEELTable != "" {
		rows, err := tariff.LoadANEELFile(opts.ANEELTable)
		if err != nil {
			fmt.Printf("[WARNING] ANEEL table not loaded: %v\n", err)
		} else {
			static = static.WithOverrides(rows)
			fmt.Printf("[STORE] Loaded %d ANEEL tariff rows from %s\n", len(rows), opts.ANEELTable)
		}
	}

	return append(chain, static)
}
