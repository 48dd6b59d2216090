package main

import (
	"encoding/json"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/authority"
	"github.com/chainward/chainward/internal/engine"
	"github.com/chainward/chainward/internal/params"
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/reputation"
	"github.com/chainward/chainward/internal/store"
	"github.com/chainward/chainward/pkg/db/pebble"
	"github.com/chainward/chainward/pkg/log"
)

type AssetConfig struct {
	Symbol      string `json:"symbol"`
	MinimumBond uint64 `json:"minimum_bond"`
	// Token fields; empty issuer means the native ledger serves this entry.
	Issuer string `json:"issuer,omitempty"`
	Supply uint64 `json:"supply,omitempty"`
}

type GrantConfig struct {
	Principal    string   `json:"principal"`
	Capabilities []string `json:"capabilities"`
}

type Config struct {
	Owner        string `json:"owner"`
	Arbitrator   string `json:"arbitrator"`
	FeeRecipient string `json:"fee_recipient"`

	SlashingRate       uint64 `json:"slashing_rate"`
	AccuracyRewardRate uint64 `json:"accuracy_reward_rate"`
	DisputeWindowHours uint64 `json:"dispute_window_hours"`
	ArbitrationHours   uint64 `json:"arbitration_window_hours"`

	Assets []AssetConfig `json:"assets"`
	Grants []GrantConfig `json:"grants"`

	Reputation *reputation.Config `json:"reputation,omitempty"`
}

func loadConfig(filename string) (*Config, error) {
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}

	return &cfg, nil
}

var capabilityNames = map[string]authority.Capability{
	"set_parameters": authority.CanSetParameters,
	"arbitrate":      authority.CanArbitrate,
	"ban":            authority.CanBan,
	"record_signals": authority.CanRecordSignals,
	"judge_reports":  authority.CanJudgeReports,
}

func parseCapabilities(names []string) (authority.Capability, error) {
	var caps authority.Capability
	for _, name := range names {
		c, ok := capabilityNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown capability %q", name)
		}
		caps |= c
	}
	return caps, nil
}

func buildParams(cfg *Config) (*params.Params, error) {
	p := params.Default()
	if cfg.SlashingRate != 0 || cfg.AccuracyRewardRate != 0 {
		if err := p.SetRates(cfg.SlashingRate, cfg.AccuracyRewardRate); err != nil {
			return nil, err
		}
	}
	if cfg.DisputeWindowHours != 0 || cfg.ArbitrationHours != 0 {
		dw := time.Duration(cfg.DisputeWindowHours) * time.Hour
		aw := time.Duration(cfg.ArbitrationHours) * time.Hour
		if err := p.SetWindows(dw, aw); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// main starts a chainward arbitration node.
// go run main.go -config chainward.json -datadir ./data
func main() {
	configPath := flag.String("config", "chainward.json", "path to the JSON config file")
	datadir := flag.String("datadir", "", "directory for the pebble store; empty runs memory-only")
	loglevel := flag.String("loglevel", "info", "zerolog level (trace, debug, info, warn, error)")
	flag.Parse()

	level, err := log.ParseLogLevel(*loglevel)
	if err != nil {
		stdlog.Fatalf("bad log level: %v", err)
	}
	log.Init(log.Options{LogLevel: level, Type: log.ConsoleLogger})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("load config")
	}

	owner, err := principal.FromHex(cfg.Owner)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("bad owner principal")
	}
	arbitrator, err := principal.FromHex(cfg.Arbitrator)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("bad arbitrator principal")
	}
	feeRecipient, err := principal.FromHex(cfg.FeeRecipient)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("bad fee recipient principal")
	}

	p, err := buildParams(cfg)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("bad dispute parameters")
	}

	repCfg := reputation.DefaultConfig()
	if cfg.Reputation != nil {
		repCfg = *cfg.Reputation
	}

	var st *store.Store
	if *datadir != "" {
		kv, err := pebble.NewKVStore(*datadir)
		if err != nil {
			log.Root.Fatal().Err(err).Str("datadir", *datadir).Msg("open store")
		}
		defer kv.Close()
		st = store.New(kv)
	}

	e, err := engine.New(engine.Config{
		Owner:        owner,
		Arbitrator:   arbitrator,
		FeeRecipient: feeRecipient,
		Params:       p,
		Reputation:   repCfg,
		Store:        st,
		Logger:       log.Engine,
	})
	if err != nil {
		log.Root.Fatal().Err(err).Msg("build engine")
	}

	for _, a := range cfg.Assets {
		symbol := asset.Asset(a.Symbol)
		var ledger asset.Ledger
		if a.Issuer == "" {
			ledger = asset.NewNativeLedger()
		} else {
			issuer, err := principal.FromHex(a.Issuer)
			if err != nil {
				log.Root.Fatal().Err(err).Str("asset", a.Symbol).Msg("bad issuer principal")
			}
			ledger = asset.NewTokenLedger(symbol, issuer, a.Supply)
		}
		if err := e.AddAsset(owner, symbol, ledger, a.MinimumBond); err != nil {
			log.Root.Fatal().Err(err).Str("asset", a.Symbol).Msg("list asset")
		}
	}

	for _, g := range cfg.Grants {
		grantee, err := principal.FromHex(g.Principal)
		if err != nil {
			log.Root.Fatal().Err(err).Str("principal", g.Principal).Msg("bad grantee principal")
		}
		caps, err := parseCapabilities(g.Capabilities)
		if err != nil {
			log.Root.Fatal().Err(err).Msg("bad grant")
		}
		if err := e.Grant(owner, grantee, caps); err != nil {
			log.Root.Fatal().Err(err).Stringer("principal", grantee).Msg("grant capabilities")
		}
	}

	if st != nil {
		if err := e.Reload(); err != nil {
			log.Root.Fatal().Err(err).Msg("reload state")
		}
	}

	log.Root.Info().
		Stringer("owner", owner).
		Stringer("arbitrator", arbitrator).
		Int("assets", len(cfg.Assets)).
		Msg("chainward running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Root.Info().Str("signal", sig.String()).Msg("shutting down")
}
