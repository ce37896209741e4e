package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"MarketAnalyst/internal/calculator"
	"MarketAnalyst/internal/report"
)

// Data source kinds.
const (
	SourceFile  = "file"
	SourceYahoo = "yahoo"
	SourceMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Kind              string  `yaml:"kind"`
		Dir               string  `yaml:"dir"`
		Proxy             string  `yaml:"proxy"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Workers           int     `yaml:"workers"`
	} `yaml:"data_source"`
	Companies []string `yaml:"companies"`
	Schedule  struct {
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Database struct {
		// SQLitePath enables report history; empty keeps no history.
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Analysis Analysis `yaml:"analysis"`
}

// Analysis mirrors report.Options. Zero values fall back to the defaults.
type Analysis struct {
	TradingDays         int      `yaml:"trading_days"`
	RiskFreeRate        *float64 `yaml:"risk_free_rate"`
	ChartWindow         int      `yaml:"chart_window"`
	VolatilityWindow    int      `yaml:"volatility_window"`
	RSIPeriod           int      `yaml:"rsi_period"`
	BollingerPeriod     int      `yaml:"bollinger_period"`
	BollingerMultiplier float64  `yaml:"bollinger_multiplier"`
	AnomalyThreshold    float64  `yaml:"anomaly_threshold"`
	AnomalyLimit        int      `yaml:"anomaly_limit"`
	MaxSeriesLength     int      `yaml:"max_series_length"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataSource.Dir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.ReportCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COMPANIES"); v != "" {
		cfg.Companies = splitList(v)
	}
	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse RISK_FREE_RATE: %w", err)
		}
		cfg.Analysis.RiskFreeRate = &rate
	}

	// Defaults
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = SourceFile
	}
	if cfg.DataSource.Kind == SourceFile && cfg.DataSource.Dir == "" {
		cfg.DataSource.Dir = "data/companies"
	}
	if cfg.DataSource.Workers == 0 {
		cfg.DataSource.Workers = 4
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 30 22 * * 1-5"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cronParser accepts the six-field (seconds first) format used by the scheduler.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks field consistency.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.DataSource.Kind {
	case SourceFile:
		if c.DataSource.Dir == "" {
			return fmt.Errorf("data_source.dir is required for the file source")
		}
	case SourceYahoo, SourceMock:
	default:
		return fmt.Errorf("data_source.kind %q is not one of file, yahoo, mock", c.DataSource.Kind)
	}
	if c.DataSource.Workers < 0 {
		return fmt.Errorf("data_source.workers must not be negative")
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if _, err := cronParser.Parse(c.Schedule.ReportCron); err != nil {
		return fmt.Errorf("schedule.report_cron: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	a := c.Analysis
	for name, v := range map[string]int{
		"trading_days":      a.TradingDays,
		"chart_window":      a.ChartWindow,
		"volatility_window": a.VolatilityWindow,
		"rsi_period":        a.RSIPeriod,
		"bollinger_period":  a.BollingerPeriod,
		"anomaly_limit":     a.AnomalyLimit,
		"max_series_length": a.MaxSeriesLength,
	} {
		if v < 0 {
			return fmt.Errorf("analysis.%s must not be negative", name)
		}
	}
	if a.BollingerMultiplier < 0 || a.AnomalyThreshold < 0 {
		return fmt.Errorf("analysis multipliers and thresholds must not be negative")
	}
	return nil
}

// TelegramEnabled reports whether Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// AnalysisOptions converts the analysis section into report options.
func (c *Config) AnalysisOptions() report.Options {
	a := c.Analysis
	rate := calculator.DefaultRiskFreeRate
	if a.RiskFreeRate != nil {
		rate = *a.RiskFreeRate
	}
	return report.Options{
		TradingDays:         a.TradingDays,
		RiskFreeRate:        rate,
		ChartWindow:         a.ChartWindow,
		VolatilityWindow:    a.VolatilityWindow,
		RSIPeriod:           a.RSIPeriod,
		BollingerPeriod:     a.BollingerPeriod,
		BollingerMultiplier: a.BollingerMultiplier,
		AnomalyThreshold:    a.AnomalyThreshold,
		AnomalyLimit:        a.AnomalyLimit,
		MaxSeriesLength:     a.MaxSeriesLength,
	}.WithDefaults()
}
