package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "socialgen/pkg/errors"
)

// Config holds all generator configuration
type Config struct {
	// App
	Port      string
	Env       string
	OutputDir string
	Seed      int64

	// Graph scale
	NumNodes                int
	NumRegions              int
	TotalInterestCategories int
	MinInterestsPerUser     int
	MaxInterestsPerUser     int

	// Connection probabilities
	BaseConnectionProb   float64
	GeographicBoost      float64
	InterestOverlapBoost float64
	MaxInterestBoost     float64

	// Relationship distances
	FriendBaseDistance float64
	FanBaseDistance    float64
	MutualFriendWeight float64
	MessageFreqWeight  float64

	// Time evolution
	NumDays   int
	StartDate time.Time

	// Daily message activity
	DailyMessageProb  float64
	MinMessagesPerDay int
	MaxMessagesPerDay int

	// Relationship transitions
	FriendToFanProb     float64
	FanToFriendProb     float64
	NewConnectionProb   float64
	BreakConnectionProb float64

	// Popularity dynamics
	ViralNodeCount     int
	ViralGainFansProb  float64
	ViralLoseFansProb  float64
	NormalGainFansProb float64
	NormalLoseFansProb float64

	// Account creation window (days before the start date)
	AccountCreationStartDaysBefore int
	AccountCreationEndDaysBefore   int

	// Export
	ExportJSON bool
	ExportCSV  bool

	// One-shot generator
	OneshotNumUsers       int
	OneshotConnectionProb float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	startDateStr := getEnv("START_DATE", "2024-01-01")
	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return nil, apperrors.NewConfigValidationFailed("START_DATE", fmt.Sprintf("not a YYYY-MM-DD date: %q", startDateStr))
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		OutputDir: getEnv("OUTPUT_DIR", "data/generated"),
		Seed:      getEnvInt64("SEED", 42),

		NumNodes:                getEnvInt("NUM_NODES", 1000),
		NumRegions:              getEnvInt("NUM_REGIONS", 8),
		TotalInterestCategories: getEnvInt("TOTAL_INTEREST_CATEGORIES", 20),
		MinInterestsPerUser:     getEnvInt("MIN_INTERESTS_PER_USER", 2),
		MaxInterestsPerUser:     getEnvInt("MAX_INTERESTS_PER_USER", 5),

		BaseConnectionProb:   getEnvFloat("BASE_CONNECTION_PROB", 0.02),
		GeographicBoost:      getEnvFloat("GEOGRAPHIC_BOOST", 0.15),
		InterestOverlapBoost: getEnvFloat("INTEREST_OVERLAP_BOOST", 0.10),
		MaxInterestBoost:     getEnvFloat("MAX_INTEREST_BOOST", 0.30),

		FriendBaseDistance: getEnvFloat("FRIEND_BASE_DISTANCE", 5.0),
		FanBaseDistance:    getEnvFloat("FAN_BASE_DISTANCE", 15.0),
		MutualFriendWeight: getEnvFloat("MUTUAL_FRIEND_WEIGHT", 0.5),
		MessageFreqWeight:  getEnvFloat("MESSAGE_FREQ_WEIGHT", 0.3),

		NumDays:   getEnvInt("NUM_DAYS", 90),
		StartDate: startDate,

		DailyMessageProb:  getEnvFloat("DAILY_MESSAGE_INCREMENT_PROB", 0.3),
		MinMessagesPerDay: getEnvInt("MIN_MESSAGES_PER_DAY", 0),
		MaxMessagesPerDay: getEnvInt("MAX_MESSAGES_PER_DAY", 10),

		FriendToFanProb:     getEnvFloat("FRIEND_TO_FAN_PROB", 0.01),
		FanToFriendProb:     getEnvFloat("FAN_TO_FRIEND_PROB", 0.02),
		NewConnectionProb:   getEnvFloat("NEW_CONNECTION_PROB", 0.005),
		BreakConnectionProb: getEnvFloat("BREAK_CONNECTION_PROB", 0.003),

		ViralNodeCount:     getEnvInt("VIRAL_NODE_COUNT", 10),
		ViralGainFansProb:  getEnvFloat("VIRAL_GAIN_FANS_PROB", 0.15),
		ViralLoseFansProb:  getEnvFloat("VIRAL_LOSE_FANS_PROB", 0.05),
		NormalGainFansProb: getEnvFloat("NORMAL_GAIN_FANS_PROB", 0.01),
		NormalLoseFansProb: getEnvFloat("NORMAL_LOSE_FANS_PROB", 0.005),

		AccountCreationStartDaysBefore: getEnvInt("ACCOUNT_CREATION_START_DAYS_BEFORE", 180),
		AccountCreationEndDaysBefore:   getEnvInt("ACCOUNT_CREATION_END_DAYS_BEFORE", 0),

		ExportJSON: getEnvBool("EXPORT_JSON", true),
		ExportCSV:  getEnvBool("EXPORT_CSV", true),

		OneshotNumUsers:       getEnvInt("ONESHOT_NUM_USERS", 1000),
		OneshotConnectionProb: getEnvFloat("ONESHOT_CONNECTION_PROB", 0.05),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects invalid configuration before any generation starts
func (c *Config) Validate() error {
	if c.NumNodes <= 0 {
		return apperrors.NewConfigValidationFailed("NUM_NODES", "must be positive")
	}
	if c.NumRegions <= 0 {
		return apperrors.NewConfigValidationFailed("NUM_REGIONS", "must be positive")
	}
	if c.NumDays <= 0 {
		return apperrors.NewConfigValidationFailed("NUM_DAYS", "must be positive")
	}
	if c.TotalInterestCategories <= 0 {
		return apperrors.NewConfigValidationFailed("TOTAL_INTEREST_CATEGORIES", "must be positive")
	}
	if c.MinInterestsPerUser < 0 {
		return apperrors.NewConfigValidationFailed("MIN_INTERESTS_PER_USER", "must not be negative")
	}
	if c.MinInterestsPerUser > c.MaxInterestsPerUser {
		return apperrors.NewConfigValidationFailed("MIN_INTERESTS_PER_USER", "exceeds MAX_INTERESTS_PER_USER")
	}
	if c.MaxInterestsPerUser > c.TotalInterestCategories {
		return apperrors.NewConfigValidationFailed("MAX_INTERESTS_PER_USER", "exceeds TOTAL_INTEREST_CATEGORIES")
	}
	if c.MinMessagesPerDay < 0 || c.MinMessagesPerDay > c.MaxMessagesPerDay {
		return apperrors.NewConfigValidationFailed("MIN_MESSAGES_PER_DAY", "must be within [0, MAX_MESSAGES_PER_DAY]")
	}
	if c.ViralNodeCount < 0 {
		return apperrors.NewConfigValidationFailed("VIRAL_NODE_COUNT", "must not be negative")
	}
	if c.AccountCreationEndDaysBefore < 0 {
		return apperrors.NewConfigValidationFailed("ACCOUNT_CREATION_END_DAYS_BEFORE", "must not be negative")
	}
	if c.AccountCreationStartDaysBefore < c.AccountCreationEndDaysBefore {
		return apperrors.NewConfigValidationFailed("ACCOUNT_CREATION_START_DAYS_BEFORE", "must be at least ACCOUNT_CREATION_END_DAYS_BEFORE")
	}
	if c.OneshotNumUsers <= 0 {
		return apperrors.NewConfigValidationFailed("ONESHOT_NUM_USERS", "must be positive")
	}

	probs := map[string]float64{
		"BASE_CONNECTION_PROB":         c.BaseConnectionProb,
		"GEOGRAPHIC_BOOST":             c.GeographicBoost,
		"INTEREST_OVERLAP_BOOST":       c.InterestOverlapBoost,
		"MAX_INTEREST_BOOST":           c.MaxInterestBoost,
		"DAILY_MESSAGE_INCREMENT_PROB": c.DailyMessageProb,
		"FRIEND_TO_FAN_PROB":           c.FriendToFanProb,
		"FAN_TO_FRIEND_PROB":           c.FanToFriendProb,
		"NEW_CONNECTION_PROB":          c.NewConnectionProb,
		"BREAK_CONNECTION_PROB":        c.BreakConnectionProb,
		"VIRAL_GAIN_FANS_PROB":         c.ViralGainFansProb,
		"VIRAL_LOSE_FANS_PROB":         c.ViralLoseFansProb,
		"NORMAL_GAIN_FANS_PROB":        c.NormalGainFansProb,
		"NORMAL_LOSE_FANS_PROB":        c.NormalLoseFansProb,
		"ONESHOT_CONNECTION_PROB":      c.OneshotConnectionProb,
	}
	for field, p := range probs {
		if p < 0 {
			return apperrors.NewConfigValidationFailed(field, "must not be negative")
		}
	}

	if c.FriendBaseDistance <= 0 {
		return apperrors.NewConfigValidationFailed("FRIEND_BASE_DISTANCE", "must be positive")
	}
	if c.FanBaseDistance <= 0 {
		return apperrors.NewConfigValidationFailed("FAN_BASE_DISTANCE", "must be positive")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var result int64
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch getEnv(key, "") {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}
