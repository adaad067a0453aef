package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"tcdump/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input      InputConfig
	Output     OutputConfig
	Generation GenerationConfig
	Logging    LoggingConfig
}

// InputConfig holds the spreadsheet and project dump locations
type InputConfig struct {
	Spreadsheet string
	Sheet       string // empty means the first sheet of the workbook
	ProjectDump string
}

// OutputConfig holds the paths of every file a conversion writes
type OutputConfig struct {
	InventoryJSON   string
	TestElementsXML string
	TestCaseXML     string
	ZipPath         string
	SkipDump        bool
}

// GenerationConfig holds identifier generation settings
type GenerationConfig struct {
	Seed int64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it.
// Callers load a .env file first (godotenv) and apply CLI flags afterwards.
func Load() (*Config, error) {
	config := &Config{
		Input:      *loadInputConfig(),
		Output:     *loadOutputConfig(),
		Generation: *loadGenerationConfig(),
		Logging:    *loadLoggingConfig(),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadInputConfig() *InputConfig {
	return &InputConfig{
		Spreadsheet: getEnvOrDefault("TCDUMP_INPUT", ""),
		Sheet:       getEnvOrDefault("TCDUMP_SHEET", ""),
		ProjectDump: getEnvOrDefault("TCDUMP_PROJECT_DUMP", "project_dump.xml"),
	}
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		InventoryJSON:   getEnvOrDefault("TCDUMP_OUTPUT_JSON", "output.json"),
		TestElementsXML: getEnvOrDefault("TCDUMP_OUTPUT_XML", "output_test_elements.xml"),
		TestCaseXML:     getEnvOrDefault("TCDUMP_OUTPUT_TESTCASE", "output_testcase.xml"),
		ZipPath:         getEnvOrDefault("TCDUMP_ZIP_PATH", "project_dump.zip"),
		SkipDump:        getEnvBoolOrDefault("TCDUMP_SKIP_DUMP", false),
	}
}

func loadGenerationConfig() *GenerationConfig {
	// Identifiers carry no cross-run stability, so an unset seed is time based.
	return &GenerationConfig{
		Seed: getEnvInt64OrDefault("TCDUMP_SEED", time.Now().UnixNano()),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

// Validate checks the fields a conversion cannot run without.
// The spreadsheet path is checked by the command once flags are applied.
func Validate(config *Config) error {
	if strings.TrimSpace(config.Output.TestElementsXML) == "" {
		return errors.ConfigInvalid("test elements output path is required")
	}
	if strings.TrimSpace(config.Output.TestCaseXML) == "" {
		return errors.ConfigInvalid("test case output path is required")
	}
	if !config.Output.SkipDump {
		if strings.TrimSpace(config.Input.ProjectDump) == "" {
			return errors.ConfigInvalid("project dump path is required unless the dump update is skipped")
		}
		if strings.TrimSpace(config.Output.ZipPath) == "" {
			return errors.ConfigInvalid("zip path is required unless the dump update is skipped")
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
