package config

const (
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".ptest"
	// DefaultEnvFile is the dotenv file read before environment overrides
	DefaultEnvFile = ".env"
	// DefaultLogLevel is the default slog level name
	DefaultLogLevel = "warn"
	// DefaultLogFormat is the default slog handler ("text" or "json")
	DefaultLogFormat = "text"
	// DefaultStorage is the default results storage backend
	DefaultStorage = StorageJSON
	// DefaultDBTable is the table prefix used by the MySQL storage
	DefaultDBTable = "ptest"
)

// Storage backends
const (
	StorageJSON  = "json"
	StorageMySQL = "mysql"
)

// Environment variables read by LoadEnv
const (
	EnvSave       = "PTEST_SAVE"
	EnvNoColor    = "PTEST_NO_COLOR"
	EnvOutputDir  = "PTEST_OUTPUT_DIR"
	EnvOutputFile = "PTEST_OUTPUT_FILE"
	EnvLogLevel   = "PTEST_LOG_LEVEL"
	EnvLogFormat  = "PTEST_LOG_FORMAT"
	EnvStorage    = "PTEST_STORAGE"
	EnvDBDSN      = "PTEST_DB_DSN"
	EnvDBTable    = "PTEST_DB_TABLE"
)
