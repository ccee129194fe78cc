package constants

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitual"
	DefaultDBPath      = DefaultConfigDir + "/habitual.db"
	DefaultConfigFile  = DefaultConfigDir + "/config.yaml"
	Version            = "v0.3.0"

	// ConnectionEnvVar holds a PostgreSQL connection string when --config is "postgres"
	ConnectionEnvVar = "HABITUAL_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Lock constants
	LockfileName = "habitual.lock"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "habitual.log"
)
