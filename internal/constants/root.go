package constants

import "time"

const (
	AppName            = "trackit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/trackit/trackit.db"
	DefaultConfigFile  = "~/.config/trackit/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MaxNameLength caps tracker names and category titles, counted in runes after trimming.
	MaxNameLength = 38

	// Group titles produced by the view engine
	PinnedGroupTitle   = "Pinned"
	UncategorizedTitle = "Uncategorized"
	EveryDayTitle      = "Every day"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "trackit-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "trackit-notifier.lock"
	NotifierProcessPrefix  = "trackit-tray"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.trackit"

	// Environment variables
	EnvDBConnection = "TRACKIT_DB_CONNECTION"
	EnvConfigDir    = "TRACKIT_CONFIG_DIR"

	// Settings keys
	SettingTimezone             = "timezone"
	SettingFilter               = "tracker_filter"
	SettingNotificationsEnabled = "notifications_enabled"
)
