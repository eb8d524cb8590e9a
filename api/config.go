package api

// Config is the server configuration, populated from the environment.
// Flags on the server binary override these values.
type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	DBPath    string `env:"DB_PATH" envDefault:"reports.db"`
	StartYear int    `env:"SYSTEM_START_YEAR" envDefault:"2015"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}
