package config

type Database struct {
	Host     string `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int    `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string `mapstructure:"DATABASE_NAME" default:"gascalc"`
	User     string `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string `mapstructure:"DATABASE_PASSWORD" default:"gascalc"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"gascalc"`
	Service  string `mapstructure:"SERVICE" default:"api"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type JWT struct {
	Secret string `mapstructure:"JWT_SECRET" default:"mySecretKeyForJWTTokenGenerationThatShouldBeAtLeast256BitsLong"`
	// Token lifetime in hours.
	ExpireHours int `mapstructure:"JWT_EXPIRE_HOURS" default:"24"`
}

// Worker configures the external asynchronous calculation service.
type Worker struct {
	Addr    string `mapstructure:"WORKER_ADDR" default:"http://localhost:8081"`
	Enabled bool   `mapstructure:"WORKER_ENABLED" default:"true"`
	// Shared secret the worker must present on the results callback.
	Token string `mapstructure:"WORKER_TOKEN" default:"async123"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}
