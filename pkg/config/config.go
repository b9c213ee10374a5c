package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDBPassword возвращается, если пароль к БД не передан через окружение или .env
var ErrMissingDBPassword = errors.New("postgres password is not set (POSTGRES_PASSWORD)")

type Config struct {
	Server       Server      `mapstructure:"server"`
	Postgres     Postgres    `mapstructure:"postgres"`
	Outbox       Outbox      `mapstructure:"outbox"`
	Broker       Broker      `mapstructure:"broker"`
	Cron         Cron        `mapstructure:"cron"`
	Relay        RelayConfig `mapstructure:"relay"`
	Validation   Validation  `mapstructure:"validation"`
	LoggingLevel string      `mapstructure:"logging-level"`
}

type Server struct {
	Port          string `mapstructure:"port"`
	SwaggerHost   string `mapstructure:"swagger_host"`
	SwaggerSchema string `mapstructure:"swagger_schema"`
	BodyLimit     int    `mapstructure:"body_limit"`
	CORS          CORS   `mapstructure:"cors"`
}

type CORS struct {
	AllowOrigins string `mapstructure:"allow_origins"`
	AllowMethods string `mapstructure:"allow_methods"`
	AllowHeaders string `mapstructure:"allow_headers"`
}

type Postgres struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Database       string        `mapstructure:"database"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MaxConnections int32         `mapstructure:"max_connections"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
}

// ConnString собирает postgres:// URL. Логин и пароль экранируются.
func (p Postgres) ConnString() string {
	q := url.Values{}
	q.Set("sslmode", p.SSLMode)
	if p.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(p.ConnectTimeout/time.Second)))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Redacted - строка подключения без пароля, для логов
func (p Postgres) Redacted() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=%s", p.Username, p.Host, p.Port, p.Database, p.SSLMode)
}

type Outbox struct {
	Enabled bool `mapstructure:"enabled"`
}

type Broker struct {
	Kafka Kafka `mapstructure:"kafka"`
}

type Kafka struct {
	Brokers      string `mapstructure:"brokers"`
	WriterTopic  string `mapstructure:"writerTopic"`
	WriterUsr    string `mapstructure:"writerUsr"`
	WriterUsrPwd string `mapstructure:"writerUsrPwd"`
	MaxAttempts  int    `mapstructure:"maxAttempts"`
}

type Cron struct {
	DaysToKeep int    `mapstructure:"days_to_keep"` // сколько дней хранить отправленные записи outbox
	Schedule   string `mapstructure:"schedule"`     // cron формат, например "0 0 3 * * *"
	Interval   string `mapstructure:"interval"`     // "@every 1h"
	// Приоритет: если указан Schedule, используется он, иначе Interval
}

type RelayConfig struct {
	Workers     int           `mapstructure:"workers"`
	BatchSize   int           `mapstructure:"batchSize"`
	Lease       time.Duration `mapstructure:"lease"`
	PollPeriod  time.Duration `mapstructure:"pollPeriod"`
	MaxAttempts int           `mapstructure:"maxAttempts"`
}

type Validation struct {
	EnforceChronology bool `mapstructure:"enforce_chronology"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.swagger_host", "localhost:8000")
	v.SetDefault("server.swagger_schema", "http")
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("server.cors.allow_origins", "*")
	v.SetDefault("server.cors.allow_methods", "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS")
	v.SetDefault("server.cors.allow_headers", "*")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "events_db")
	v.SetDefault("postgres.username", "dbuser")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.ssl_mode", "prefer")
	v.SetDefault("postgres.max_connections", 5)
	v.SetDefault("postgres.connect_timeout", 5*time.Second)
	v.SetDefault("postgres.migrations_dir", "resources/migrations")

	v.SetDefault("outbox.enabled", false)

	v.SetDefault("broker.kafka.brokers", "")
	v.SetDefault("broker.kafka.writerTopic", "events")
	v.SetDefault("broker.kafka.writerUsr", "")
	v.SetDefault("broker.kafka.writerUsrPwd", "")
	v.SetDefault("broker.kafka.maxAttempts", 3)

	v.SetDefault("cron.days_to_keep", 7)
	v.SetDefault("cron.schedule", "")
	v.SetDefault("cron.interval", "@every 1h")

	v.SetDefault("relay.workers", 2)
	v.SetDefault("relay.batchSize", 100)
	v.SetDefault("relay.lease", 30*time.Second)
	v.SetDefault("relay.pollPeriod", time.Second)
	v.SetDefault("relay.maxAttempts", 5)

	v.SetDefault("validation.enforce_chronology", false)

	v.SetDefault("logging-level", "info")
}

func NewConfig() (Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, envFile string) (Config, error) {
	var conf Config

	// .env только дополняет окружение: уже выставленные переменные не перетираются
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return conf, fmt.Errorf("read %s: %w", envFile, err)
	}

	v.AutomaticEnv()
	// Настраиваем замену точек и дефисов на подчеркивания для переменных окружения
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if err := v.Unmarshal(&conf); err != nil {
		return conf, err
	}

	if conf.Postgres.Password == "" {
		return conf, ErrMissingDBPassword
	}

	return conf, nil
}
