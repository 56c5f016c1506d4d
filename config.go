package amqplog

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glimte/amqplog-go/contracts"
)

const (
	defaultHost      = "localhost"
	defaultPort      = 5672
	defaultVHost     = "/"
	defaultUser      = "guest"
	defaultExchange  = "app-logging"
	defaultTemplate  = "{0}"
	defaultHeartbeat = 3 * time.Second
	defaultMaxBuffer = 10240
	defaultDeadline  = 2 * time.Second
)

// Config is the static sink configuration, bound once at construction.
// The zero value works against a stock local RabbitMQ after normalization.
type Config struct {
	Host     string `envconfig:"AMQPLOG_HOST" default:"localhost"`
	Port     int    `envconfig:"AMQPLOG_PORT" default:"5672"`
	VHost    string `envconfig:"AMQPLOG_VHOST" default:"/"`
	Username string `envconfig:"AMQPLOG_USERNAME" default:"guest"`
	Password string `envconfig:"AMQPLOG_PASSWORD" default:"guest"`

	Exchange        string `envconfig:"AMQPLOG_EXCHANGE" default:"app-logging"`
	ExchangeDurable bool   `envconfig:"AMQPLOG_EXCHANGE_DURABLE" default:"false"`

	// RoutingKeyTemplate names the topic per record; "{0}" is replaced
	// with the record's level name.
	RoutingKeyTemplate string `envconfig:"AMQPLOG_ROUTING_KEY" default:"{0}"`

	Heartbeat time.Duration `envconfig:"AMQPLOG_HEARTBEAT" default:"3s"`

	// MaxBuffer bounds how many envelopes are held while the broker is
	// unreachable. At capacity new records are dropped; buffered ones are
	// never evicted to make room.
	MaxBuffer int `envconfig:"AMQPLOG_MAX_BUFFER" default:"10240"`

	// Format selects the body layout, contracts.FormatText or
	// contracts.FormatJSON.
	Format contracts.BodyFormat `envconfig:"AMQPLOG_FORMAT" default:"text"`

	// AppID overrides the per-record logger name in the AMQP app-id
	// property when set.
	AppID string `envconfig:"AMQPLOG_APP_ID"`

	// UserID is published as the AMQP user-id property. Brokers validate
	// it against the connection's user when set.
	UserID string `envconfig:"AMQPLOG_USER_ID"`

	// Fields restricts which record fields the JSON body carries; empty
	// means all of them.
	Fields []string `envconfig:"AMQPLOG_FIELDS"`

	DialTimeout    time.Duration `envconfig:"AMQPLOG_DIAL_TIMEOUT" default:"2s"`
	CloseTimeout   time.Duration `envconfig:"AMQPLOG_CLOSE_TIMEOUT" default:"2s"`
	PublishTimeout time.Duration `envconfig:"AMQPLOG_PUBLISH_TIMEOUT" default:"2s"`
}

// LoadConfig binds a Config from AMQPLOG_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse sink configuration: %w", err)
	}
	return cfg, nil
}

// normalize fills zero values with the documented defaults. An unset
// MaxBuffer gets the default capacity; explicit values below one are
// coerced to one rather than treated as unbounded.
func (c *Config) normalize() {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.VHost == "" {
		c.VHost = defaultVHost
	}
	if c.Username == "" {
		c.Username = defaultUser
	}
	if c.Password == "" {
		c.Password = defaultUser
	}
	if c.Exchange == "" {
		c.Exchange = defaultExchange
	}
	if c.RoutingKeyTemplate == "" {
		c.RoutingKeyTemplate = defaultTemplate
	}
	if c.Heartbeat <= 0 {
		c.Heartbeat = defaultHeartbeat
	}
	if c.MaxBuffer == 0 {
		c.MaxBuffer = defaultMaxBuffer
	}
	if c.MaxBuffer < 1 {
		c.MaxBuffer = 1
	}
	if c.Format == "" {
		c.Format = contracts.FormatText
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDeadline
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = defaultDeadline
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultDeadline
	}
}

// uri assembles the broker URI with proper credential and vhost escaping.
func (c Config) uri() string {
	u := amqp.URI{
		Scheme:   "amqp",
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		Vhost:    c.VHost,
	}
	return u.String()
}
