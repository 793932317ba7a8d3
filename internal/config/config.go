package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// StorageConfig selects the persistence backend explicitly. "postgres" is the
// production driver, "memory" runs everything in-process for local development.
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type MailConfig struct {
	ProviderURL string `yaml:"provider_url"`
	APIKey      string `yaml:"api_key"`
	From        string `yaml:"from"`
	AdminEmail  string `yaml:"admin_email"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

type DripConfig struct {
	Step2Delay    time.Duration `yaml:"step2_delay"`
	Step3Delay    time.Duration `yaml:"step3_delay"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	DB      DBConfig      `yaml:"db"`
	Redis   RedisConfig   `yaml:"redis"`
	MQ      MQConfig      `yaml:"mq"`
	Mail    MailConfig    `yaml:"mail"`
	Auth    AuthConfig    `yaml:"auth"`
	Drip    DripConfig    `yaml:"drip"`
}

func Load() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode %s: %v", path, err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Drip.Step2Delay == 0 {
		cfg.Drip.Step2Delay = 48 * time.Hour
	}
	if cfg.Drip.Step3Delay == 0 {
		cfg.Drip.Step3Delay = 120 * time.Hour
	}
	if cfg.Drip.SweepInterval == 0 {
		cfg.Drip.SweepInterval = time.Minute
	}
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = driver
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	if url := os.Getenv("MAIL_PROVIDER_URL"); url != "" {
		cfg.Mail.ProviderURL = url
	}
	if key := os.Getenv("MAIL_API_KEY"); key != "" {
		cfg.Mail.APIKey = key
	}
	if from := os.Getenv("MAIL_FROM"); from != "" {
		cfg.Mail.From = from
	}
	if admin := os.Getenv("MAIL_ADMIN_EMAIL"); admin != "" {
		cfg.Mail.AdminEmail = admin
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if user := os.Getenv("ADMIN_USERNAME"); user != "" {
		cfg.Auth.AdminUsername = user
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.Auth.AdminPassword = password
	}
}
