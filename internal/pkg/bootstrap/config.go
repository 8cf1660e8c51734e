// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 聚合了进程需要的全部配置，来源是 yaml 文件 + 环境变量覆盖。
type Config struct {
	App struct {
		ServiceName string `yaml:"serviceName"`
		Port        int    `yaml:"port"`
	} `yaml:"app"`
	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers          []string `yaml:"brokers"`
			ReservationTopic string   `yaml:"reservationTopic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			ServerAddrs string `yaml:"serverAddrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
		Auth struct {
			BaseURL         string `yaml:"baseUrl"`
			APIKey          string `yaml:"apiKey"`
			CacheTTLSeconds int    `yaml:"cacheTtlSeconds"`
		} `yaml:"auth"`
	} `yaml:"infra"`
}

var currentConfig = defaultConfig()

func defaultConfig() Config {
	var cfg Config
	cfg.App.ServiceName = "reservation-service"
	cfg.App.Port = 8080
	cfg.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/reserva?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Kafka.ReservationTopic = "reservation-events"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	cfg.Infra.Auth.CacheTTLSeconds = 300
	return cfg
}

// LoadConfig 读取 yaml 配置文件（路径可为空）并应用环境变量覆盖。
func LoadConfig(path string) error {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return err
		}
	}

	applyEnvOverrides(&cfg)
	currentConfig = cfg
	return nil
}

// GetCurrentConfig 返回当前生效的配置快照。
func GetCurrentConfig() Config {
	return currentConfig
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVICE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = port
		}
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.Infra.Mysql.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Infra.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Infra.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("JAEGER_ENDPOINT"); v != "" {
		cfg.Infra.Jaeger.Endpoint = v
	}
	if v := os.Getenv("NACOS_SERVER_ADDRS"); v != "" {
		cfg.Infra.Nacos.ServerAddrs = v
	}
	if v := os.Getenv("NACOS_NAMESPACE"); v != "" {
		cfg.Infra.Nacos.Namespace = v
	}
	if v := os.Getenv("NACOS_GROUP"); v != "" {
		cfg.Infra.Nacos.Group = v
	}
	if v := os.Getenv("AUTH_BASE_URL"); v != "" {
		cfg.Infra.Auth.BaseURL = v
	}
	if v := os.Getenv("AUTH_API_KEY"); v != "" {
		cfg.Infra.Auth.APIKey = v
	}
}
