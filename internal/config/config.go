package config

import (
	"fmt"
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server Server `yaml:"server"`
	Auth   Auth   `yaml:"auth"`
	Vector Vector `yaml:"vector"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	Environment   string `yaml:"environment"` // development, production
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	RateLimit     int    `yaml:"rateLimit"` // requests per hour per client, 0 keeps the default
}

type Auth struct {
	JwtSecret        string `yaml:"jwtSecret"`
	TokenExpiryHours int    `yaml:"tokenExpiryHours"`
}

type Vector struct {
	ChromaHost     string  `yaml:"chromaHost"`
	ChromaTenant   string  `yaml:"chromaTenant"`
	ChromaDatabase string  `yaml:"chromaDatabase"`
	ChromaApiKey   string  `yaml:"chromaApiKey"`
	Collection     string  `yaml:"collection"`
	EmbeddingHost  string  `yaml:"embeddingHost"`
	EmbeddingToken string  `yaml:"embeddingToken"`
	EmbeddingModel string  `yaml:"embeddingModel"`
	TopN           int     `yaml:"topN"`
	ScoreThreshold float64 `yaml:"scoreThreshold"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	config.applyDefaults()

	if config.Auth.JwtSecret == "" {
		return Config{}, fmt.Errorf("auth.jwtSecret must be set")
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":3000"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 25
	}
	if c.Auth.TokenExpiryHours == 0 {
		c.Auth.TokenExpiryHours = 24 * 7
	}
	if c.Vector.Collection == "" {
		c.Vector.Collection = "stashit_content"
	}
	if c.Vector.TopN == 0 {
		c.Vector.TopN = 10
	}
	if c.Vector.ScoreThreshold == 0 {
		c.Vector.ScoreThreshold = 0.5
	}
	if c.Vector.EmbeddingModel == "" {
		c.Vector.EmbeddingModel = "text-embedding-3-small"
	}
}
