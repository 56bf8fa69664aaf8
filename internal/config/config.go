package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"ServiHogarBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	JobStore struct {
		BaseURL string `yaml:"base_url" env-default:""`
		ApiKey  string `yaml:"api_key" env-default:""`
	} `yaml:"job-store"`
	Auth struct {
		JwtSecret string `yaml:"jwt_secret" env-default:""`
	} `yaml:"auth"`
	Files struct {
		SignSecret string `yaml:"sign_secret" env-default:""`
		TTLHours   int    `yaml:"ttl_hours" env-default:"720"`
		StagingDir string `yaml:"staging_dir" env-default:"/tmp/servihogar-staging"`
	} `yaml:"files"`
	Geocode struct {
		BaseURL string `yaml:"base_url" env-default:""`
	} `yaml:"geocode"`
	Wizard struct {
		CountdownSeconds int `yaml:"countdown_seconds" env-default:"15"`
		EmergencyOffsetH int `yaml:"emergency_offset_hours" env-default:"2"`
		DefaultOffsetH   int `yaml:"default_offset_hours" env-default:"24"`
	} `yaml:"wizard"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
