package config

import (
	"os"
	"path"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Duration unmarshals from yaml strings like "720h" or "30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Public struct {
	Addr          string        `yaml:"addr"`
	LogLevel      string        `yaml:"log_level"`
	LogJSON       bool          `yaml:"log_json"`
	TemplateDir   string        `yaml:"template_dir"`
	SecureCookies bool          `yaml:"secure_cookies"`
	SessionTTL    Duration `yaml:"session_ttl"`
	ResetTokenTTL Duration `yaml:"reset_token_ttl"`
	TopicsPerPage int           `yaml:"topics_per_page"`
	PostsPerPage  int           `yaml:"posts_per_page"`

	BoardNameMaxLen    int `yaml:"board_name_max_len"`
	BoardDescMaxLen    int `yaml:"board_desc_max_len"`
	TopicSubjectMaxLen int `yaml:"topic_subject_max_len"`
	PostMessageMaxLen  int `yaml:"post_message_max_len"`
}

type Private struct {
	Pg         Pg     `yaml:"pg"`
	SessionKey string `yaml:"session_key"`
	Smtp       Smtp   `yaml:"smtp"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Smtp struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.ApplyDefaults()

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)
	private.applyEnvOverrides()

	return &Config{public, private}
}

func (p *Public) ApplyDefaults() {
	if p.Addr == "" {
		p.Addr = ":8080"
	}
	if p.SessionTTL == 0 {
		p.SessionTTL = Duration(720 * time.Hour)
	}
	if p.ResetTokenTTL == 0 {
		p.ResetTokenTTL = Duration(time.Hour)
	}
	if p.TopicsPerPage == 0 {
		p.TopicsPerPage = 10
	}
	if p.PostsPerPage == 0 {
		p.PostsPerPage = 3
	}
	if p.BoardNameMaxLen == 0 {
		p.BoardNameMaxLen = 30
	}
	if p.BoardDescMaxLen == 0 {
		p.BoardDescMaxLen = 100
	}
	if p.TopicSubjectMaxLen == 0 {
		p.TopicSubjectMaxLen = 255
	}
	if p.PostMessageMaxLen == 0 {
		p.PostMessageMaxLen = 4000
	}
	if p.TemplateDir == "" {
		p.TemplateDir = "web/templates"
	}
}

// Secrets can come from the environment (.env in development, injected in
// production) instead of private.yaml.
func (p *Private) applyEnvOverrides() {
	if v := os.Getenv("SESSION_KEY"); v != "" {
		p.SessionKey = v
	}
	if v := os.Getenv("PG_HOST"); v != "" {
		p.Pg.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			p.Pg.Port = port
		}
	}
	if v := os.Getenv("PG_USER"); v != "" {
		p.Pg.User = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		p.Pg.Password = v
	}
	if v := os.Getenv("PG_DBNAME"); v != "" {
		p.Pg.Dbname = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		p.Smtp.Password = v
	}
}
