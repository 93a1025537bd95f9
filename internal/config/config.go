package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	App struct {
		BaseURL string
	}
	Database struct {
		Driver string // "sqlite" or "memory"
		Path   string
	}
	Session struct {
		Secret   string
		TTLHours int
		Secure   bool
	}
	Mail struct {
		Mode     string // "console" or "smtp"
		From     string
		SMTPAddr string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("STUDYVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("app.baseurl", "http://localhost:8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/studyvault.db")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttlhours", 168)
	v.SetDefault("session.secure", false)
	v.SetDefault("mail.mode", "console")
	v.SetDefault("mail.from", "StudyVault <noreply@studyvault.local>")
	v.SetDefault("mail.smtpaddr", "localhost:25")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
