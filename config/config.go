package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	JWTExpiration time.Duration
	ServerPort    string

	// PublicBaseURL prefixes the URLs stored for uploaded proof images.
	PublicBaseURL string
	UploadDir     string

	Location *time.Location
	Locale   string

	RosterFile string
	Roster     Roster

	ImageFetchTimeout     time.Duration
	ImageFetchConcurrency int

	DefaultAdminPassword string
}

// Load reads the environment, optionally primed from a .env file in the
// working directory, and the roster file if one is configured.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	port := getEnv("SERVER_PORT", "8080")

	loc, err := time.LoadLocation(getEnv("TZ_LOCATION", "Asia/Jakarta"))
	if err != nil {
		return nil, errors.Wrap(err, "loading TZ_LOCATION")
	}

	jwtExpiration, err := getDuration("JWT_EXPIRATION", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := getDuration("IMAGE_FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	concurrency, err := getInt("IMAGE_FETCH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:           getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/lemburan"),
		JWTSecret:             getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:         jwtExpiration,
		ServerPort:            port,
		PublicBaseURL:         strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		UploadDir:             getEnv("UPLOAD_DIR", "uploads"),
		Location:              loc,
		Locale:                getEnv("EXPORT_LOCALE", "id"),
		RosterFile:            os.Getenv("ROSTER_FILE"),
		ImageFetchTimeout:     fetchTimeout,
		ImageFetchConcurrency: concurrency,
		DefaultAdminPassword:  getEnv("DEFAULT_ADMIN_PASSWORD", "admin"),
	}

	cfg.Roster = DefaultRoster()
	if cfg.RosterFile != "" {
		roster, err := LoadRoster(cfg.RosterFile)
		if err != nil {
			return nil, err
		}
		cfg.Roster = roster
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", key)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", key)
	}
	return n, nil
}

// Roster is the fixed list of employees allowed to submit overtime.
type Roster struct {
	Employees []string `yaml:"employees"`
}

func DefaultRoster() Roster {
	return Roster{Employees: []string{
		"Luthfi Nur Fadhilah",
		"Melita Sulistyaningtyas",
		"Nur Ibnu Fadhilah",
		"Salsabila Zahra S",
		"Mintoko Yusuf M",
		"Ahmad Dennis Faza K",
		"Sakhaa' De Sela 'Aisy",
		"Nafisa Ischabita",
		"Rekno Widianingsih",
	}}
}

// LoadRoster reads a YAML file of the form:
//
//	employees:
//	  - Name One
//	  - Name Two
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, errors.Wrap(err, "reading roster file")
	}
	return ParseRoster(data)
}

func ParseRoster(data []byte) (Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Roster{}, errors.Wrap(err, "parsing roster")
	}

	seen := make(map[string]bool, len(r.Employees))
	names := r.Employees[:0]
	for _, name := range r.Employees {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return Roster{}, errors.New("roster has no employees")
	}
	r.Employees = names
	return r, nil
}

func (r Roster) Contains(name string) bool {
	for _, e := range r.Employees {
		if e == name {
			return true
		}
	}
	return false
}
