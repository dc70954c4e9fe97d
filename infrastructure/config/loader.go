// Package config loads YAML configuration with environment overrides.
//
// Values are resolved in this order:
//
//  1. .env files (ENV_FILE, or .env.local then .env) exported into the process
//  2. the YAML file (optional when loaded with LoadOptional)
//  3. defaults supplied by the caller for fields the file left unset
//  4. process environment, mapped onto fields through `env:"NAME"` tags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PathEnvVar names the variable that overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

var durationType = reflect.TypeOf(time.Duration(0))

// GetConfigPath returns $CONFIG_PATH or defaultPath.
func GetConfigPath(defaultPath string) string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	return defaultPath
}

// LoadWithDefaults reads path into a T, applies setDefaults, then env overrides.
// A missing file is an error.
func LoadWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	return load(path, false, setDefaults)
}

// LoadOptional behaves like LoadWithDefaults but treats a missing file as empty.
// It reports whether the file was found.
func LoadOptional[T any](path string, setDefaults func(*T)) (*T, bool, error) {
	_, statErr := os.Stat(path)
	found := statErr == nil
	cfg, err := load(path, true, setDefaults)
	return cfg, found, err
}

func load[T any](path string, optional bool, setDefaults func(*T)) (*T, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	var cfg T
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, unmarshalErr)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if setDefaults != nil {
		setDefaults(&cfg)
	}
	if envErr := applyEnv(reflect.ValueOf(&cfg).Elem()); envErr != nil {
		return nil, envErr
	}
	return &cfg, nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return loadEnvFile(envFile)
	}
	// godotenv.Load never overwrites variables that are already set, so the
	// first file to define a key wins.
	if err := loadEnvFile(".env.local"); err != nil {
		return err
	}
	return loadEnvFile(".env")
}

func loadEnvFile(name string) error {
	if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", name, err)
	}
	return nil
}

func applyEnv(v reflect.Value) error {
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := applyEnv(field); err != nil {
				return err
			}
			continue
		}

		name := t.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	case reflect.Pointer:
		// optional values stay nil unless the variable is set
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), raw); err != nil {
			return err
		}
		field.Set(elem)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
