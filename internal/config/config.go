package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string   `koanf:"listen"`
	Api      Api      `koanf:"api"`
	Database Database `koanf:"db"`
	Currency string   `koanf:"currency"`
	Locale   string   `koanf:"locale"`
	Sections []string `koanf:"sections"`
}

type Api struct {
	BaseUrl string `koanf:"baseurl"`
	Token   string `koanf:"token"`
	// Timeout is the per-request timeout for backend calls, in seconds.
	Timeout int `koanf:"timeout"`
}

type Database struct {
	Path string `koanf:"path"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Listen: "localhost:8080",
		Api: Api{
			BaseUrl: "http://localhost:3000",
			Timeout: 10,
		},
		Database: Database{
			Path: "data/centavo.db",
		},
		Currency: "USD",
		Locale:   "en-US",
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CENTAVO_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CENTAVO_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
