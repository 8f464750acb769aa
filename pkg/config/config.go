package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/gmitev/dbsession"
)

// DefaultPrefix is the environment variable prefix FromEnv uses when none
// is given.
const DefaultPrefix = "DB"

// FromEnv loads a .env file when present and reads connection options from
// <PREFIX>_HOST, <PREFIX>_PORT, <PREFIX>_NAME, <PREFIX>_USER and
// <PREFIX>_PASSWORD. Absent variables leave their field empty; nothing is
// validated here.
func FromEnv(prefix string) dbsession.Options {
	godotenv.Load()
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return dbsession.Options{
		Host:     os.Getenv(prefix + "_HOST"),
		Port:     os.Getenv(prefix + "_PORT"),
		Database: os.Getenv(prefix + "_NAME"),
		Username: os.Getenv(prefix + "_USER"),
		Password: os.Getenv(prefix + "_PASSWORD"),
	}
}

// Merge fills any empty field of opts from fallback.
func Merge(opts, fallback dbsession.Options) dbsession.Options {
	if opts.Host == "" {
		opts.Host = fallback.Host
	}
	if opts.Port == "" {
		opts.Port = fallback.Port
	}
	if opts.Database == "" {
		opts.Database = fallback.Database
	}
	if opts.Username == "" {
		opts.Username = fallback.Username
	}
	if opts.Password == "" {
		opts.Password = fallback.Password
	}
	return opts
}
