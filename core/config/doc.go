// Package config loads struct-tagged configuration from the
// environment, caching one parsed value per configuration type.
//
// Define a struct with `env` tags and hand Load a pointer to it:
//
//	type SMTPConfig struct {
//		Host     string `env:"SMTP_HOST" envDefault:"localhost"`
//		Port     int    `env:"SMTP_PORT" envDefault:"587"`
//		Password string `env:"SMTP_PASS,required"`
//	}
//
//	var smtp SMTPConfig
//	if err := config.Load(&smtp); err != nil {
//		log.Fatal(err)
//	}
//
// MustLoad panics instead of returning the error, which suits startup
// paths where a missing required variable should abort the process.
//
// Before the first parse, a .env file in the working directory is
// loaded without overriding variables already set, so the real
// environment always wins over the file.
//
// # One value per type
//
// The first Load of a type parses the environment; every later Load of
// the same type copies the cached value, even if the environment has
// changed in between. This makes configuration stable for the life of
// the process and lets independent packages load the same type without
// coordinating. Distinct types cache independently, so a server.Config
// and a database config never interfere. The flip side matters in
// tests: set variables before the first Load of a type, because a
// second scenario for the same type will see the cached result.
package config
